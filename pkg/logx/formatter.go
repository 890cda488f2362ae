package logx

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	colorReset      = "\033[0m"
	colorRed        = "\033[31m"
	colorCyan       = "\033[36m"
	colorGray       = "\033[90m"
	colorBoldRed    = "\033[1;31m"
	colorBoldYellow = "\033[1;33m"
	colorBoldCyan   = "\033[1;36m"
	colorBoldGreen  = "\033[1;32m"
)

// Formatter is the interface for log formatters
type Formatter interface {
	Format(entry *LogEntry) ([]byte, error)
}

func newFormatter(config *Config) Formatter {
	switch config.Format {
	case FormatJSON:
		return &JSONFormatter{config: config, messageKey: "message", timeKey: "timestamp"}
	case FormatCloudWatch:
		return &JSONFormatter{config: config, messageKey: "msg", timeKey: "time"}
	default:
		return &ConsoleFormatter{config: config}
	}
}

// JSONFormatter formats logs as one JSON object per line. CloudWatch uses the
// same layout with shorter keys.
type JSONFormatter struct {
	config     *Config
	messageKey string
	timeKey    string
}

// Format formats a log entry as JSON
func (f *JSONFormatter) Format(entry *LogEntry) ([]byte, error) {
	data := make(map[string]any, len(entry.Fields)+4)
	for k, v := range entry.Fields {
		data[k] = v
	}

	data["level"] = entry.Level.String()
	data[f.messageKey] = entry.Message

	if f.config.EnableTimestamp {
		data[f.timeKey] = entry.Timestamp.Format(time.RFC3339Nano)
	}
	if entry.Caller != "" {
		data["caller"] = entry.Caller
	}
	if entry.Error != nil {
		data["error"] = entry.Error.Error()
	}

	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// ConsoleFormatter formats logs for humans, optionally with colors
type ConsoleFormatter struct {
	config *Config
}

// Format formats a log entry for console output
func (f *ConsoleFormatter) Format(entry *LogEntry) ([]byte, error) {
	var b strings.Builder

	if f.config.EnableTimestamp {
		f.paint(&b, colorGray, entry.Timestamp.Format(f.config.TimeFormat))
		b.WriteString(" ")
	}

	b.WriteString(f.level(entry.Level))
	b.WriteString(" ")

	if entry.Caller != "" {
		f.paint(&b, colorGray, "["+entry.Caller+"]")
		b.WriteString(" ")
	}

	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		// sorted so lines are stable across runs
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
		}
		b.WriteString(" ")
		f.paint(&b, colorCyan, strings.Join(pairs, " "))
	}

	if entry.Error != nil {
		b.WriteString("\n")
		f.paint(&b, colorRed, "  error: "+entry.Error.Error())
	}

	b.WriteString("\n")
	return []byte(b.String()), nil
}

func (f *ConsoleFormatter) paint(b *strings.Builder, color, s string) {
	if !f.config.EnableColors {
		b.WriteString(s)
		return
	}
	b.WriteString(color)
	b.WriteString(s)
	b.WriteString(colorReset)
}

func (f *ConsoleFormatter) level(level Level) string {
	label := fmt.Sprintf("[%-5s]", level.String())
	if !f.config.EnableColors {
		return label
	}

	switch level {
	case LevelDebug:
		return colorBoldCyan + label + colorReset
	case LevelInfo:
		return colorBoldGreen + label + colorReset
	case LevelWarn:
		return colorBoldYellow + label + colorReset
	default:
		return colorBoldRed + label + colorReset
	}
}
