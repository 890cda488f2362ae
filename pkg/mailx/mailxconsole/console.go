package mailxconsole

import (
	"context"
	"net/http"
	"strings"

	"github.com/Abraxas-365/sesrelay/pkg/logx"
	"github.com/Abraxas-365/sesrelay/pkg/mailx"
	"github.com/google/uuid"
)

// ConsoleProvider prints raw emails via logx instead of sending them.
// Intended for local development.
type ConsoleProvider struct{}

// NewConsoleProvider creates a new console email provider.
func NewConsoleProvider() *ConsoleProvider {
	return &ConsoleProvider{}
}

// SendRawEmail logs the envelope and always reports 200 with a fresh message id.
func (p *ConsoleProvider) SendRawEmail(_ context.Context, raw mailx.RawEmail) (mailx.SendResult, error) {
	id := uuid.NewString()

	logx.WithFields(logx.Fields{
		"message_id":   id,
		"from":         raw.From,
		"destinations": strings.Join(raw.Destinations, ", "),
		"size":         len(raw.Data),
	}).Info("mailx/console: raw email accepted (dev mode)")
	logx.Debugf("mailx/console: raw message:\n%s", raw.Data)

	return mailx.SendResult{MessageID: id, StatusCode: http.StatusOK}, nil
}

var _ mailx.RawSender = (*ConsoleProvider)(nil)
