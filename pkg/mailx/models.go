package mailx

import "io"

// EmailRequest is a single send request. It lives for one call only.
type EmailRequest struct {
	To               []string
	CC               []string
	BCC              []string
	Subject          string
	Body             string
	IsHTML           bool
	ConfigurationSet string
	Attachment       *Attachment
}

// Attachment points at the file to attach: a store path, or a named stream.
type Attachment struct {
	Path     string
	Filename string
	Content  io.Reader
}

// FileAttachment is an attachment whose content has been loaded.
type FileAttachment struct {
	Filename string
	Data     []byte
}

// Message is a fully constructed email before MIME serialization.
// Exactly one of TextBody and HTMLBody is set.
type Message struct {
	From       string
	To         []string
	CC         []string
	BCC        []string
	Subject    string
	TextBody   string
	HTMLBody   string
	Attachment *FileAttachment
}

// RawEmail is a serialized MIME message plus its envelope.
type RawEmail struct {
	From             string
	Destinations     []string
	Data             []byte
	ConfigurationSet string
}

// SendResult is what the provider reported for one raw send.
type SendResult struct {
	MessageID  string `json:"message_id,omitempty"`
	StatusCode int    `json:"status_code"`
}
