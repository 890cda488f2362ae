// Package mailx builds MIME emails and hands them to a raw-send provider.
package mailx

import (
	"context"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/Abraxas-365/sesrelay/pkg/errx"
	"github.com/Abraxas-365/sesrelay/pkg/fsx"
	"github.com/Abraxas-365/sesrelay/pkg/logx"
)

// EmailService sends email and returns the provider's raw HTTP status code.
type EmailService interface {
	SendEmail(ctx context.Context, to []string, subject, body string, opts ...Option) (int, error)
	SendEmailWithAttachmentPath(ctx context.Context, to []string, subject, body, filePath string, opts ...Option) (int, error)
	SendEmailWithAttachmentStream(ctx context.Context, to []string, subject, body, fileName string, r io.Reader, opts ...Option) (int, error)
}

// RawSender submits a serialized MIME message to an email provider as one unit.
type RawSender interface {
	SendRawEmail(ctx context.Context, raw RawEmail) (SendResult, error)
}

// Service implements EmailService on top of a RawSender.
type Service struct {
	provider RawSender
	files    fsx.FileReader
	sender   string
	defaults []Option
}

// NewService creates a service sending from sender. files resolves attachment paths.
func NewService(provider RawSender, files fsx.FileReader, sender string) *Service {
	return &Service{
		provider: provider,
		files:    files,
		sender:   sender,
	}
}

// WithDefaults returns a copy of s that applies opts before the per-call options.
func (s *Service) WithDefaults(opts ...Option) *Service {
	cp := *s
	cp.defaults = append(append([]Option(nil), s.defaults...), opts...)
	return &cp
}

func (s *Service) request(to []string, subject, body string, opts []Option) EmailRequest {
	return newRequest(to, subject, body, append(append([]Option(nil), s.defaults...), opts...))
}

// SendEmail sends a message without attachment.
func (s *Service) SendEmail(ctx context.Context, to []string, subject, body string, opts ...Option) (int, error) {
	return s.Send(ctx, s.request(to, subject, body, opts))
}

// SendEmailWithAttachmentPath attaches the file stored at filePath. An empty
// path sends without attachment.
func (s *Service) SendEmailWithAttachmentPath(ctx context.Context, to []string, subject, body, filePath string, opts ...Option) (int, error) {
	req := s.request(to, subject, body, opts)
	if filePath != "" {
		req.Attachment = &Attachment{Path: filePath}
	}
	return s.Send(ctx, req)
}

// SendEmailWithAttachmentStream attaches r under fileName. A nil reader or an
// empty name sends without attachment.
func (s *Service) SendEmailWithAttachmentStream(ctx context.Context, to []string, subject, body, fileName string, r io.Reader, opts ...Option) (int, error) {
	req := s.request(to, subject, body, opts)
	if r != nil && fileName != "" {
		req.Attachment = &Attachment{Filename: fileName, Content: r}
	}
	return s.Send(ctx, req)
}

// Send builds req into a MIME message and submits it in a single raw send.
func (s *Service) Send(ctx context.Context, req EmailRequest) (int, error) {
	if len(req.To) == 0 {
		return 0, mailxErrors.New(ErrNoRecipients)
	}

	msg := NewMessage(s.sender, req)

	attachment, err := s.loadAttachment(ctx, req.Attachment)
	if err != nil {
		return 0, err
	}
	msg.Attachment = attachment

	raw, err := msg.Raw()
	if err != nil {
		return 0, err
	}
	raw.ConfigurationSet = req.ConfigurationSet

	recipients := strings.Join(msg.To, ", ")

	result, err := s.provider.SendRawEmail(ctx, raw)
	if err != nil {
		logx.WithFields(logx.Fields{
			"to": recipients,
		}).WithError(err).Errorf("Failed to send email to %s", recipients)
		return result.StatusCode, mailxErrors.NewWithCause(ErrSendFailed, err).WithDetail("to", msg.To)
	}

	fields := logx.Fields{
		"message_id": result.MessageID,
		"to":         recipients,
		"status":     result.StatusCode,
	}
	if result.StatusCode == http.StatusOK {
		logx.WithFields(fields).Infof("The email with message id %s sent successfully to %s", result.MessageID, recipients)
	} else {
		logx.WithFields(fields).Errorf("Failed to send email with message id %s to %s due to status %d", result.MessageID, recipients, result.StatusCode)
	}

	return result.StatusCode, nil
}

func (s *Service) loadAttachment(ctx context.Context, a *Attachment) (*FileAttachment, error) {
	switch {
	case a == nil:
		return nil, nil

	case a.Path != "":
		if s.files == nil {
			return nil, errx.New("attachment storage is not configured", errx.TypeInternal)
		}
		data, err := s.files.ReadFile(ctx, a.Path)
		if err != nil {
			return nil, err
		}
		name := path.Base(filepath.ToSlash(a.Path))
		return &FileAttachment{Filename: name, Data: data}, nil

	case a.Content != nil && a.Filename != "":
		data, err := io.ReadAll(a.Content)
		if err != nil {
			return nil, mailxErrors.NewWithCause(ErrAttachmentRead, err).WithDetail("filename", a.Filename)
		}
		return &FileAttachment{Filename: a.Filename, Data: data}, nil
	}

	return nil, nil
}

var _ EmailService = (*Service)(nil)
