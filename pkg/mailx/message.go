package mailx

import (
	"bytes"
	"io"
	"strings"

	"gopkg.in/gomail.v2"
)

// BuildBody returns the text or HTML body for body. Only one of the two is non-empty.
func BuildBody(body string, isHTML bool) (text, html string) {
	if isHTML {
		return "", "<html><head><title>SES Email</title></head><body>" + body + "</body></html>"
	}
	return body, ""
}

// NewMessage builds headers and body for req. Recipient lists are copied;
// Cc and Bcc stay nil when empty.
func NewMessage(from string, req EmailRequest) Message {
	msg := Message{
		From:    from,
		To:      cloneAddresses(req.To),
		CC:      cloneAddresses(req.CC),
		BCC:     cloneAddresses(req.BCC),
		Subject: req.Subject,
	}
	msg.TextBody, msg.HTMLBody = BuildBody(req.Body, req.IsHTML)
	return msg
}

// Destinations lists every envelope recipient: To, then Cc, then Bcc.
func (m Message) Destinations() []string {
	dest := make([]string, 0, len(m.To)+len(m.CC)+len(m.BCC))
	dest = append(dest, m.To...)
	dest = append(dest, m.CC...)
	return append(dest, m.BCC...)
}

// Raw serializes the message to MIME. Bcc is left out of the headers.
func (m Message) Raw() (RawEmail, error) {
	gm := gomail.NewMessage()
	// address headers bypass SetHeader, which RFC 2047-encodes values in place
	setAddresses(gm, "From", []string{m.From})
	setAddresses(gm, "To", m.To)
	if len(m.CC) > 0 {
		setAddresses(gm, "Cc", m.CC)
	}
	gm.SetHeader("Subject", m.Subject)

	if m.HTMLBody != "" {
		gm.SetBody("text/html", m.HTMLBody)
	} else {
		gm.SetBody("text/plain", m.TextBody)
	}

	if a := m.Attachment; a != nil {
		// content type is derived from the file extension by gomail
		gm.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(a.Data)
			return err
		}))
	}

	var buf bytes.Buffer
	if _, err := gm.WriteTo(&buf); err != nil {
		return RawEmail{}, mailxErrors.NewWithCause(ErrBuildMessage, err)
	}

	return RawEmail{
		From:         m.From,
		Destinations: m.Destinations(),
		Data:         buf.Bytes(),
	}, nil
}

func setAddresses(gm *gomail.Message, field string, addrs []string) {
	formatted := make([]string, len(addrs))
	for i, addr := range addrs {
		formatted[i] = gm.FormatAddress(addr, "")
	}
	gm.SetAddressHeader(field, strings.Join(formatted, ", "), "")
}

func cloneAddresses(addrs []string) []string {
	if len(addrs) == 0 {
		return nil
	}
	return append([]string(nil), addrs...)
}
