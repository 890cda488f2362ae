package mailxtest

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"testing"
)

// Parsed is a decoded view of a raw MIME message.
type Parsed struct {
	Header          mail.Header
	BodyContentType string
	Body            string
	Attachments     map[string][]byte
}

// Parse decodes raw MIME produced by mailx, failing the test on malformed input.
func Parse(t testing.TB, raw []byte) Parsed {
	t.Helper()

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("read message: %v", err)
	}

	p := Parsed{Header: msg.Header, Attachments: map[string][]byte{}}

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}

	if !strings.HasPrefix(mediaType, "multipart/") {
		p.BodyContentType = mediaType
		p.Body = decode(t, msg.Header.Get("Content-Transfer-Encoding"), msg.Body)
		return p
	}

	mr := multipart.NewReader(msg.Body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}

		if name := part.FileName(); name != "" {
			p.Attachments[name] = []byte(decode(t, part.Header.Get("Content-Transfer-Encoding"), part))
			continue
		}

		ct, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		p.BodyContentType = ct
		// multipart.Reader already strips quoted-printable on parts
		p.Body = decode(t, part.Header.Get("Content-Transfer-Encoding"), part)
	}

	return p
}

func decode(t testing.TB, encoding string, r io.Reader) string {
	t.Helper()

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(encoding) {
	case "quoted-printable":
		data, err = io.ReadAll(quotedprintable.NewReader(r))
	case "base64":
		var raw []byte
		raw, err = io.ReadAll(r)
		if err == nil {
			clean := strings.NewReplacer("\r", "", "\n", "").Replace(string(raw))
			data, err = base64.StdEncoding.DecodeString(clean)
		}
	default:
		data, err = io.ReadAll(r)
	}
	if err != nil {
		t.Fatalf("decode %s body: %v", encoding, err)
	}
	return string(data)
}
