package mailx

// Option is a functional option for send operations.
type Option func(*EmailRequest)

// WithCC adds carbon-copy recipients.
func WithCC(cc ...string) Option {
	return func(r *EmailRequest) {
		r.CC = append(r.CC, cc...)
	}
}

// WithBCC adds blind-copy recipients. They are only used as envelope
// destinations and never written into the message headers.
func WithBCC(bcc ...string) Option {
	return func(r *EmailRequest) {
		r.BCC = append(r.BCC, bcc...)
	}
}

// WithPlainText sends the body verbatim as text/plain instead of wrapping it in HTML.
func WithPlainText() Option {
	return func(r *EmailRequest) {
		r.IsHTML = false
	}
}

// WithConfigurationSet sets the SES configuration set for the send.
func WithConfigurationSet(name string) Option {
	return func(r *EmailRequest) {
		r.ConfigurationSet = name
	}
}

func newRequest(to []string, subject, body string, opts []Option) EmailRequest {
	req := EmailRequest{
		To:      to,
		Subject: subject,
		Body:    body,
		IsHTML:  true,
	}
	for _, o := range opts {
		o(&req)
	}
	return req
}
