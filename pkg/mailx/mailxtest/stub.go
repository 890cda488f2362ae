// Package mailxtest provides a recording RawSender for tests.
package mailxtest

import (
	"context"
	"net/http"
	"sync"

	"github.com/Abraxas-365/sesrelay/pkg/mailx"
)

// StubSender records every raw send and answers with a fixed status or error.
type StubSender struct {
	Status    int
	MessageID string
	Err       error

	mu   sync.Mutex
	sent []mailx.RawEmail
}

// NewStubSender returns a stub answering 200 OK.
func NewStubSender() *StubSender {
	return &StubSender{Status: http.StatusOK, MessageID: "stub-message-id"}
}

// SendRawEmail implements mailx.RawSender.
func (s *StubSender) SendRawEmail(_ context.Context, raw mailx.RawEmail) (mailx.SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, raw)
	if s.Err != nil {
		return mailx.SendResult{}, s.Err
	}
	return mailx.SendResult{MessageID: s.MessageID, StatusCode: s.Status}, nil
}

// Calls returns how many raw sends were attempted.
func (s *StubSender) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// Last returns the most recent raw email, or the zero value.
func (s *StubSender) Last() mailx.RawEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return mailx.RawEmail{}
	}
	return s.sent[len(s.sent)-1]
}

var _ mailx.RawSender = (*StubSender)(nil)
