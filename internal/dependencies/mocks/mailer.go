package mocks

import (
	"context"
	"sync"

	"github.com/mkarsten/tablehost/internal/dependencies/mailer"
)

// SentEmail records one dispatched email
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockMailer records outbound email instead of delivering it
type MockMailer struct {
	mu sync.Mutex

	// Err, when set, is returned from Send to simulate dispatch failure
	Err error

	sent []SentEmail
}

// Ensure MockMailer implements Mailer
var _ mailer.Mailer = (*MockMailer)(nil)

// NewMockMailer creates a new MockMailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// Send records the email, or fails with Err if set
func (m *MockMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns all recorded emails
func (m *MockMailer) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}

// LastEmail returns the most recently recorded email, or nil if none
func (m *MockMailer) LastEmail() *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	last := m.sent[len(m.sent)-1]
	return &last
}
