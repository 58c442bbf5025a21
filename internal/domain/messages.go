package domain

import (
	"fmt"
	"log/slog"
)

// Severity of a user-facing message. Informational messages report progress,
// warnings report non-fatal deviations, errors report the aborting failure.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Message is one entry in the run transcript.
type Message struct {
	Severity Severity
	Text     string
}

// Messenger is the user-facing message channel: it records the transcript
// for the run result and mirrors every message to the structured logger.
// The pipeline is single-threaded, so no locking is needed.
type Messenger struct {
	logger   *slog.Logger
	messages []Message
}

// NewMessenger creates a Messenger mirroring to the given logger.
func NewMessenger(logger *slog.Logger) *Messenger {
	return &Messenger{logger: logger}
}

// Infof records an informational progress message.
func (m *Messenger) Infof(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	m.messages = append(m.messages, Message{Severity: SeverityInfo, Text: text})
	m.logger.Info(text)
}

// Warnf records a non-fatal deviation. Warnings never abort the run.
func (m *Messenger) Warnf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	m.messages = append(m.messages, Message{Severity: SeverityWarning, Text: text})
	m.logger.Warn(text)
}

// Errorf records the aborting failure.
func (m *Messenger) Errorf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	m.messages = append(m.messages, Message{Severity: SeverityError, Text: text})
	m.logger.Error(text)
}

// Messages returns the transcript in emission order.
func (m *Messenger) Messages() []Message {
	return m.messages
}
