// Package notify shows short user-facing notifications ("toasts").
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/manifoldco/promptui"
)

// Kind is the severity of a notification
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notifier delivers a notification to the user
type Notifier interface {
	Notify(message string, kind Kind)
}

// Console prints notifications as colored lines
type Console struct {
	out     io.Writer
	noColor bool
}

// NewConsole creates a console notifier writing to out
func NewConsole(out io.Writer, noColor bool) *Console {
	return &Console{out: out, noColor: noColor}
}

func (c *Console) Notify(message string, kind Kind) {
	line := fmt.Sprintf("%s %s", icon(kind), message)
	if !c.noColor {
		line = style(kind)(line)
	}
	fmt.Fprintln(c.out, line)
}

func icon(kind Kind) string {
	switch kind {
	case KindSuccess:
		return "✓"
	case KindWarning:
		return "⚠"
	case KindError:
		return "✗"
	default:
		return "•"
	}
}

func style(kind Kind) func(interface{}) string {
	switch kind {
	case KindSuccess:
		return promptui.Styler(promptui.FGGreen)
	case KindWarning:
		return promptui.Styler(promptui.FGYellow)
	case KindError:
		return promptui.Styler(promptui.FGRed, promptui.FGBold)
	default:
		return promptui.Styler(promptui.FGCyan)
	}
}

// Message is a recorded notification
type Message struct {
	Text string
	Kind Kind
}

// Recorder keeps notifications in memory
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Notify(message string, kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, Message{Text: message, Kind: kind})
}

// Messages returns a copy of the recorded notifications
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Message(nil), r.messages...)
}
