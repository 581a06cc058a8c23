// Package notify delivers transient user-facing messages (toasts) without
// blocking the code that raises them.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level classifies a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a single toast.
type Notification struct {
	Level   Level
	Message string
	At      time.Time
}

// Notifier accepts notifications. Implementations must not block the caller
// for longer than it takes to hand the notification off.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a function to Notifier.
type Func func(Notification)

func (f Func) Notify(n Notification) { f(n) }

// Error, Success and Info build and send a notification on n.
func Error(n Notifier, msg string)   { send(n, LevelError, msg) }
func Success(n Notifier, msg string) { send(n, LevelSuccess, msg) }
func Info(n Notifier, msg string)    { send(n, LevelInfo, msg) }

func send(n Notifier, lvl Level, msg string) {
	if n == nil {
		return
	}
	n.Notify(Notification{Level: lvl, Message: msg, At: time.Now()})
}

// LogSink writes notifications to a zerolog logger.
func LogSink(log zerolog.Logger) Notifier {
	return Func(func(n Notification) {
		ev := log.Info()
		if n.Level == LevelError {
			ev = log.Error()
		}
		ev.Str("level_hint", string(n.Level)).Time("at", n.At).Msg(n.Message)
	})
}

// WriterSink prints one line per notification, e.g. "✖ Invalid credentials".
func WriterSink(w io.Writer) Notifier {
	var mu sync.Mutex
	return Func(func(n Notification) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "%s %s\n", symbol(n.Level), n.Message)
	})
}

func symbol(l Level) string {
	switch l {
	case LevelError:
		return "✖"
	case LevelSuccess:
		return "✔"
	default:
		return "•"
	}
}
