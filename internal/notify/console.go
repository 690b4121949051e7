// Package notify delivers toasts outside a browser: to a writer and the structured log.
package notify

import (
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// Level distinguishes success toasts from error toasts.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Toast is one delivered notification.
type Toast struct {
	Level   Level
	Message string
}

// Console writes toasts as plain text lines. Backend-provided messages may carry markup, so
// every message is reduced to text first.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	logger  *zap.Logger
	policy  *bluemonday.Policy
	history []Toast
}

// Option customises a Console.
type Option func(*Console)

// WithLogger mirrors every toast into logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConsole constructs a Console writing to out. A nil out only logs.
func NewConsole(out io.Writer, opts ...Option) *Console {
	c := &Console{
		out:    out,
		logger: zap.NewNop(),
		policy: bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Success shows a success toast.
func (c *Console) Success(message string) { c.deliver(LevelSuccess, message) }

// Error shows an error toast.
func (c *Console) Error(message string) { c.deliver(LevelError, message) }

// History returns the toasts delivered so far, oldest first.
func (c *Console) History() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Toast(nil), c.history...)
}

func (c *Console) deliver(level Level, message string) {
	text := c.plain(message)
	if text == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, Toast{Level: level, Message: text})
	if c.out != nil {
		_, _ = fmt.Fprintf(c.out, "[%s] %s\n", level, text)
	}
	if level == LevelError {
		c.logger.Warn("toast", zap.String("level", string(level)), zap.String("message", text))
		return
	}
	c.logger.Info("toast", zap.String("level", string(level)), zap.String("message", text))
}

// plain strips markup. StrictPolicy escapes what is left, so entities are decoded for terminal output.
func (c *Console) plain(message string) string {
	text := html.UnescapeString(c.policy.Sanitize(message))
	return strings.Join(strings.Fields(text), " ")
}
