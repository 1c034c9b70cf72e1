// Package notify carries user-facing toast notifications. Senders never
// wait on or read anything back from a Sink.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Level string

const (
	LevelLoading Level = "loading"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelDismiss Level = "dismiss"
)

type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

type Sink interface {
	Loading(msg string)
	Success(msg string)
	Error(msg string)
	// Dismiss clears any pending loading notification.
	Dismiss()
}

// Feed buffers notifications until a client drains them. When full, the
// oldest entry is dropped.
type Feed struct {
	mu    sync.Mutex
	items []Notification
	max   int
	now   func() time.Time
}

const defaultFeedSize = 64

func NewFeed(max int) *Feed {
	if max <= 0 {
		max = defaultFeedSize
	}
	return &Feed{max: max, now: time.Now}
}

func (f *Feed) push(l Level, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.items) == f.max {
		f.items = f.items[1:]
	}
	f.items = append(f.items, Notification{Level: l, Message: msg, At: f.now().UTC()})
}

func (f *Feed) Loading(msg string) { f.push(LevelLoading, msg) }
func (f *Feed) Success(msg string) { f.push(LevelSuccess, msg) }
func (f *Feed) Error(msg string)   { f.push(LevelError, msg) }
func (f *Feed) Dismiss()           { f.push(LevelDismiss, "") }

// Drain returns everything buffered so far and empties the feed.
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

// LogSink writes notifications to the diagnostic log.
type LogSink struct {
	Logger *zap.Logger
}

func (s LogSink) Loading(msg string) { s.Logger.Debug("notify", zap.String("level", string(LevelLoading)), zap.String("message", msg)) }
func (s LogSink) Success(msg string) { s.Logger.Info("notify", zap.String("level", string(LevelSuccess)), zap.String("message", msg)) }
func (s LogSink) Error(msg string)   { s.Logger.Warn("notify", zap.String("level", string(LevelError)), zap.String("message", msg)) }
func (s LogSink) Dismiss()           {}

type multi []Sink

// Multi fans each notification out to every sink.
func Multi(sinks ...Sink) Sink { return multi(sinks) }

func (m multi) Loading(msg string) {
	for _, s := range m {
		s.Loading(msg)
	}
}

func (m multi) Success(msg string) {
	for _, s := range m {
		s.Success(msg)
	}
}

func (m multi) Error(msg string) {
	for _, s := range m {
		s.Error(msg)
	}
}

func (m multi) Dismiss() {
	for _, s := range m {
		s.Dismiss()
	}
}

// Discard drops everything.
var Discard Sink = multi(nil)
