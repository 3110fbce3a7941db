package transcribe

import (
	"context"
	"sync"
)

// AuthorizationStatus describes the speech recognition permission state.
type AuthorizationStatus int

const (
	// AuthorizationUndetermined means permission has not been resolved yet.
	AuthorizationUndetermined AuthorizationStatus = iota
	// AuthorizationAuthorized means recognition may proceed.
	AuthorizationAuthorized
	// AuthorizationDenied means permission was declined.
	AuthorizationDenied
	// AuthorizationRestricted means recognition is blocked by policy.
	AuthorizationRestricted
)

func (s AuthorizationStatus) String() string {
	switch s {
	case AuthorizationUndetermined:
		return "undetermined"
	case AuthorizationAuthorized:
		return "authorized"
	case AuthorizationDenied:
		return "denied"
	case AuthorizationRestricted:
		return "restricted"
	default:
		return "unknown"
	}
}

// RecognitionEvent is one callback delivery from a Recognizer. The event is
// terminal when Err is set or Final is true; recognizers are allowed to fire
// the callback multiple times, including after a terminal event, and callers
// must tolerate that.
type RecognitionEvent struct {
	FullText string
	Segments []Segment
	Final    bool
	Err      error
}

// Terminal reports whether the event resolves the recognition request.
func (e RecognitionEvent) Terminal() bool {
	return e.Err != nil || e.Final
}

// Recognizer abstracts a callback-based speech recognition engine.
//
// Recognize submits an audio file and delivers zero or more events through
// emit. Implementations may invoke emit from any goroutine and more than
// once; the caller bridges the stream into a single outcome.
type Recognizer interface {
	AuthorizationStatus() AuthorizationStatus
	RequestAuthorization(func(AuthorizationStatus))
	Available() bool
	Recognize(ctx context.Context, audioPath string, emit func(RecognitionEvent))
}

// oneshot bridges a possibly multi-fire callback into a single awaited value.
// Only the first resolve wins; later calls are dropped.
type oneshot[T any] struct {
	once sync.Once
	ch   chan T
}

func newOneshot[T any]() *oneshot[T] {
	return &oneshot[T]{ch: make(chan T, 1)}
}

func (o *oneshot[T]) resolve(value T) {
	o.once.Do(func() {
		o.ch <- value
	})
}

func (o *oneshot[T]) wait(ctx context.Context) (T, error) {
	select {
	case value := <-o.ch:
		return value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// resolveAuthorization reads the recognizer's current status, issuing a
// one-time request when it is still undetermined. Any other status is
// returned as-is without prompting again.
func resolveAuthorization(ctx context.Context, rec Recognizer) (AuthorizationStatus, error) {
	status := rec.AuthorizationStatus()
	if status != AuthorizationUndetermined {
		return status, nil
	}
	pending := newOneshot[AuthorizationStatus]()
	rec.RequestAuthorization(pending.resolve)
	return pending.wait(ctx)
}
