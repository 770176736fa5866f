package invocation

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// State is the lifecycle phase of a Session.
type State int

const (
	// StateRecording accepts calls on the root stand-in.
	StateRecording State = iota
	// StateReplayed is terminal: the log was consumed by a replay pass.
	StateReplayed
)

func (s State) String() string {
	if s == StateReplayed {
		return "replayed"
	}
	return "recording"
}

// recording is the capture state shared by the root interceptor and every
// interceptor derived from it.
type recording struct {
	id          string
	surfaceName string
	log         Log
	spent       bool
	nextSeq     uint64
	logger      *slog.Logger
	serializer  CallSerializer
	usageHint   string
}

func (r *recording) derive(surface Descriptor) *Interceptor {
	r.nextSeq++
	return &Interceptor{rec: r, surface: surface, root: false, seq: r.nextSeq}
}

func (r *recording) capture(op Operation, args []any, root bool) {
	rec := r.log.append(op, args, root)
	// arguments are only rendered when someone reads them
	if !r.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	r.logger.Debug("call recorded",
		"session", r.id,
		"seq", rec.Seq,
		"call", r.serializer.SerializeCall(rec.Selector, rec.Args...),
		"root", root,
	)
}

// Session records calls made against a stand-in for T and replays them once
// against a real T. A session is single use and not safe for concurrent use.
type Session[T any] struct {
	rec     *recording
	surface *Surface[T]
	root    T
}

// NewSession starts a recording session for surface.
func NewSession[T any](surface *Surface[T], opts ...Option) *Session[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	rec := &recording{
		id:          uuid.NewString(),
		surfaceName: surface.Name(),
		logger:      o.logger,
		serializer:  o.serializer,
		usageHint:   o.usageHint,
	}
	rootInterceptor := &Interceptor{rec: rec, surface: surface, root: true}

	return &Session[T]{
		rec:     rec,
		surface: surface,
		root:    surface.stub(rootInterceptor),
	}
}

// ID returns the session identifier used in logs and interceptor hashes.
func (s *Session[T]) ID() string {
	return s.rec.id
}

// Root returns the stand-in that root calls are made against.
func (s *Session[T]) Root() T {
	return s.root
}

// Records returns a copy of the calls recorded so far.
func (s *Session[T]) Records() []Record {
	return s.rec.log.Records()
}

// Len returns the number of recorded calls not yet replayed.
func (s *Session[T]) Len() int {
	return s.rec.log.Len()
}

// State returns the lifecycle phase of the session.
func (s *Session[T]) State() State {
	if s.rec.spent {
		return StateReplayed
	}
	return StateRecording
}

// Describe renders a recorded call with the session's CallSerializer.
func (s *Session[T]) Describe(r Record) string {
	return s.rec.serializer.SerializeCall(r.Selector, r.Args...)
}
