package immediate

import (
	"github.com/goliatone/go-immediate-module/binder"
	"github.com/goliatone/go-immediate-module/invocation"
)

const usageHint = `bind something when the module is built, for example:

	immediate.New(func(b binder.Binder) {
		b.Bind(binder.KeyOf[Service]()).To(binder.KeyOf[*serviceImpl]())
	})`

// Module is a binder.Module whose bindings are written up front, against a
// recording binder, and replayed when the host calls Configure.
//
// Only the fluent chains that start from the recording binder are replayed.
// A builder kept aside and used after another Binder call no longer refers to
// the latest result, and Configure fails when it reaches that call.
type Module struct {
	session *invocation.Session[binder.Binder]
}

var _ binder.Module = (*Module)(nil)

// New records configure against a fresh recording binder. configure may be
// nil when bindings are added through the Module's own helpers.
func New(configure func(b binder.Binder), opts ...invocation.Option) *Module {
	opts = append([]invocation.Option{invocation.WithUsageHint(usageHint)}, opts...)
	m := &Module{session: invocation.NewSession(BinderSurface, opts...)}
	if configure != nil {
		configure(m.session.Root())
	}
	return m
}

// Binder returns the recording binder.
func (m *Module) Binder() binder.Binder {
	return m.session.Root()
}

// Bind records Binder.Bind.
func (m *Module) Bind(key binder.Key) binder.LinkedBindingBuilder {
	return m.Binder().Bind(key)
}

// BindConstant records Binder.BindConstant.
func (m *Module) BindConstant() binder.AnnotatedConstantBindingBuilder {
	return m.Binder().BindConstant()
}

// Install records Binder.Install.
func (m *Module) Install(module binder.Module) {
	m.Binder().Install(module)
}

// RequestInjection records Binder.RequestInjection.
func (m *Module) RequestInjection(target any) {
	m.Binder().RequestInjection(target)
}

// Configure replays the recorded calls against b. It fails if nothing was
// recorded, if the module was already configured, or if a replayed call
// fails; in the last case the calls after it are dropped.
func (m *Module) Configure(b binder.Binder) error {
	return m.session.Replay(b)
}

// ID returns the identifier of the underlying recording session.
func (m *Module) ID() string {
	return m.session.ID()
}

// Len returns the number of calls waiting to be replayed.
func (m *Module) Len() int {
	return m.session.Len()
}

// Records returns the recorded calls.
func (m *Module) Records() []invocation.Record {
	return m.session.Records()
}

// Describe renders r the way it appears in logs and errors.
func (m *Module) Describe(r invocation.Record) string {
	return m.session.Describe(r)
}

// Replayed reports whether Configure already ran.
func (m *Module) Replayed() bool {
	return m.session.State() == invocation.StateReplayed
}
