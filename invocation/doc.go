// Package invocation records fluent calls made against a stand-in for an
// interface and replays them later against the real implementation.
//
// # Overview
//
// A Session is created for a declared capability Surface. Session.Root returns
// a typed stand-in; every call made on it (and on the stand-ins it returns for
// chainable operations) is appended to an ordered log instead of being
// executed. When the real object becomes available, Session.Replay walks the
// log once and executes every call on it.
//
// # Declaring Surfaces
//
// Go has no dynamic proxies, so each interface that can be recorded is
// declared explicitly, once per process:
//
//	var (
//		journalSurface = invocation.NewSurface[Journal]("Journal", func(i *invocation.Interceptor) Journal { return journalStub{i} })
//		writerSurface  = invocation.NewSurface[Writer]("Writer", func(i *invocation.Interceptor) Writer { return writerStub{i} })
//	)
//
//	func init() {
//		invocation.Chain(journalSurface, "Open", writerSurface, func(j Journal, args []any) (Writer, error) {
//			name, err := invocation.Arg[string](args, 0)
//			if err != nil {
//				return nil, err
//			}
//			return j.Open(name), nil
//		})
//		writerSurface.Void("Write", func(w Writer, args []any) error {
//			line, err := invocation.Arg[string](args, 0)
//			if err != nil {
//				return err
//			}
//			w.Write(line)
//			return nil
//		})
//	}
//
//	type journalStub struct{ *invocation.Interceptor }
//
//	func (s journalStub) Open(name string) Writer {
//		return invocation.Then[Writer](s.Interceptor, "Open", name)
//	}
//
// # Chain Threading
//
// Records carry a root flag. Root records replay against the real target;
// derived records replay against whatever the previous record returned. Two
// chains such as
//
//	root.A().X()
//	root.B().Y()
//
// produce the log A(root) X B(root) Y and replay correctly. Keeping a derived
// stand-in and calling it after another root call has started is not
// supported: the call would thread onto the wrong receiver.
//
// # Errors
//
// Replay returns an empty session error when nothing was recorded, a session
// spent error when called twice, and a wrapped replay failure when the target
// fails. Recording a value-returning operation, an undeclared operation, or
// recording after replay are wiring mistakes and panic.
package invocation
