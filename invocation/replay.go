package invocation

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-immediate-module/internal/errkit"
)

// Replay executes every recorded call against target in recording order and
// moves the session to StateReplayed.
//
// Root records run on target. Every other record runs on the value returned
// by the record immediately before it, which is how independent chains can
// share one flat log.
//
// Replay fails without touching target when nothing was recorded; the session
// then stays in StateRecording. A second Replay fails with a session spent
// error. When a replayed call fails (or panics) the remaining records are
// discarded unexecuted and the failure is returned wrapped with its call site.
func (s *Session[T]) Replay(target T) error {
	return s.rec.replay(any(target))
}

func (r *recording) replay(target any) error {
	if r.spent {
		return newSessionSpentError(r.id, "replay again")
	}
	if r.log.Len() == 0 {
		return newEmptySessionError(r.surfaceName, r.usageHint)
	}
	r.spent = true

	total := r.log.Len()
	chainTarget := target
	for {
		rec, ok := r.log.shift()
		if !ok {
			break
		}

		recv := chainTarget
		if rec.Root {
			recv = target
		}

		result, err := execute(rec, recv)
		if err != nil {
			call := r.serializer.SerializeCall(rec.Selector, rec.Args...)
			skipped := r.log.Len()
			r.log.discard()
			r.logger.Error("replay halted",
				"session", r.id,
				"seq", rec.Seq,
				"call", call,
				"skipped", skipped,
				"error", err,
			)
			return newReplayError(rec, call, err)
		}

		r.logger.Debug("call replayed",
			"session", r.id,
			"seq", rec.Seq,
			"selector", rec.Selector.String(),
			"root", rec.Root,
		)
		chainTarget = result
	}

	r.logger.Info("session replayed", "session", r.id, "calls", total)
	return nil
}

// execute runs one record, converting a panic in the target into an error.
func execute(rec Record, recv any) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			if perr, ok := p.(error); ok {
				err = errkit.Wrap(perr, goerrors.CategoryInternal, "target panicked")
				return
			}
			err = goerrors.New(fmt.Sprintf("target panicked: %v", p), goerrors.CategoryInternal)
		}
	}()
	return rec.op.exec(recv, rec.Args)
}
