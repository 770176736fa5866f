package invocation

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-immediate-module/internal/errkit"
)

// Text codes attached to every error produced by this package.
const (
	TextCodeEmptySession     = "EMPTY_SESSION"
	TextCodeSessionSpent     = "SESSION_SPENT"
	TextCodeUnsupportedType  = "UNSUPPORTED_RESULT_TYPE"
	TextCodeUnknownOperation = "UNKNOWN_OPERATION"
	TextCodeDuplicateMethod  = "DUPLICATE_OPERATION"
	TextCodeReplayFailed     = "REPLAY_FAILED"
	TextCodeReceiverMismatch = "RECEIVER_MISMATCH"
	TextCodeBadArgument      = "BAD_ARGUMENT"
)

func newEmptySessionError(surface, hint string) *goerrors.Error {
	msg := fmt.Sprintf("no calls recorded against %s before replay", surface)
	if hint != "" {
		msg += ":\n" + hint
	}
	return goerrors.New(msg, goerrors.CategoryValidation).
		WithTextCode(TextCodeEmptySession).
		WithMetadata(map[string]any{"surface": surface})
}

func newSessionSpentError(sessionID, action string) *goerrors.Error {
	return goerrors.New(fmt.Sprintf("session already replayed, cannot %s", action), goerrors.CategoryConflict).
		WithTextCode(TextCodeSessionSpent).
		WithMetadata(map[string]any{"session": sessionID})
}

func newUnsupportedResultError(sel Selector, kind ResultKind) *goerrors.Error {
	return goerrors.New(fmt.Sprintf("unsupported result type for %s: %s", sel, kind), goerrors.CategoryInternal).
		WithTextCode(TextCodeUnsupportedType).
		WithMetadata(map[string]any{"selector": sel.String(), "result": kind.String()})
}

func newUnknownOperationError(surface, method string) *goerrors.Error {
	return goerrors.New(fmt.Sprintf("%s has no operation %q", surface, method), goerrors.CategoryInternal).
		WithTextCode(TextCodeUnknownOperation).
		WithMetadata(map[string]any{"surface": surface, "method": method})
}

func newDuplicateOperationError(sel Selector) *goerrors.Error {
	return goerrors.New(fmt.Sprintf("operation %s declared twice", sel), goerrors.CategoryInternal).
		WithTextCode(TextCodeDuplicateMethod)
}

func newReceiverMismatchError(sel Selector, want string, got any) *goerrors.Error {
	return goerrors.New(fmt.Sprintf("%s expects a %s receiver, got %T", sel, want, got), goerrors.CategoryOperation).
		WithTextCode(TextCodeReceiverMismatch).
		WithMetadata(map[string]any{"selector": sel.String()})
}

func newBadArgumentError(index int, want string, args []any) *goerrors.Error {
	if index >= len(args) {
		return goerrors.New(fmt.Sprintf("argument %d missing, call has %d", index, len(args)), goerrors.CategoryBadInput).
			WithTextCode(TextCodeBadArgument)
	}
	return goerrors.New(fmt.Sprintf("argument %d must be %s, got %T", index, want, args[index]), goerrors.CategoryBadInput).
		WithTextCode(TextCodeBadArgument)
}

// newReplayError wraps a failure raised by the target system so the call site
// that produced it stays visible to the replay caller.
func newReplayError(rec Record, call string, cause error) *goerrors.Error {
	return errkit.Wrap(cause, goerrors.CategoryOperation, fmt.Sprintf("replaying call #%d %s", rec.Seq, call)).
		WithTextCode(TextCodeReplayFailed).
		WithMetadata(map[string]any{
			"seq":      rec.Seq,
			"selector": rec.Selector.String(),
			"call":     call,
			"root":     rec.Root,
		})
}

func hasTextCode(err error, code string) bool {
	return errkit.HasTextCode(err, code)
}

// IsEmptySession reports whether err was raised because replay was triggered
// on a session that never recorded a call.
func IsEmptySession(err error) bool { return hasTextCode(err, TextCodeEmptySession) }

// IsSessionSpent reports whether err came from using a session after replay.
func IsSessionSpent(err error) bool { return hasTextCode(err, TextCodeSessionSpent) }

// IsReplayFailure reports whether err wraps a failure of a replayed call.
func IsReplayFailure(err error) bool { return hasTextCode(err, TextCodeReplayFailed) }

// IsUnsupportedResult reports whether err (usually recovered from a panic)
// flags an operation whose result is neither void nor chainable.
func IsUnsupportedResult(err error) bool { return hasTextCode(err, TextCodeUnsupportedType) }

// IsUnknownOperation reports whether err flags a call outside the surface.
func IsUnknownOperation(err error) bool { return hasTextCode(err, TextCodeUnknownOperation) }
