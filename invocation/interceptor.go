package invocation

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Interceptor stands in for a capability surface during recording. Calls made
// on it are appended to the session log instead of being executed.
//
// Typed stand-ins embed an *Interceptor and forward each interface method to
// Do or Then, so callers write ordinary method calls against the interface.
type Interceptor struct {
	rec     *recording
	surface Descriptor
	root    bool
	seq     uint64
}

// Invoke captures a call to method with args. Void operations return nil,
// chainable operations return a new stand-in imitating the result surface.
//
// Invoke panics when method is not declared on the surface, when the method
// declares a value result, or when the session was already replayed. All
// three mean the surface or its caller is wired incorrectly.
func (i *Interceptor) Invoke(method string, args ...any) any {
	op, ok := i.surface.Lookup(method)
	if !ok {
		panic(newUnknownOperationError(i.surface.Name(), method))
	}
	if i.rec.spent {
		panic(newSessionSpentError(i.rec.id, "record "+op.Selector.String()))
	}

	switch op.Result {
	case ResultVoid:
		i.rec.capture(op, args, i.root)
		return nil
	case ResultChain:
		i.rec.capture(op, args, i.root)
		return op.next.imitate(i.rec.derive(op.next))
	default:
		panic(newUnsupportedResultError(op.Selector, op.Result))
	}
}

// Do captures a void call.
func (i *Interceptor) Do(method string, args ...any) {
	i.Invoke(method, args...)
}

// Then captures a chainable call and returns the derived stand-in as R.
func Then[R any](i *Interceptor, method string, args ...any) R {
	out := i.Invoke(method, args...)
	r, ok := out.(R)
	if !ok {
		panic(fmt.Sprintf("invocation: %s.%s produced %T, stand-in expected %s",
			i.surface.Name(), method, out, typeName[R]()))
	}
	return r
}

// IsRoot reports whether the interceptor is the session root.
func (i *Interceptor) IsRoot() bool {
	return i.root
}

// Surface returns the name of the imitated surface.
func (i *Interceptor) Surface() string {
	return i.surface.Name()
}

// Equal reports whether other is this interceptor or a stand-in wrapping it.
// No other value is ever equal to an interceptor. Equal is never recorded.
func (i *Interceptor) Equal(other any) bool {
	if i == nil || other == nil {
		return false
	}
	h, ok := other.(interface{ interceptor() *Interceptor })
	if !ok {
		return false
	}
	return h.interceptor() == i
}

// Hash returns a value stable for the lifetime of the interceptor. Hash is
// never recorded.
func (i *Interceptor) Hash() uint64 {
	if i == nil || i.rec == nil {
		return 0
	}
	return xxhash.Sum64String(i.rec.id + "/" + strconv.FormatUint(i.seq, 10))
}

// String describes the interceptor. It is never recorded.
func (i *Interceptor) String() string {
	if i == nil || i.rec == nil || i.surface == nil {
		return "detached stand-in"
	}
	kind := "derived"
	if i.root {
		kind = "root"
	}
	return fmt.Sprintf("recording %s stand-in #%d (%s, session %s)", i.surface.Name(), i.seq, kind, i.rec.id)
}

func (i *Interceptor) interceptor() *Interceptor {
	return i
}
