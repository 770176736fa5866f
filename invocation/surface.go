package invocation

import (
	"fmt"
	"reflect"
	"sort"
)

// ResultKind classifies what an operation hands back to its caller.
type ResultKind int

const (
	// ResultVoid operations return nothing observable.
	ResultVoid ResultKind = iota
	// ResultChain operations return another capability surface.
	ResultChain
	// ResultValue operations return a concrete value. They cannot be recorded.
	ResultValue
)

func (k ResultKind) String() string {
	switch k {
	case ResultVoid:
		return "void"
	case ResultChain:
		return "chain"
	case ResultValue:
		return "value"
	default:
		return fmt.Sprintf("result(%d)", int(k))
	}
}

// Selector identifies one operation on a capability surface.
type Selector struct {
	Surface string `json:"surface"`
	Method  string `json:"method"`
}

func (s Selector) String() string {
	return s.Surface + "." + s.Method
}

// executor performs an operation on a live receiver during replay.
type executor func(recv any, args []any) (any, error)

// Operation is a single declared entry of a capability surface.
type Operation struct {
	Selector Selector
	Result   ResultKind
	next     Descriptor
	exec     executor
}

// Next returns the surface imitated by the operation's result, or nil when the
// operation is not chainable.
func (o Operation) Next() Descriptor {
	return o.next
}

// Descriptor is the type-erased view of a Surface that interceptors and the
// replayer work against.
type Descriptor interface {
	Name() string
	Lookup(method string) (Operation, bool)
	Operations() []Operation
	imitate(i *Interceptor) any
}

// Surface declares the operations of interface type T that can be recorded,
// and how to build a typed stand-in for T around an Interceptor.
//
// Surfaces are normally declared once at package level and completed in an
// init function, since chainable operations may refer to surfaces declared
// after them (or to themselves).
type Surface[T any] struct {
	name string
	ops  map[string]Operation
	stub func(i *Interceptor) T
}

// NewSurface declares a capability surface named name. stub wraps an
// Interceptor into a value implementing T, usually a struct embedding the
// Interceptor whose methods call Do or Then.
func NewSurface[T any](name string, stub func(i *Interceptor) T) *Surface[T] {
	if stub == nil {
		panic(fmt.Sprintf("invocation: surface %s needs a stub constructor", name))
	}
	return &Surface[T]{
		name: name,
		ops:  make(map[string]Operation),
		stub: stub,
	}
}

// Name returns the surface name used in selectors.
func (s *Surface[T]) Name() string {
	return s.name
}

// Lookup returns the operation declared for method.
func (s *Surface[T]) Lookup(method string) (Operation, bool) {
	op, ok := s.ops[method]
	return op, ok
}

// Operations lists the declared operations sorted by method name.
func (s *Surface[T]) Operations() []Operation {
	out := make([]Operation, 0, len(s.ops))
	for _, op := range s.ops {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Selector.Method < out[j].Selector.Method })
	return out
}

// Void declares an operation that returns nothing.
func (s *Surface[T]) Void(method string, exec func(recv T, args []any) error) *Surface[T] {
	sel := s.selector(method)
	s.declare(Operation{
		Selector: sel,
		Result:   ResultVoid,
		exec: func(recv any, args []any) (any, error) {
			r, err := s.receiver(sel, recv)
			if err != nil {
				return nil, err
			}
			return nil, exec(r, args)
		},
	})
	return s
}

// Value declares an operation returning a concrete value. Such operations are
// part of the real interface but intercepting one is a fatal error: there is
// no stand-in to hand back.
func (s *Surface[T]) Value(method string, exec func(recv T, args []any) (any, error)) *Surface[T] {
	sel := s.selector(method)
	s.declare(Operation{
		Selector: sel,
		Result:   ResultValue,
		exec: func(recv any, args []any) (any, error) {
			r, err := s.receiver(sel, recv)
			if err != nil {
				return nil, err
			}
			return exec(r, args)
		},
	})
	return s
}

// Chain declares a chainable operation on s whose result imitates next.
func Chain[T, R any](s *Surface[T], method string, next *Surface[R], exec func(recv T, args []any) (R, error)) *Surface[T] {
	if next == nil {
		panic(fmt.Sprintf("invocation: chainable operation %s.%s needs a result surface", s.name, method))
	}
	sel := s.selector(method)
	s.declare(Operation{
		Selector: sel,
		Result:   ResultChain,
		next:     next,
		exec: func(recv any, args []any) (any, error) {
			r, err := s.receiver(sel, recv)
			if err != nil {
				return nil, err
			}
			out, err := exec(r, args)
			if err != nil {
				return nil, err
			}
			return any(out), nil
		},
	})
	return s
}

func (s *Surface[T]) selector(method string) Selector {
	return Selector{Surface: s.name, Method: method}
}

func (s *Surface[T]) declare(op Operation) {
	if _, exists := s.ops[op.Selector.Method]; exists {
		panic(newDuplicateOperationError(op.Selector))
	}
	s.ops[op.Selector.Method] = op
}

func (s *Surface[T]) receiver(sel Selector, recv any) (T, error) {
	r, ok := recv.(T)
	if !ok {
		var zero T
		return zero, newReceiverMismatchError(sel, typeName[T](), recv)
	}
	return r, nil
}

func (s *Surface[T]) imitate(i *Interceptor) any {
	return s.stub(i)
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
