package binder

import (
	"errors"
	"fmt"
	"reflect"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-immediate-module/internal/errkit"
	"github.com/puzpuzpuz/xsync/v3"
)

// Text codes for binding errors.
const (
	TextCodeDuplicateBinding = "DUPLICATE_BINDING"
	TextCodeInvalidBinding   = "INVALID_BINDING"
	TextCodeModuleFailed     = "MODULE_FAILED"
	TextCodeBindingErrors    = "BINDING_ERRORS"
)

// Kind describes what a binding resolves to.
type Kind int

const (
	// KindSelf bindings construct the key type itself.
	KindSelf Kind = iota
	// KindLinked bindings resolve another key.
	KindLinked
	// KindInstance bindings return a fixed value.
	KindInstance
	// KindProvider bindings call a Provider.
	KindProvider
	// KindConstant bindings return a named constant.
	KindConstant
)

func (k Kind) String() string {
	switch k {
	case KindSelf:
		return "self"
	case KindLinked:
		return "linked"
	case KindInstance:
		return "instance"
	case KindProvider:
		return "provider"
	case KindConstant:
		return "constant"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Binding is one configured key.
type Binding struct {
	Key      Key
	Kind     Kind
	Target   Key
	Instance any
	Provider Provider
	Scope    Scope
	Eager    bool
}

// Set is the Binder implementation used by containers. It is filled while
// modules are configured and read concurrently afterwards.
type Set struct {
	bindings   *xsync.MapOf[Key, *Binding]
	order      []Key
	injections []any
	installed  map[Module]struct{}
	errs       []error
}

var _ Binder = (*Set)(nil)

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{
		bindings:  xsync.NewMapOf[Key, *Binding](),
		installed: make(map[Module]struct{}),
	}
}

// Bind implements Binder.
func (s *Set) Bind(key Key) LinkedBindingBuilder {
	if key.IsZero() {
		s.fail(invalidBinding(key, "key has no type"))
		return &linkedBuilder{set: s, binding: &Binding{Key: key}, detached: true}
	}

	b := &Binding{Key: key, Kind: KindSelf}
	if _, loaded := s.bindings.LoadOrStore(key, b); loaded {
		s.fail(goerrors.New(fmt.Sprintf("%s is already bound", key), goerrors.CategoryConflict).
			WithTextCode(TextCodeDuplicateBinding).
			WithMetadata(map[string]any{"key": key.String()}))
		return &linkedBuilder{set: s, binding: &Binding{Key: key}, detached: true}
	}
	s.order = append(s.order, key)
	return &linkedBuilder{set: s, binding: b}
}

// BindConstant implements Binder.
func (s *Set) BindConstant() AnnotatedConstantBindingBuilder {
	return &constantBuilder{set: s}
}

// markInstalled reports whether module was installed before. A comparable
// type can still hold an unhashable value in an interface field; such
// modules are never deduplicated.
func (s *Set) markInstalled(module Module) (seen bool) {
	if !reflect.TypeOf(module).Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			seen = false
		}
	}()
	if _, seen = s.installed[module]; seen {
		return true
	}
	s.installed[module] = struct{}{}
	return false
}

// Install implements Binder. Installing the same comparable module twice
// configures it once.
func (s *Set) Install(module Module) {
	if module == nil {
		s.fail(goerrors.New("cannot install a nil module", goerrors.CategoryBadInput).
			WithTextCode(TextCodeModuleFailed))
		return
	}
	if s.markInstalled(module) {
		return
	}
	if err := module.Configure(s); err != nil {
		s.fail(errkit.Wrap(err, goerrors.CategoryOperation, fmt.Sprintf("configuring module %T", module)).
			WithTextCode(TextCodeModuleFailed))
	}
}

// RequestInjection implements Binder.
func (s *Set) RequestInjection(target any) {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		s.fail(goerrors.New(fmt.Sprintf("injection target must be a non-nil pointer to a struct, got %T", target), goerrors.CategoryBadInput).
			WithTextCode(TextCodeInvalidBinding))
		return
	}
	s.injections = append(s.injections, target)
}

// Lookup returns the binding for key.
func (s *Set) Lookup(key Key) (Binding, bool) {
	b, ok := s.bindings.Load(key)
	if !ok {
		return Binding{}, false
	}
	return *b, true
}

// Bindings returns every binding in declaration order.
func (s *Set) Bindings() []Binding {
	out := make([]Binding, 0, len(s.order))
	for _, key := range s.order {
		if b, ok := s.bindings.Load(key); ok {
			out = append(out, *b)
		}
	}
	return out
}

// Injections returns the targets passed to RequestInjection.
func (s *Set) Injections() []any {
	return append([]any(nil), s.injections...)
}

// Err joins every problem found while configuring, or returns nil.
func (s *Set) Err() error {
	if len(s.errs) == 0 {
		return nil
	}
	return errkit.Wrap(errors.Join(s.errs...), goerrors.CategoryValidation,
		fmt.Sprintf("%d binding error(s)", len(s.errs))).
		WithTextCode(TextCodeBindingErrors)
}

func (s *Set) fail(err error) {
	s.errs = append(s.errs, err)
}

func invalidBinding(key Key, reason string) *goerrors.Error {
	return goerrors.New(fmt.Sprintf("%s: %s", key, reason), goerrors.CategoryValidation).
		WithTextCode(TextCodeInvalidBinding).
		WithMetadata(map[string]any{"key": key.String()})
}

// linkedBuilder edits one binding. A detached builder belongs to a rejected
// Bind call and ignores everything chained onto it.
type linkedBuilder struct {
	set      *Set
	binding  *Binding
	detached bool
}

func (b *linkedBuilder) To(target Key) ScopedBindingBuilder {
	switch {
	case !b.retarget():
	case target.IsZero():
		b.set.fail(invalidBinding(b.binding.Key, "link target has no type"))
	case !target.Type.AssignableTo(b.binding.Key.Type):
		b.set.fail(invalidBinding(b.binding.Key, fmt.Sprintf("%s is not assignable to %s", target.Type, b.binding.Key.Type)))
	case target == b.binding.Key:
		b.set.fail(invalidBinding(b.binding.Key, "binding linked to itself"))
	default:
		b.binding.Kind = KindLinked
		b.binding.Target = target
	}
	return b
}

func (b *linkedBuilder) ToInstance(instance any) {
	switch {
	case !b.retarget():
	case instance == nil:
		b.set.fail(invalidBinding(b.binding.Key, "instance is nil"))
	case !reflect.TypeOf(instance).AssignableTo(b.binding.Key.Type):
		b.set.fail(invalidBinding(b.binding.Key, fmt.Sprintf("instance of %T is not assignable", instance)))
	default:
		b.binding.Kind = KindInstance
		b.binding.Instance = instance
	}
}

func (b *linkedBuilder) ToProvider(provider Provider) ScopedBindingBuilder {
	switch {
	case !b.retarget():
	case provider == nil:
		b.set.fail(invalidBinding(b.binding.Key, "provider is nil"))
	default:
		b.binding.Kind = KindProvider
		b.binding.Provider = provider
	}
	return b
}

func (b *linkedBuilder) In(scope Scope) {
	if b.detached {
		return
	}
	if b.binding.Kind == KindInstance {
		b.set.fail(invalidBinding(b.binding.Key, "instance bindings cannot be scoped"))
		return
	}
	b.binding.Scope = scope
}

func (b *linkedBuilder) AsEagerSingleton() {
	b.In(Singleton)
	b.binding.Eager = b.binding.Scope == Singleton
}

// retarget reports whether the binding still has no target.
func (b *linkedBuilder) retarget() bool {
	if b.detached {
		return false
	}
	if b.binding.Kind != KindSelf {
		b.set.fail(invalidBinding(b.binding.Key, "binding already has a "+b.binding.Kind.String()+" target"))
		return false
	}
	return true
}

type constantBuilder struct {
	set  *Set
	name string
}

func (c *constantBuilder) AnnotatedWith(name string) ConstantBindingBuilder {
	if name == "" {
		c.set.fail(invalidBinding(Key{}, "constant bindings need a name"))
	}
	return &constantBuilder{set: c.set, name: name}
}

func (c *constantBuilder) To(value any) {
	if c.name == "" {
		return
	}
	if value == nil {
		c.set.fail(invalidBinding(Key{Name: c.name}, "constant value is nil"))
		return
	}
	lb := c.set.Bind(Key{Type: reflect.TypeOf(value), Name: c.name}).(*linkedBuilder)
	if lb.detached {
		return
	}
	lb.binding.Kind = KindConstant
	lb.binding.Instance = value
}
