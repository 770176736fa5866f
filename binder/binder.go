package binder

import (
	"context"
	"fmt"
	"reflect"
)

// Key identifies a binding by type and optional name.
type Key struct {
	Type reflect.Type
	Name string
}

// KeyOf returns the unnamed key for T.
func KeyOf[T any]() Key {
	return Key{Type: reflect.TypeFor[T]()}
}

// Named returns a copy of k qualified by name.
func (k Key) Named(name string) Key {
	k.Name = name
	return k
}

// IsZero reports whether k has no type.
func (k Key) IsZero() bool {
	return k.Type == nil
}

func (k Key) String() string {
	typ := "<nil>"
	if k.Type != nil {
		typ = k.Type.String()
	}
	if k.Name == "" {
		return typ
	}
	return typ + "@" + k.Name
}

// Scope controls how often a binding's instance is produced.
type Scope int

const (
	// Unscoped bindings produce a new instance per lookup.
	Unscoped Scope = iota
	// Singleton bindings produce one instance per container.
	Singleton
	// Cached bindings keep their instance for the container's cache TTL.
	Cached
)

func (s Scope) String() string {
	switch s {
	case Unscoped:
		return "unscoped"
	case Singleton:
		return "singleton"
	case Cached:
		return "cached"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// Injector resolves bound instances. Providers receive one so they can pull
// their own dependencies.
type Injector interface {
	Get(ctx context.Context, key Key) (any, error)
}

// Provider builds an instance on demand.
type Provider func(ctx context.Context, in Injector) (any, error)

// Module contributes bindings to a Binder.
type Module interface {
	Configure(b Binder) error
}

// ModuleFunc adapts a function to Module.
type ModuleFunc func(b Binder) error

// Configure calls f(b).
func (f ModuleFunc) Configure(b Binder) error {
	return f(b)
}

// Binder collects bindings. Builder methods are fluent; problems are
// collected and reported once configuration ends.
type Binder interface {
	// Bind starts a binding for key.
	Bind(key Key) LinkedBindingBuilder
	// BindConstant starts a named constant binding.
	BindConstant() AnnotatedConstantBindingBuilder
	// Install configures module into this binder.
	Install(module Module)
	// RequestInjection asks for inject-tagged fields of target (a pointer to a
	// struct) to be populated once the container is built.
	RequestInjection(target any)
}

// ScopedBindingBuilder sets the scope of a binding.
type ScopedBindingBuilder interface {
	In(scope Scope)
	AsEagerSingleton()
}

// LinkedBindingBuilder chooses what a key is bound to. A key left without a
// target is bound to itself and constructed just in time.
type LinkedBindingBuilder interface {
	ScopedBindingBuilder
	To(target Key) ScopedBindingBuilder
	ToInstance(instance any)
	ToProvider(provider Provider) ScopedBindingBuilder
}

// AnnotatedConstantBindingBuilder names a constant binding.
type AnnotatedConstantBindingBuilder interface {
	AnnotatedWith(name string) ConstantBindingBuilder
}

// ConstantBindingBuilder sets a constant's value; the value's type becomes
// the key type.
type ConstantBindingBuilder interface {
	To(value any)
}
