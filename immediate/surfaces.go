package immediate

import (
	"github.com/goliatone/go-immediate-module/binder"
	"github.com/goliatone/go-immediate-module/invocation"
)

// Surfaces for the binder API. Every builder method is either void or returns
// another builder, so the whole fluent API can be recorded.
var (
	BinderSurface = invocation.NewSurface[binder.Binder]("Binder", func(i *invocation.Interceptor) binder.Binder {
		return recordingBinder{i}
	})
	LinkedSurface = invocation.NewSurface[binder.LinkedBindingBuilder]("LinkedBindingBuilder", func(i *invocation.Interceptor) binder.LinkedBindingBuilder {
		return recordingLinked{recordingScoped{i}}
	})
	ScopedSurface = invocation.NewSurface[binder.ScopedBindingBuilder]("ScopedBindingBuilder", func(i *invocation.Interceptor) binder.ScopedBindingBuilder {
		return recordingScoped{i}
	})
	AnnotatedConstantSurface = invocation.NewSurface[binder.AnnotatedConstantBindingBuilder]("AnnotatedConstantBindingBuilder", func(i *invocation.Interceptor) binder.AnnotatedConstantBindingBuilder {
		return recordingAnnotatedConstant{i}
	})
	ConstantSurface = invocation.NewSurface[binder.ConstantBindingBuilder]("ConstantBindingBuilder", func(i *invocation.Interceptor) binder.ConstantBindingBuilder {
		return recordingConstant{i}
	})
)

func init() {
	invocation.Chain(BinderSurface, "Bind", LinkedSurface, func(b binder.Binder, args []any) (binder.LinkedBindingBuilder, error) {
		key, err := invocation.Arg[binder.Key](args, 0)
		if err != nil {
			return nil, err
		}
		return b.Bind(key), nil
	})
	invocation.Chain(BinderSurface, "BindConstant", AnnotatedConstantSurface, func(b binder.Binder, _ []any) (binder.AnnotatedConstantBindingBuilder, error) {
		return b.BindConstant(), nil
	})
	BinderSurface.Void("Install", func(b binder.Binder, args []any) error {
		module, err := invocation.Arg[binder.Module](args, 0)
		if err != nil {
			return err
		}
		b.Install(module)
		return nil
	})
	BinderSurface.Void("RequestInjection", func(b binder.Binder, args []any) error {
		target, err := invocation.Arg[any](args, 0)
		if err != nil {
			return err
		}
		b.RequestInjection(target)
		return nil
	})

	declareScoped(LinkedSurface)
	invocation.Chain(LinkedSurface, "To", ScopedSurface, func(b binder.LinkedBindingBuilder, args []any) (binder.ScopedBindingBuilder, error) {
		key, err := invocation.Arg[binder.Key](args, 0)
		if err != nil {
			return nil, err
		}
		return b.To(key), nil
	})
	LinkedSurface.Void("ToInstance", func(b binder.LinkedBindingBuilder, args []any) error {
		instance, err := invocation.Arg[any](args, 0)
		if err != nil {
			return err
		}
		b.ToInstance(instance)
		return nil
	})
	invocation.Chain(LinkedSurface, "ToProvider", ScopedSurface, func(b binder.LinkedBindingBuilder, args []any) (binder.ScopedBindingBuilder, error) {
		provider, err := invocation.Arg[binder.Provider](args, 0)
		if err != nil {
			return nil, err
		}
		return b.ToProvider(provider), nil
	})

	declareScoped(ScopedSurface)

	invocation.Chain(AnnotatedConstantSurface, "AnnotatedWith", ConstantSurface, func(b binder.AnnotatedConstantBindingBuilder, args []any) (binder.ConstantBindingBuilder, error) {
		name, err := invocation.Arg[string](args, 0)
		if err != nil {
			return nil, err
		}
		return b.AnnotatedWith(name), nil
	})

	ConstantSurface.Void("To", func(b binder.ConstantBindingBuilder, args []any) error {
		value, err := invocation.Arg[any](args, 0)
		if err != nil {
			return err
		}
		b.To(value)
		return nil
	})
}

// declareScoped adds the ScopedBindingBuilder operations to any surface whose
// type embeds it.
func declareScoped[T binder.ScopedBindingBuilder](s *invocation.Surface[T]) {
	s.Void("In", func(b T, args []any) error {
		scope, err := invocation.Arg[binder.Scope](args, 0)
		if err != nil {
			return err
		}
		b.In(scope)
		return nil
	})
	s.Void("AsEagerSingleton", func(b T, _ []any) error {
		b.AsEagerSingleton()
		return nil
	})
}

type recordingBinder struct{ *invocation.Interceptor }

func (r recordingBinder) Bind(key binder.Key) binder.LinkedBindingBuilder {
	return invocation.Then[binder.LinkedBindingBuilder](r.Interceptor, "Bind", key)
}

func (r recordingBinder) BindConstant() binder.AnnotatedConstantBindingBuilder {
	return invocation.Then[binder.AnnotatedConstantBindingBuilder](r.Interceptor, "BindConstant")
}

func (r recordingBinder) Install(module binder.Module) { r.Do("Install", module) }

func (r recordingBinder) RequestInjection(target any) { r.Do("RequestInjection", target) }

type recordingScoped struct{ *invocation.Interceptor }

func (r recordingScoped) In(scope binder.Scope) { r.Do("In", scope) }

func (r recordingScoped) AsEagerSingleton() { r.Do("AsEagerSingleton") }

type recordingLinked struct{ recordingScoped }

func (r recordingLinked) To(target binder.Key) binder.ScopedBindingBuilder {
	return invocation.Then[binder.ScopedBindingBuilder](r.Interceptor, "To", target)
}

func (r recordingLinked) ToInstance(instance any) { r.Do("ToInstance", instance) }

func (r recordingLinked) ToProvider(provider binder.Provider) binder.ScopedBindingBuilder {
	return invocation.Then[binder.ScopedBindingBuilder](r.Interceptor, "ToProvider", provider)
}

type recordingAnnotatedConstant struct{ *invocation.Interceptor }

func (r recordingAnnotatedConstant) AnnotatedWith(name string) binder.ConstantBindingBuilder {
	return invocation.Then[binder.ConstantBindingBuilder](r.Interceptor, "AnnotatedWith", name)
}

type recordingConstant struct{ *invocation.Interceptor }

func (r recordingConstant) To(value any) { r.Do("To", value) }
