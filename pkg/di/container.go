package di

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-immediate-module/binder"
	"github.com/goliatone/go-immediate-module/internal/cacheinfra"
	"github.com/puzpuzpuz/xsync/v3"
)

// Container builds a binder.Set from modules and resolves instances from it.
// Configuring the modules is what replays immediate modules, so a container
// is usually the first real binder they see.
type Container struct {
	config     Config
	set        *binder.Set
	singletons *xsync.MapOf[binder.Key, any]
	cache      *cacheinfra.ScopeCache
	logger     *slog.Logger
}

var _ binder.Injector = (*Container)(nil)

// NewContainer configures modules, validates the resulting bindings, creates
// eager singletons and fills the targets passed to RequestInjection.
func NewContainer(config Config, modules ...binder.Module) (*Container, error) {
	cache, err := cacheinfra.NewScopeCache(config.cacheConfig())
	if err != nil {
		return nil, err
	}

	c := &Container{
		config:     config,
		set:        binder.NewSet(),
		singletons: xsync.NewMapOf[binder.Key, any](),
		cache:      cache,
		logger:     config.Logger(),
	}

	for _, module := range modules {
		c.set.Install(module)
	}
	if err := c.set.Err(); err != nil {
		c.logger.Error("container configuration failed", "error", err)
		return nil, err
	}
	if err := c.verify(); err != nil {
		c.logger.Error("container configuration failed", "error", err)
		return nil, err
	}

	ctx := context.Background()
	for _, b := range c.set.Bindings() {
		if !b.Eager {
			continue
		}
		if _, err := c.Get(ctx, b.Key); err != nil {
			return nil, err
		}
	}

	for _, target := range c.set.Injections() {
		if err := c.injectFields(ctx, reflect.ValueOf(target).Elem()); err != nil {
			return nil, err
		}
	}

	c.logger.Info("container ready",
		"modules", len(modules),
		"bindings", len(c.set.Bindings()),
		"injections", len(c.set.Injections()),
	)
	return c, nil
}

// NewContainerWithDefaults is NewContainer with DefaultConfig.
func NewContainerWithDefaults(modules ...binder.Module) (*Container, error) {
	return NewContainer(DefaultConfig(), modules...)
}

// Config returns the configuration the container was built with.
func (c *Container) Config() Config {
	return c.config
}

// Bindings lists the configured bindings in declaration order.
func (c *Container) Bindings() []binder.Binding {
	return c.set.Bindings()
}

// Get resolves key. Unbound, unnamed struct and pointer-to-struct types are
// constructed on demand.
func (c *Container) Get(ctx context.Context, key binder.Key) (any, error) {
	if key.IsZero() {
		return nil, goerrors.New("cannot resolve a key without a type", goerrors.CategoryBadInput).
			WithTextCode(TextCodeUnboundKey)
	}

	path := resolutionPath(ctx)
	for _, k := range path {
		if k == key {
			return nil, newCycleError(path, key)
		}
	}
	ctx = withResolving(ctx, path, key)

	b, ok := c.set.Lookup(key)
	if !ok {
		if key.Name != "" {
			return nil, newUnboundKeyError(key, "named keys must be bound explicitly")
		}
		return c.construct(ctx, key.Type)
	}

	switch b.Scope {
	case binder.Singleton:
		if v, ok := c.singletons.Load(key); ok {
			return v, nil
		}
		v, err := c.produce(ctx, b)
		if err != nil {
			return nil, err
		}
		actual, loaded := c.singletons.LoadOrStore(key, v)
		if !loaded {
			c.logger.Debug("singleton created", "key", key.String())
		}
		return actual, nil
	case binder.Cached:
		return c.cache.GetOrFetch(ctx, cacheKey(key), func(ctx context.Context) (any, error) {
			return c.produce(ctx, b)
		})
	default:
		return c.produce(ctx, b)
	}
}

// Evict drops the cached-scope instance for key, so the next Get builds a
// fresh one. Other scopes are unaffected.
func (c *Container) Evict(key binder.Key) {
	c.cache.Delete(cacheKey(key))
	c.logger.Debug("cached instance evicted", "key", key.String())
}

// EvictType drops the cached-scope instances of t under every name and
// returns how many were removed.
func (c *Container) EvictType(t reflect.Type) int {
	removed := c.cache.DeleteByPrefix(typePrefix(t))
	c.logger.Debug("cached instances evicted", "type", t.String(), "removed", removed)
	return removed
}

// EvictCached empties the cached scope and returns how many instances were
// removed.
func (c *Container) EvictCached() int {
	keys := c.cache.Keys()
	for _, k := range keys {
		c.cache.Delete(k)
	}
	c.logger.Info("cached scope cleared", "removed", len(keys))
	return len(keys)
}

// Resolve returns the unnamed instance for T.
func Resolve[T any](ctx context.Context, c *Container) (T, error) {
	return resolveKey[T](ctx, c, binder.KeyOf[T]())
}

// ResolveNamed returns the instance of T bound under name.
func ResolveNamed[T any](ctx context.Context, c *Container, name string) (T, error) {
	return resolveKey[T](ctx, c, binder.KeyOf[T]().Named(name))
}

func resolveKey[T any](ctx context.Context, c *Container, key binder.Key) (T, error) {
	var zero T
	v, err := c.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, goerrors.New(fmt.Sprintf("%s resolved to %T", key, v), goerrors.CategoryInternal).
			WithTextCode(TextCodeProviderFailed)
	}
	return out, nil
}

// verify rejects self bindings that can never be constructed.
func (c *Container) verify() error {
	for _, b := range c.set.Bindings() {
		if b.Kind == binder.KindSelf && !constructible(b.Key.Type) {
			return goerrors.New(fmt.Sprintf("%s is bound without a target and cannot be constructed", b.Key), goerrors.CategoryValidation).
				WithTextCode(TextCodeContainerInvalid).
				WithMetadata(map[string]any{"key": b.Key.String()})
		}
	}
	return nil
}

func (c *Container) produce(ctx context.Context, b binder.Binding) (any, error) {
	switch b.Kind {
	case binder.KindSelf:
		return c.construct(ctx, b.Key.Type)
	case binder.KindLinked:
		return c.Get(ctx, b.Target)
	case binder.KindInstance, binder.KindConstant:
		return b.Instance, nil
	case binder.KindProvider:
		v, err := b.Provider(ctx, c)
		if err != nil {
			return nil, newProviderError(b.Key, err)
		}
		if v == nil || !reflect.TypeOf(v).AssignableTo(b.Key.Type) {
			return nil, newProviderError(b.Key, fmt.Errorf("provider returned %T", v))
		}
		return v, nil
	default:
		return nil, goerrors.New(fmt.Sprintf("%s has unknown binding kind %s", b.Key, b.Kind), goerrors.CategoryInternal)
	}
}

func constructible(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func (c *Container) construct(ctx context.Context, t reflect.Type) (any, error) {
	if !constructible(t) {
		return nil, newUnboundKeyError(binder.Key{Type: t}, "only struct types are constructed without a binding")
	}

	if t.Kind() == reflect.Ptr {
		v := reflect.New(t.Elem())
		if err := c.injectFields(ctx, v.Elem()); err != nil {
			return nil, err
		}
		return v.Interface(), nil
	}

	v := reflect.New(t).Elem()
	if err := c.injectFields(ctx, v); err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// injectFields resolves every field tagged `inject`. The tag value, if any,
// names the binding.
func (c *Container) injectFields(ctx context.Context, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, ok := field.Tag.Lookup("inject")
		if !ok {
			continue
		}
		if !field.IsExported() {
			return newInjectionError(t.String(), field.Name, nil)
		}

		dep, err := c.Get(ctx, binder.Key{Type: field.Type, Name: name})
		if err != nil {
			return newInjectionError(t.String(), field.Name, err)
		}
		v.Field(i).Set(reflect.ValueOf(dep))
	}
	return nil
}

// cacheKey is unique per key even when two types print the same name.
// Every key of one type shares typePrefix.
func cacheKey(key binder.Key) string {
	return typePrefix(key.Type) + key.Name
}

func typePrefix(t reflect.Type) string {
	return fmt.Sprintf("%p@", t)
}

type resolvingKey struct{}

func resolutionPath(ctx context.Context) []binder.Key {
	path, _ := ctx.Value(resolvingKey{}).([]binder.Key)
	return path
}

func withResolving(ctx context.Context, path []binder.Key, key binder.Key) context.Context {
	next := make([]binder.Key, len(path), len(path)+1)
	copy(next, path)
	return context.WithValue(ctx, resolvingKey{}, append(next, key))
}
