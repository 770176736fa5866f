package immediate_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/goliatone/go-immediate-module/binder"
	"github.com/goliatone/go-immediate-module/immediate"
	"github.com/goliatone/go-immediate-module/invocation"
	"github.com/goliatone/go-immediate-module/pkg/di"
	"github.com/goliatone/go-immediate-module/pkg/testsupport"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Store interface {
	Put(key, value string)
	Get(key string) string
}

type memoryStore struct {
	items map[string]string
}

func (m *memoryStore) Put(key, value string) {
	if m.items == nil {
		m.items = make(map[string]string)
	}
	m.items[key] = value
}

func (m *memoryStore) Get(key string) string { return m.items[key] }

type Service struct {
	Store  Store  `inject:""`
	Region string `inject:"region"`
}

func configureStore(b binder.Binder) {
	b.Bind(binder.KeyOf[Store]()).To(binder.KeyOf[*memoryStore]()).In(binder.Singleton)
	b.BindConstant().AnnotatedWith("region").To("eu-west-1")
	b.Bind(binder.KeyOf[Store]().Named("audit")).ToInstance(&memoryStore{})
	b.Bind(binder.KeyOf[*Service]()).AsEagerSingleton()
}

func TestModule_RecordsFluentChains(t *testing.T) {
	m := immediate.New(configureStore)

	require.Equal(t, 10, m.Len())
	assert.False(t, m.Replayed())

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "binder_chains", testsupport.Transcript(m.Records(), m.Describe))
}

func TestModule_ReplayMatchesDirectConfiguration(t *testing.T) {
	direct := binder.NewSet()
	direct.Install(binder.ModuleFunc(func(b binder.Binder) error {
		configureStore(b)
		return nil
	}))
	require.NoError(t, direct.Err())

	replayed := binder.NewSet()
	m := immediate.New(configureStore)
	replayed.Install(m)
	require.NoError(t, replayed.Err())

	assert.Equal(t, direct.Bindings(), replayed.Bindings())
	assert.True(t, m.Replayed())
	assert.Equal(t, 0, m.Len())
}

func TestModule_EmptyModuleFails(t *testing.T) {
	m := immediate.New(nil)

	set := binder.NewSet()
	set.Install(m)

	err := set.Err()
	require.Error(t, err)
	assert.True(t, invocation.IsEmptySession(err))
	assert.Contains(t, err.Error(), "immediate.New(func(b binder.Binder)")
	assert.False(t, m.Replayed(), "an empty module can still record and be configured")

	m.BindConstant().AnnotatedWith("late").To(true)
	require.NoError(t, m.Configure(binder.NewSet()))
}

func TestModule_ConfigureOnce(t *testing.T) {
	m := immediate.New(func(b binder.Binder) {
		b.BindConstant().AnnotatedWith("name").To("first")
	})

	set := binder.NewSet()
	set.Install(m)
	set.Install(m)
	require.NoError(t, set.Err(), "installing the same module twice configures it once")

	err := m.Configure(binder.NewSet())
	require.Error(t, err)
	assert.True(t, invocation.IsSessionSpent(err))

	assert.Panics(t, func() { m.Bind(binder.KeyOf[Store]()) }, "recording after replay is a wiring error")
}

func TestModule_HelpersShareOneSession(t *testing.T) {
	target := &Service{}

	m := immediate.New(nil)
	m.Bind(binder.KeyOf[Store]()).ToInstance(&memoryStore{})
	m.BindConstant().AnnotatedWith("region").To("us-east-2")
	m.RequestInjection(target)

	assert.Equal(t, 6, m.Len())
	assert.Equal(t, m.Binder(), m.Binder())

	_, err := di.NewContainerWithDefaults(m)
	require.NoError(t, err)
	assert.Equal(t, "us-east-2", target.Region)
	require.NotNil(t, target.Store)
}

func TestModule_NestedInstall(t *testing.T) {
	inner := immediate.New(func(b binder.Binder) {
		b.BindConstant().AnnotatedWith("region").To("ap-south-1")
	})
	outer := immediate.New(func(b binder.Binder) {
		b.Install(inner)
		b.Bind(binder.KeyOf[Store]()).To(binder.KeyOf[*memoryStore]())
	})

	c, err := di.NewContainerWithDefaults(outer)
	require.NoError(t, err)
	assert.True(t, inner.Replayed())
	assert.True(t, outer.Replayed())

	svc, err := di.Resolve[*Service](context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "ap-south-1", svc.Region)
}

func TestModule_WithContainer(t *testing.T) {
	c, err := di.NewContainerWithDefaults(immediate.New(configureStore))
	require.NoError(t, err)
	ctx := context.Background()

	svc, err := di.Resolve[*Service](ctx, c)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", svc.Region)

	svc.Store.Put("greeting", "hello")
	store, err := di.Resolve[Store](ctx, c)
	require.NoError(t, err)
	assert.Equal(t, "hello", store.Get("greeting"), "Store is a singleton")

	audit, err := di.ResolveNamed[Store](ctx, c, "audit")
	require.NoError(t, err)
	assert.Equal(t, "", audit.Get("greeting"))
}

func TestModule_StaleBuilderFailsReplay(t *testing.T) {
	m := immediate.New(func(b binder.Binder) {
		pending := b.Bind(binder.KeyOf[Store]())
		b.BindConstant().AnnotatedWith("region").To("eu-west-1")
		pending.ToInstance(&memoryStore{})
	})

	_, err := di.NewContainerWithDefaults(m)
	require.Error(t, err)
	assert.True(t, invocation.IsReplayFailure(err))
	assert.Contains(t, err.Error(), "LinkedBindingBuilder.ToInstance(&memoryStore{})")
}

func TestModule_IdentityMethodsDoNotRecord(t *testing.T) {
	m := immediate.New(func(b binder.Binder) {
		b.BindConstant().AnnotatedWith("region").To("eu-west-1")
	})
	b := m.Binder()

	desc := fmt.Sprint(b)
	assert.Contains(t, desc, "Binder")
	assert.Contains(t, desc, m.ID())

	type equaler interface{ Equal(other any) bool }
	eq, ok := b.(equaler)
	require.True(t, ok)
	assert.True(t, eq.Equal(b))
	assert.False(t, eq.Equal(binder.NewSet()))

	assert.Equal(t, 3, m.Len())
}
