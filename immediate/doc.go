// Package immediate provides binder modules that are written eagerly.
//
// A regular binder.Module configures bindings when the host asks for them.
// An immediate Module records the same calls as soon as it is built, and
// replays them, in order, when the host calls Configure:
//
//	module := immediate.New(func(b binder.Binder) {
//		b.Bind(binder.KeyOf[Store]()).To(binder.KeyOf[*memoryStore]()).In(binder.Singleton)
//		b.BindConstant().AnnotatedWith("region").To("eu-west-1")
//	})
//
//	container, err := di.NewContainerWithDefaults(module)
//
// Recording goes through the invocation package. The binder API is declared
// as a set of capability surfaces (BinderSurface, LinkedSurface and so on) so
// each builder returned during recording is itself a recording stand-in.
//
// A module replays once. Installing it in a second container fails with a
// session spent error, and a module that recorded nothing fails with guidance
// on how to record bindings.
package immediate
