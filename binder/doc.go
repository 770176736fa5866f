// Package binder defines a small dependency injection binding API: keys,
// fluent binding builders, modules, and Set, the Binder that collects them.
//
// # Basic Usage
//
//	set := binder.NewSet()
//	set.Bind(binder.KeyOf[Greeter]()).To(binder.KeyOf[*EnglishGreeter]()).In(binder.Singleton)
//	set.BindConstant().AnnotatedWith("port").To(8080)
//	set.Install(otherModule)
//	if err := set.Err(); err != nil {
//		return err
//	}
//
// Builder calls never fail inline. Problems (duplicate keys, unassignable
// targets, nil instances) are collected and reported together by Set.Err so
// that a module reads as a flat list of statements.
//
// Set does not resolve anything; see pkg/di for the container that turns a
// configured Set into instances.
package binder
