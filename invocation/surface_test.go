package invocation

import "testing"

type counter interface {
	Add(n int)
	Scoped(name string) counter
	Total() int
}

type counterStub struct{ *Interceptor }

func (c counterStub) Add(n int)                  { c.Do("Add", n) }
func (c counterStub) Scoped(name string) counter { return Then[counter](c.Interceptor, "Scoped", name) }
func (c counterStub) Total() int                 { c.Invoke("Total"); return 0 }

type realCounter struct {
	total int
	name  string
}

func (c *realCounter) Add(n int)                  { c.total += n }
func (c *realCounter) Scoped(name string) counter { return &realCounter{name: name} }
func (c *realCounter) Total() int                 { return c.total }

func newCounterSurface() *Surface[counter] {
	s := NewSurface[counter]("Counter", func(i *Interceptor) counter { return counterStub{i} })
	s.Void("Add", func(c counter, args []any) error {
		n, err := Arg[int](args, 0)
		if err != nil {
			return err
		}
		c.Add(n)
		return nil
	})
	Chain(s, "Scoped", s, func(c counter, args []any) (counter, error) {
		name, err := Arg[string](args, 0)
		if err != nil {
			return nil, err
		}
		return c.Scoped(name), nil
	})
	s.Value("Total", func(c counter, _ []any) (any, error) { return c.Total(), nil })
	return s
}

func TestSurface_Operations(t *testing.T) {
	s := newCounterSurface()

	ops := s.Operations()
	want := []struct {
		method string
		kind   ResultKind
	}{
		{"Add", ResultVoid},
		{"Scoped", ResultChain},
		{"Total", ResultValue},
	}
	if len(ops) != len(want) {
		t.Fatalf("len(Operations()) = %d, want %d", len(ops), len(want))
	}
	for i, w := range want {
		if ops[i].Selector.Method != w.method || ops[i].Result != w.kind {
			t.Errorf("op %d = %s/%s, want %s/%s", i, ops[i].Selector.Method, ops[i].Result, w.method, w.kind)
		}
	}

	scoped, ok := s.Lookup("Scoped")
	if !ok || scoped.Next() == nil || scoped.Next().Name() != "Counter" {
		t.Errorf("Lookup(Scoped) = %+v, want chain back to Counter", scoped)
	}
	if _, ok := s.Lookup("Reset"); ok {
		t.Error("Lookup(Reset) should fail for an undeclared method")
	}
}

func TestSurface_DuplicateDeclarationPanics(t *testing.T) {
	s := newCounterSurface()
	defer func() {
		p := recover()
		err, ok := p.(error)
		if !ok || !hasTextCode(err, TextCodeDuplicateMethod) {
			t.Errorf("recover() = %v, want duplicate operation error", p)
		}
	}()
	s.Void("Add", func(counter, []any) error { return nil })
}

func TestSurface_ChainRequiresResultSurface(t *testing.T) {
	s := NewSurface[counter]("Counter", func(i *Interceptor) counter { return counterStub{i} })
	defer func() {
		if recover() == nil {
			t.Error("Chain with nil result surface should panic")
		}
	}()
	Chain[counter, counter](s, "Scoped", nil, nil)
}

func TestSurface_ExecutorRejectsWrongReceiver(t *testing.T) {
	s := newCounterSurface()
	op, _ := s.Lookup("Add")

	_, err := op.exec("not a counter", []any{1})
	if !hasTextCode(err, TextCodeReceiverMismatch) {
		t.Errorf("exec() error = %v, want receiver mismatch", err)
	}
}

func TestSurface_ReplayThroughSelfChain(t *testing.T) {
	session := NewSession(newCounterSurface())
	session.Root().Scoped("a").Scoped("b").Add(3)
	session.Root().Add(2)

	target := &realCounter{}
	if err := session.Replay(target); err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if target.total != 2 {
		t.Errorf("root total = %d, want 2", target.total)
	}
}

func TestArg(t *testing.T) {
	args := []any{"name", 3, nil}

	if got, err := Arg[string](args, 0); err != nil || got != "name" {
		t.Errorf("Arg[string](0) = %q, %v", got, err)
	}
	if got, err := Arg[int](args, 1); err != nil || got != 3 {
		t.Errorf("Arg[int](1) = %d, %v", got, err)
	}
	if got, err := Arg[error](args, 2); err != nil || got != nil {
		t.Errorf("Arg[error](2) = %v, %v, want nil, nil", got, err)
	}

	_, err := Arg[int](args, 0)
	if !hasTextCode(err, TextCodeBadArgument) {
		t.Errorf("Arg[int](0) error = %v, want bad argument", err)
	}
	_, err = Arg[string](args, 5)
	if !hasTextCode(err, TextCodeBadArgument) {
		t.Errorf("Arg[string](5) error = %v, want bad argument", err)
	}
}
