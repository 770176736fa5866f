package invocation_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-immediate-module/invocation"
	"github.com/goliatone/go-immediate-module/pkg/testsupport"
)

func TestInterceptor_IdentityMethodsAreNotRecorded(t *testing.T) {
	session := newJournalSession()
	root := session.Root()
	writer := root.Open("a")

	identity, ok := writer.(interface {
		Equal(other any) bool
		Hash() uint64
		String() string
	})
	if !ok {
		t.Fatalf("stand-in %T does not expose identity methods", writer)
	}

	_ = identity.Equal(nil)
	_ = identity.Equal(writer)
	_ = identity.Hash()
	_ = identity.String()
	_ = strings.HasSuffix(identity.String(), " ")

	if session.Len() != 1 {
		t.Errorf("Len() = %d, identity methods must not append records", session.Len())
	}
}

func TestInterceptor_Equal(t *testing.T) {
	session := newJournalSession()
	root := session.Root()
	a := root.Open("a")
	b := root.Open("b")
	other := newJournalSession().Root()

	eq := func(v any) interface{ Equal(any) bool } { return v.(interface{ Equal(any) bool }) }

	tests := []struct {
		name  string
		left  any
		right any
		want  bool
	}{
		{name: "root equals itself", left: root, right: root, want: true},
		{name: "derived equals itself", left: a, right: a, want: true},
		{name: "distinct derived stand-ins", left: a, right: b, want: false},
		{name: "root and derived", left: root, right: a, want: false},
		{name: "roots of different sessions", left: root, right: other, want: false},
		{name: "nil", left: root, right: nil, want: false},
		{name: "real object", left: root, right: testsupport.NewFakeJournal(), want: false},
		{name: "plain value", left: a, right: "a", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eq(tt.left).Equal(tt.right); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInterceptor_HashIsStable(t *testing.T) {
	session := newJournalSession()
	root := session.Root()
	a := root.Open("a")
	b := root.Open("b")

	hash := func(v any) uint64 { return v.(interface{ Hash() uint64 }).Hash() }

	if hash(a) != hash(a) {
		t.Error("Hash() should be stable across calls")
	}
	if hash(a) == hash(b) {
		t.Error("Hash() of distinct stand-ins should differ")
	}
	if hash(root) == hash(newJournalSession().Root()) {
		t.Error("Hash() of roots from different sessions should differ")
	}
}

func TestInterceptor_String(t *testing.T) {
	session := newJournalSession()
	root := session.Root()
	desc := root.(interface{ String() string }).String()

	for _, want := range []string{"Journal", "root", session.ID()} {
		if !strings.Contains(desc, want) {
			t.Errorf("String() = %q, missing %q", desc, want)
		}
	}

	derived := root.Open("a").(interface{ String() string }).String()
	if !strings.Contains(derived, "Writer") || !strings.Contains(derived, "derived") {
		t.Errorf("String() = %q, want derived Writer description", derived)
	}
}

func TestInterceptor_RootFlag(t *testing.T) {
	session := newJournalSession()
	root := session.Root()
	w := root.Open("a")

	type flagged interface {
		IsRoot() bool
		Surface() string
	}
	if !root.(flagged).IsRoot() {
		t.Error("root stand-in should report IsRoot")
	}
	if w.(flagged).IsRoot() {
		t.Error("derived stand-in should not report IsRoot")
	}
	if got := w.(flagged).Surface(); got != "Writer" {
		t.Errorf("Surface() = %q, want Writer", got)
	}
}

func TestThen_PanicsOnNonChainableOperation(t *testing.T) {
	session := invocation.NewSession(touchSurface)
	root := session.Root()

	defer func() {
		if recover() == nil {
			t.Fatal("Then on a void operation should panic")
		}
	}()
	invocation.Then[testsupport.Writer](root.(*invocation.Interceptor), "Touch")
}

func TestInterceptor_ZeroValueIdentityMethods(t *testing.T) {
	var zero invocation.Interceptor
	var nilPtr *invocation.Interceptor

	for name, i := range map[string]*invocation.Interceptor{"zero": &zero, "nil": nilPtr} {
		t.Run(name, func(t *testing.T) {
			if got := i.Hash(); got != 0 {
				t.Errorf("Hash() = %d, want 0", got)
			}
			if got := i.String(); got != "detached stand-in" {
				t.Errorf("String() = %q, want detached stand-in", got)
			}
			if i.Equal(&zero) && i != &zero {
				t.Error("Equal() matched a different interceptor")
			}
		})
	}
}
