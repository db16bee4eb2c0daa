package repokit

import (
	"context"
	"testing"

	"winscope/internal/platform/store"
	"winscope/internal/platform/testkit"
)

type stubQueryer struct{}

func (stubQueryer) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (stubQueryer) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (stubQueryer) QueryRow(context.Context, string, ...any) store.Row             { return nil }

type repo struct{ q Queryer }

func TestBindFunc(t *testing.T) {
	t.Parallel()

	b := BindFunc[repo](func(q Queryer) repo { return repo{q: q} })
	q := stubQueryer{}
	if got := b.Bind(q); got.q != Queryer(q) {
		t.Fatalf("Bind wired wrong queryer: %#v", got)
	}
}

func TestMustBind(t *testing.T) {
	t.Parallel()

	b := BindFunc[repo](func(q Queryer) repo { return repo{q: q} })

	testkit.MustNotPanic(t, func() { _ = MustBind[repo](b, stubQueryer{}) })
	testkit.MustPanic(t, func() { _ = MustBind[repo](b, nil) })
}

func TestRequireQueryer(t *testing.T) {
	t.Parallel()

	q := stubQueryer{}
	if RequireQueryer(q) != Queryer(q) {
		t.Fatal("RequireQueryer should return its input")
	}
	testkit.MustPanic(t, func() { RequireQueryer(nil) })
}
