package module

import "testing"

type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) Name() string { return m.name }
func (m fakeModule) Ports() any   { return m.ports }

func TestPortsOfStructField(t *testing.T) {
	t.Parallel()

	m := fakeModule{name: "events", ports: portSet{P: pinger{tag: "x"}}}
	got, ok := PortsOf[pingPort](m)
	if !ok || got.Ping() != "x" {
		t.Fatalf("PortsOf = (%v,%v)", got, ok)
	}
}

func TestPortsOfDirect(t *testing.T) {
	t.Parallel()

	// the bundle itself implements the interface
	m := fakeModule{name: "events", ports: pinger{tag: "direct"}}
	got, ok := PortsOf[pingPort](m)
	if !ok || got.Ping() != "direct" {
		t.Fatalf("PortsOf = (%v,%v)", got, ok)
	}
}

func TestPortsOfMissing(t *testing.T) {
	t.Parallel()

	m := fakeModule{name: "events", ports: struct{ N int }{N: 1}}
	if _, ok := PortsOf[pingPort](m); ok {
		t.Fatal("no field implements the port")
	}
	if _, ok := PortsOf[pingPort](fakeModule{name: "nil"}); ok {
		t.Fatal("nil bundle should not resolve")
	}
}

func TestMustPortsOfPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("want panic for missing port")
		}
	}()
	_ = MustPortsOf[pingPort](fakeModule{name: "empty"})
}
