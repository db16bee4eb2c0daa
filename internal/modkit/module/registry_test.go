package module

import "testing"

type pingPort interface{ Ping() string }

type pinger struct{ tag string }

func (p pinger) Ping() string { return p.tag }

type portSet struct {
	P pingPort
}

func TestRegisterAndPortsAs(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("events", portSet{P: pinger{tag: "ev"}})

	got, ok := PortsAs[portSet]("events")
	if !ok || got.P.Ping() != "ev" {
		t.Fatalf("PortsAs = (%#v,%v)", got, ok)
	}

	if _, ok := PortsAs[portSet]("missing"); ok {
		t.Fatal("missing name should not resolve")
	}
	// wrong type assertion fails cleanly
	if _, ok := PortsAs[string]("events"); ok {
		t.Fatal("wrong type should not resolve")
	}
}

func TestRegisterOverwrites(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("m", portSet{P: pinger{tag: "old"}})
	Register("m", portSet{P: pinger{tag: "new"}})

	got, _ := PortsAs[portSet]("m")
	if got.P.Ping() != "new" {
		t.Fatalf("Ping = %q, want new", got.P.Ping())
	}
}
