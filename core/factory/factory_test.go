package factory

import "testing"

type sample struct{ Limit int }

type sampleConf struct {
	Limit int `json:"limit"`
}

func newSample(conf map[string]any) (*sample, error) {
	var c sampleConf
	if err := Decode(conf, &c); err != nil {
		return nil, err
	}
	return &sample{Limit: c.Limit}, nil
}

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sample]()
	if err := reg.Register("s", newSample); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "s", Conf: map[string]any{"limit": 3}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.Limit != 3 {
		t.Fatalf("expected 3 got %d", inst.Limit)
	}
}

// Environment overrides deliver numbers as strings.
func TestDecode_WeakTyping(t *testing.T) {
	var c sampleConf
	if err := Decode(map[string]any{"limit": "42"}, &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Limit != 42 {
		t.Fatalf("expected 42 got %d", c.Limit)
	}
}

func TestRegistry_Default(t *testing.T) {
	reg := NewRegistry[*sample]()
	if err := reg.Register("s", newSample); err != nil {
		t.Fatalf("register: %v", err)
	}
	reg.SetDefault("s")
	inst, err := reg.Create(ModuleConfig{})
	if err != nil {
		t.Fatalf("create default: %v", err)
	}
	if inst.Limit != 0 {
		t.Fatalf("expected zero limit got %d", inst.Limit)
	}
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.Register("nil", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	if _, err := reg.Create(ModuleConfig{Type: "y"}); err == nil {
		t.Fatal("expected unknown type error")
	}
	if names := reg.Names(); len(names) != 1 || names[0] != "x" {
		t.Fatalf("unexpected names %v", names)
	}
}
