package store

import (
	"errors"
	"reflect"
	"testing"
)

func TestNamespace_ClearOnlyTouchesOwnKeys(t *testing.T) {
	t.Parallel()

	b := NewMemory()
	hk, err := NewNamespace(b, "hk")
	if err != nil {
		t.Fatalf("NewNamespace(hk): %v", err)
	}
	hk2, err := NewNamespace(b, "hk2")
	if err != nil {
		t.Fatalf("NewNamespace(hk2): %v", err)
	}

	_ = hk.Set("p1-s1", "true")
	_ = hk.Set("@theme", "theme-steam")
	_ = hk2.Set("p1-s1", "true")
	_ = b.Set("unscoped", "keep")

	if err := hk.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if keys, _ := hk.Keys(); len(keys) != 0 {
		t.Fatalf("expected hk to be empty; got %v", keys)
	}
	if v, ok, _ := hk2.Get("p1-s1"); !ok || v != "true" {
		t.Fatalf("expected other namespace untouched; got %q ok=%v", v, ok)
	}
	if v, ok, _ := b.Get("unscoped"); !ok || v != "keep" {
		t.Fatalf("expected unscoped key untouched; got %q ok=%v", v, ok)
	}
}

func TestNamespace_RejectsBadNames(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "  ", "a/b"} {
		if _, err := NewNamespace(NewMemory(), name); !errors.Is(err, ErrBadNamespace) {
			t.Fatalf("NewNamespace(%q): expected ErrBadNamespace; got %v", name, err)
		}
	}
}

func TestNamespace_BoolDefaults(t *testing.T) {
	t.Parallel()

	ns, _ := NewNamespace(NewMemory(), "ss")
	cases := []struct {
		stored string
		set    bool
		def    bool
		want   bool
	}{
		{set: false, def: false, want: false},
		{set: false, def: true, want: true},
		{stored: "true", set: true, def: false, want: true},
		{stored: "false", set: true, def: true, want: false},
		{stored: "yes", set: true, def: false, want: false},
		{stored: "", set: true, def: true, want: true},
	}
	for _, tc := range cases {
		_ = ns.Remove("flag")
		if tc.set {
			_ = ns.Set("flag", tc.stored)
		}
		if got := ns.Bool("flag", tc.def); got != tc.want {
			t.Fatalf("Bool(stored=%q set=%v def=%v) = %v; want %v", tc.stored, tc.set, tc.def, got, tc.want)
		}
	}
}

func TestNamespace_KeysAreRelative(t *testing.T) {
	t.Parallel()

	ns, _ := NewNamespace(NewMemory(), "hk")
	_ = ns.Set("b", "1")
	_ = ns.Set("a", "1")
	got, err := ns.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys = %v; want %v", got, want)
	}
}
