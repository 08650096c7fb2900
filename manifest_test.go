package warden

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

type manifestPosition struct{ X, Y float64 }
type manifestEvent struct{ Amount int }

func TestLoadManifestDecodesKinds(t *testing.T) {
	src := `
kinds:
  - name: position
    shape: single
  - name: damage_event
    shape: multiple
    single_frame: true
`
	m, err := LoadManifest(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Kinds) != 2 {
		t.Fatalf("expected 2 kinds, got %d", len(m.Kinds))
	}
	if m.Kinds[0].Name != "position" || m.Kinds[0].Shape != "single" {
		t.Fatalf("unexpected first entry: %+v", m.Kinds[0])
	}
	if !m.Kinds[1].SingleFrame {
		t.Fatalf("expected single_frame true, got %+v", m.Kinds[1])
	}
}

func TestRegisterFromManifestInvokesRegisterers(t *testing.T) {
	m := &Manifest{Kinds: []ManifestEntry{
		{Name: "position", Shape: "single"},
		{Name: "damage_event", Shape: "multiple", SingleFrame: true},
	}}
	r := NewRegistry()
	var posKind Kind[manifestPosition]
	var evtKind Kind[manifestEvent]
	registerers := map[string]Registerer{
		"position": func(shape Shape, opts ...RegisterOption) {
			posKind = Register[manifestPosition](r, shape, opts...)
		},
		"damage_event": func(shape Shape, opts ...RegisterOption) {
			evtKind = Register[manifestEvent](r, shape, opts...)
		},
	}
	if err := m.RegisterFromManifest(registerers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := NewWorld(r)
	e := w.NewEntity()
	if err := Add(e, manifestPosition{X: 1, Y: 2}); err != nil {
		t.Fatalf("unexpected error adding the manifest-registered kind: %v", err)
	}
	if posKind.Index() == evtKind.Index() {
		t.Fatalf("expected distinct indices, got %d for both", posKind.Index())
	}
}

func TestRegisterFromManifestFailsOnUnknownName(t *testing.T) {
	m := &Manifest{Kinds: []ManifestEntry{{Name: "ghost", Shape: "single"}}}
	if err := m.RegisterFromManifest(map[string]Registerer{}); err == nil {
		t.Fatal("expected error for a manifest entry with no matching registerer")
	}
}

func TestRegisterFromManifestAppliesExternalTag(t *testing.T) {
	id := uuid.New()
	m := &Manifest{Kinds: []ManifestEntry{
		{Name: "position", Shape: "single", ExternalTag: id.String()},
	}}
	r := NewRegistry()
	var posKind Kind[manifestPosition]
	registerers := map[string]Registerer{
		"position": func(shape Shape, opts ...RegisterOption) {
			posKind = Register[manifestPosition](r, shape, opts...)
		},
	}
	if err := m.RegisterFromManifest(registerers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := NewWorld(r)
	if got := posKind.Tag(w); got != id {
		t.Fatalf("expected manifest-declared tag %v, got %v", id, got)
	}
}

func TestRegisterFromManifestFailsOnMalformedExternalTag(t *testing.T) {
	m := &Manifest{Kinds: []ManifestEntry{
		{Name: "position", Shape: "single", ExternalTag: "not-a-uuid"},
	}}
	registerers := map[string]Registerer{
		"position": func(shape Shape, opts ...RegisterOption) {
			Register[manifestPosition](NewRegistry(), shape, opts...)
		},
	}
	if err := m.RegisterFromManifest(registerers); err == nil {
		t.Fatal("expected error for a malformed external_tag")
	}
}

func TestRegisterFromManifestFailsOnUnknownShape(t *testing.T) {
	m := &Manifest{Kinds: []ManifestEntry{{Name: "position", Shape: "bogus"}}}
	called := false
	registerers := map[string]Registerer{
		"position": func(shape Shape, opts ...RegisterOption) { called = true },
	}
	if err := m.RegisterFromManifest(registerers); err == nil {
		t.Fatal("expected error for an unrecognized shape string")
	}
	if called {
		t.Fatal("expected the registerer not to be invoked for an invalid entry")
	}
}
