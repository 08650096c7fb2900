package warden

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ManifestEntry is one component kind described in a declarative manifest
// file, an alternative to a sequence of Register[T] calls for hosts that
// want their kind list in a data file instead of Go source (spec §9 Design
// Notes, "Global type enumeration at build time").
type ManifestEntry struct {
	Name        string `yaml:"name"`
	Shape       string `yaml:"shape"` // "single", "multiple", "singleton"
	SingleFrame bool   `yaml:"single_frame"`
	NoCheck     bool   `yaml:"no_check"`
	ExternalTag string `yaml:"external_tag"` // optional uuid.UUID string, see Registry.Tag
}

// Manifest is a decoded list of ManifestEntry. It names kinds but cannot
// carry their Go types — a YAML file has no way to spell a type parameter —
// so it is only the macro input; RegisterFromManifest still performs the
// actual Register[T] call per kind, against a host-supplied registerer.
type Manifest struct {
	Kinds []ManifestEntry `yaml:"kinds"`
}

// LoadManifest decodes a Manifest from r.
func LoadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Registerer performs the actual Register[T] call for one manifest entry,
// closing over the concrete T the manifest's entry name refers to. Supplied
// by the host, since reflection alone cannot recover a type parameter from
// a string.
type Registerer func(shape Shape, opts ...RegisterOption)

// RegisterFromManifest walks m.Kinds in order and, for each entry, looks up
// a Registerer by name in registerers and invokes it with the shape and
// options decoded from the manifest. It returns an error naming the first
// entry with no matching registerer, or an unrecognized shape string,
// rather than registering a partial set silently.
func (m *Manifest) RegisterFromManifest(registerers map[string]Registerer) error {
	for _, e := range m.Kinds {
		fn, ok := registerers[e.Name]
		if !ok {
			return fmt.Errorf("ecs: manifest names kind %q with no registerer supplied", e.Name)
		}
		shape, err := parseShape(e.Shape)
		if err != nil {
			return fmt.Errorf("ecs: kind %q: %w", e.Name, err)
		}
		var opts []RegisterOption
		if e.SingleFrame {
			opts = append(opts, AsSingleFrame())
		}
		if e.NoCheck {
			opts = append(opts, NoCleanupCheck())
		}
		if e.ExternalTag != "" {
			id, err := uuid.Parse(e.ExternalTag)
			if err != nil {
				return fmt.Errorf("ecs: kind %q: external_tag: %w", e.Name, err)
			}
			opts = append(opts, ExternalTag(id))
		}
		fn(shape, opts...)
	}
	return nil
}

func parseShape(s string) (Shape, error) {
	switch s {
	case "single", "":
		return Single, nil
	case "multiple":
		return Multiple, nil
	case "singleton":
		return Singleton, nil
	default:
		return 0, fmt.Errorf("unrecognized shape %q", s)
	}
}
