package warden

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// TypeIndex is the dense, build-time-assigned index for a registered
// component kind. It indexes directly into World.pools and into every
// bitmask256.
type TypeIndex uint16

// Shape is the mutually-exclusive storage shape of a component kind.
// SingleFrame is not a Shape — it is an orthogonal flag on kindDef,
// composable with either Single or Multiple (spec §3: "Multiple and
// SingleFrame compose").
type Shape uint8

const (
	// Single permits at most one instance of the kind per entity.
	Single Shape = iota
	// Multiple permits zero or more instances per entity.
	Multiple
	// Singleton is a world-wide value, conceptually present on every
	// entity, never stored per-entity.
	Singleton
)

func (s Shape) String() string {
	switch s {
	case Single:
		return "Single"
	case Multiple:
		return "Multiple"
	case Singleton:
		return "Singleton"
	default:
		return "Unknown"
	}
}

// kindDef is the registry's manifest entry for one component kind.
type kindDef struct {
	typ         reflect.Type
	index       TypeIndex
	shape       Shape
	singleFrame bool
	checkClear  bool // only meaningful when singleFrame is true
	externalTag uuid.UUID
	newPool     func() pool // captures T via closure at Register[T] time
}

// RegisterOption configures a kind at registration time.
type RegisterOption func(*kindDef)

// AsSingleFrame marks the kind as single-frame: the core expects every
// instance to be bulk-cleared once per frame (spec §3, §4.7). It composes
// with Multiple; it is rejected on Singleton.
func AsSingleFrame() RegisterOption {
	return func(d *kindDef) { d.singleFrame = true; d.checkClear = true }
}

// NoCleanupCheck disables the single-frame checker for this kind. Use it
// for single-frame kinds a host clears through some mechanism the checker
// cannot see. Per SPEC_FULL.md's Open Question resolution, the kind's
// presence in the kind-present index is still maintained even with the
// check disabled.
func NoCleanupCheck() RegisterOption {
	return func(d *kindDef) { d.checkClear = false }
}

// ExternalTag attaches a stable external identifier to a kind, for hosts
// that need to correlate a registered kind with an entry in an external
// system (a save-file schema, a network wire format) without the core
// itself persisting anything. See SPEC_FULL.md §10.
func ExternalTag(id uuid.UUID) RegisterOption {
	return func(d *kindDef) { d.externalTag = id }
}

// Registry is the compile-time manifest of every component kind a World
// will know about. It is built once, before any World is constructed
// (spec §4.1, §6: "adding a new kind after world creation is not
// supported").
type Registry struct {
	byType []kindDef
	lookup map[reflect.Type]TypeIndex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{lookup: make(map[reflect.Type]TypeIndex, 16)}
}

// Tag returns the external uuid.UUID attached to the kind at idx via
// ExternalTag, or the zero UUID if none was attached. A host correlating a
// registered kind with an entry in an external system (a save-file schema,
// a network wire format) reads it back here (SPEC_FULL.md §10).
func (r *Registry) Tag(idx TypeIndex) uuid.UUID {
	return r.byType[idx].externalTag
}

// Register assigns T a dense TypeIndex and a storage shape. Registering
// the same type twice returns the existing Kind[T] unless the requested
// shape or single-frame flag conflicts with the first registration, in
// which case it panics: a manifest disagreeing with itself is a build-time
// programmer error, not a runtime failure a host should recover from.
func Register[T any](r *Registry, shape Shape, opts ...RegisterOption) Kind[T] {
	t := reflect.TypeFor[T]()
	if idx, ok := r.lookup[t]; ok {
		existing := r.byType[idx]
		requested := kindDef{shape: shape, checkClear: shape != Singleton}
		for _, opt := range opts {
			opt(&requested)
		}
		if requested.shape != existing.shape || requested.singleFrame != existing.singleFrame {
			panic(fmt.Sprintf("ecs: %s registered twice with conflicting categories", t))
		}
		return Kind[T]{index: idx}
	}
	if len(r.byType) >= MaxComponentKinds {
		panic(fmt.Sprintf("ecs: cannot register %s: maximum number of component kinds (%d) reached", t, MaxComponentKinds))
	}
	d := kindDef{typ: t, index: TypeIndex(len(r.byType)), shape: shape, checkClear: shape != Singleton}
	for _, opt := range opts {
		opt(&d)
	}
	if d.singleFrame && shape == Singleton {
		panic(fmt.Sprintf("ecs: %s: SingleFrame cannot combine with Singleton", t))
	}
	if shape != Singleton {
		shapeCopy, sfCopy := d.shape, d.singleFrame
		d.newPool = func() pool { return newTypedPool[T](shapeCopy, sfCopy) }
	}
	r.byType = append(r.byType, d)
	r.lookup[t] = d.index
	return Kind[T]{index: d.index}
}

// Kind is a typed, build-time handle to a registered component kind. It
// carries T as a phantom type parameter so call sites like Add[T] can be
// written without passing a Registry lookup at every call.
type Kind[T any] struct {
	index TypeIndex
}

// Index returns the kind's dense TypeIndex.
func (k Kind[T]) Index() TypeIndex {
	return k.index
}

// Tag returns the external uuid.UUID attached to the kind at registration
// time via ExternalTag, or the zero UUID if none was attached.
func (k Kind[T]) Tag(w *World) uuid.UUID {
	return w.registry.Tag(k.index)
}

// Ref erases T, producing a KindRef usable in Filter clauses that mix
// kinds of different types.
func (k Kind[T]) Ref(w *World) KindRef {
	return KindRef{index: k.index, shape: w.registry.byType[k.index].shape, multiple: w.registry.byType[k.index].shape == Multiple}
}

// Of looks up the Kind[T] for a type already registered on w's Registry.
// It panics if T was never registered — matching the teacher's GetID[T]
// convention of treating an unregistered type as a build-time programmer
// error, not a recoverable one.
func Of[T any](w *World) Kind[T] {
	t := reflect.TypeFor[T]()
	idx, ok := w.registry.lookup[t]
	if !ok {
		panic(fmt.Sprintf("ecs: component type %s not registered", t))
	}
	return Kind[T]{index: idx}
}

// KindRef is a type-erased reference to a registered kind, used by Filter
// clauses (AllOf, AnyOf, Exclude) that take a mix of kinds.
type KindRef struct {
	index    TypeIndex
	shape    Shape
	multiple bool
}

// Tag returns the external uuid.UUID attached to the referenced kind at
// registration time via ExternalTag, or the zero UUID if none was attached.
func (k KindRef) Tag(w *World) uuid.UUID {
	return w.registry.Tag(k.index)
}
