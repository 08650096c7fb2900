package warden

// EntityID is a strictly monotonic, never-reused identifier. Zero is a
// valid id, assigned to the first entity created in a World.
type EntityID uint64

// Entity is a cheap-to-copy handle: a value pair of (world reference, id).
// It carries no ownership of component data; all state lives in the
// world's pools. Handles to destroyed entities remain structurally valid —
// see Destroy.
type Entity struct {
	world *World
	id    EntityID
}

// ID returns the entity's identifier.
func (e Entity) ID() EntityID {
	return e.id
}

// World returns the world this handle belongs to.
func (e Entity) World() *World {
	return e.world
}

// Destroy removes every component this entity holds, across every pool
// that has an entry for it. The identifier is never reused: a subsequent
// Add on the same handle succeeds and effectively revives the entity under
// the same id. This is deliberate: stale handles stay safe to use.
func (e Entity) Destroy() {
	w := e.world
	if int(e.id) >= len(w.entityMasks) {
		return
	}
	mask := w.entityMasks[e.id]
	mask.forEach(func(idx TypeIndex) bool {
		p := w.pools[idx]
		p.removeEntity(e.id)
		w.syncPresent(idx, p)
		return true
	})
	w.entityMasks[e.id] = bitmask256{}
	w.mutationVersion++
}

// hasAny reports whether the entity's membership mask has any bit set,
// i.e. whether it currently holds at least one component.
func (e Entity) hasAny() bool {
	if int(e.id) >= len(e.world.entityMasks) {
		return false
	}
	return !e.world.entityMasks[e.id].isZero()
}
