package warden

// Add inserts a component of type T onto e. For a Single kind it fails
// with AlreadyPresent if e already holds one; for a Multiple kind it
// always succeeds, adding one more instance (spec §4.3).
//
// If T was registered single-frame with its cleanup check enabled, Add
// also enforces the single-frame checker (spec §4.7): it fails with
// MissingCleanup if no bulk-remove system clears this kind.
func Add[T any](e Entity, v T) error {
	w := e.world
	k := Of[T](w)
	if w.checkerRun && w.checkMask.has(k.index) && !w.clearedMask.has(k.index) {
		return newError(MissingCleanup, "single-frame kind has no bulk-remove system clearing it")
	}
	p := poolFor(w, k)
	if err := p.insert(e.id, v); err != nil {
		return err
	}
	w.entityMasks[e.id].set(k.index)
	w.syncPresent(k.index, p)
	w.mutationVersion++
	return nil
}

// Get returns the value of a Single kind on e, or a Missing error if
// absent (spec §4.3).
func Get[T any](e Entity) (T, error) {
	w := e.world
	k := Of[T](w)
	p := poolFor(w, k)
	v, ok := p.get(e.id)
	if !ok {
		var zero T
		return zero, newError(Missing, "entity %d has no instance of this kind", e.id)
	}
	return *v, nil
}

// GetOpt returns the value of a Single kind on e and whether it was
// present, never failing (spec §4.3, §7: "the only variant that downgrades
// Missing to an absent-marker").
func GetOpt[T any](e Entity) (T, bool) {
	w := e.world
	k := Of[T](w)
	p := poolFor(w, k)
	v, ok := p.get(e.id)
	if !ok {
		var zero T
		return zero, false
	}
	return *v, true
}

// GetPtr returns a direct pointer to the stored slot for a Single kind on
// e. Its validity is bounded by the next mutation that could reuse the
// slot — removing any entity's instance of this kind may free the slot for
// reuse, and growth may relocate the backing array (spec §4.3, §5, §9).
func GetPtr[T any](e Entity) (*T, bool) {
	w := e.world
	k := Of[T](w)
	p := poolFor(w, k)
	return p.get(e.id)
}

// Set upserts a Single kind on e: inserts if absent, overwrites if
// present (spec §4.3).
func Set[T any](e Entity, v T) {
	w := e.world
	k := Of[T](w)
	p := poolFor(w, k)
	p.upsert(e.id, v)
	w.entityMasks[e.id].set(k.index)
	w.syncPresent(k.index, p)
	w.mutationVersion++
}

// Update overwrites a Single kind already present on e, failing with
// Missing if absent (spec §4.3).
func Update[T any](e Entity, v T) error {
	w := e.world
	k := Of[T](w)
	p := poolFor(w, k)
	if err := p.overwrite(e.id, v); err != nil {
		return err
	}
	w.mutationVersion++
	return nil
}

// Remove clears every instance of T on e. For a Single kind this removes
// the (at most one) instance; for a Multiple kind it removes all of them
// at once (spec §4.2, §4.3). Removing an absent kind is a no-op.
func Remove[T any](e Entity) {
	w := e.world
	k := Of[T](w)
	p := poolFor(w, k)
	p.removeEntity(e.id)
	if !p.has(e.id) {
		w.entityMasks[e.id].unset(k.index)
	}
	w.syncPresent(k.index, p)
	w.mutationVersion++
}

// RemoveOne always fails with MultipleNotRemovable: the core does not
// support removing a single instance out of several on a Multiple kind,
// only removing all of them via Remove (spec §7).
func RemoveOne[T any](e Entity) error {
	w := e.world
	k := Of[T](w)
	p := poolFor(w, k)
	return p.removeOne(e.id)
}

// Replace removes OldT (which must be present) and adds NewT, equivalent
// in observable state to Remove[OldT](e); Add[NewT](e, v) (spec §4.3, §8
// invariant 8).
func Replace[OldT, NewT any](e Entity, v NewT) error {
	if _, err := Get[OldT](e); err != nil {
		return err
	}
	Remove[OldT](e)
	return Add[NewT](e, v)
}

// SetSingleton stores the world-wide value for a Singleton kind. Unlike
// Single/Multiple kinds, a Singleton is not entity-indexed: there is
// exactly one value, logically readable from every entity once set
// (spec §3, §4.3).
func SetSingleton[T any](w *World, v T) {
	k := Of[T](w)
	box := v
	w.singletons[k.index] = &box
}

// GetSingleton returns the world-wide value for a Singleton kind and
// whether it has been set.
func GetSingleton[T any](w *World) (T, bool) {
	k := Of[T](w)
	if w.singletons[k.index] == nil {
		var zero T
		return zero, false
	}
	return *(w.singletons[k.index].(*T)), true
}
