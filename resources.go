package warden

import "reflect"

// Resources is the world's store for globals that are not per-entity data —
// a type-keyed slot table, one slot per concrete type, consulted by
// GetResource/HasResource (spec §11 supplement). Unlike a component pool it
// is not indexed by kind at registration time: any type can be slotted in
// with Add, the first time it is used.
type Resources struct {
	items   []any
	types   map[reflect.Type]int
	freeIds []int
}

// Add inserts res and returns its slot ID. It fails with AlreadyPresent if a
// resource of the same concrete type is already stored — Resources is a
// one-instance-per-type table, the Singleton rule of §3 applied to globals
// that live outside the Registry. Reuses a freed ID before growing the
// backing slice.
func (r *Resources) Add(res any) (int, error) {
	if res == nil {
		panic("ecs: cannot add a nil resource")
	}
	t := reflect.TypeOf(res)
	if r.types == nil {
		r.types = make(map[reflect.Type]int)
	}
	if _, ok := r.types[t]; ok {
		return -1, newError(AlreadyPresent, "resource of type %s already stored", t)
	}
	var id int
	if len(r.freeIds) > 0 {
		id = r.freeIds[len(r.freeIds)-1]
		r.freeIds = r.freeIds[:len(r.freeIds)-1]
		r.items[id] = res
	} else {
		r.items = append(r.items, res)
		id = len(r.items) - 1
	}
	r.types[t] = id
	return id, nil
}

// Has checks if a resource with the given ID exists.
func (r *Resources) Has(id int) bool {
	return id >= 0 && id < len(r.items) && r.items[id] != nil
}

// Get retrieves the resource by ID, or nil if it doesn't exist.
func (r *Resources) Get(id int) any {
	if !r.Has(id) {
		return nil
	}
	return r.items[id]
}

// Remove removes the resource by ID if it exists, marking the ID as free for reuse.
func (r *Resources) Remove(id int) {
	if !r.Has(id) {
		return
	}
	res := r.items[id]
	t := reflect.TypeOf(res)
	delete(r.types, t)
	r.items[id] = nil
	r.freeIds = append(r.freeIds, id)
}

// Clear removes all resources, resetting the free list.
func (r *Resources) Clear() {
	for i := range r.items {
		r.items[i] = nil
	}
	r.items = r.items[:0]
	clear(r.types)
	r.freeIds = r.freeIds[:0]
}

// HasResource checks whether a resource stored exactly as type T exists,
// returning true and its ID, or false and -1. T is the concrete type
// passed to Add — for a pointer-shaped resource that means T is the
// pointer type itself (HasResource[*Config], not HasResource[Config]).
func HasResource[T any](r *Resources) (bool, int) {
	t := reflect.TypeFor[T]()
	if id, ok := r.types[t]; ok {
		return true, id
	}
	return false, -1
}

// GetResource retrieves the resource stored as type T, returning it and its
// ID, or the zero value and -1 if absent. See HasResource for how T relates
// to the type originally passed to Add.
func GetResource[T any](r *Resources) (T, int) {
	t := reflect.TypeFor[T]()
	if id, ok := r.types[t]; ok {
		res := r.items[id].(T)
		return res, id
	}
	var zero T
	return zero, -1
}
