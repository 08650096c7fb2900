package warden

// World owns the entity-id counter, the set of pools (one per registered
// component kind), the per-entity membership masks that back filter
// matching, and the kind-present index consulted by component_exists?
// and the single-frame checker.
type World struct {
	registry        *Registry
	pools           []pool
	singletons      []any
	entityMasks     []bitmask256
	kindLiveCount   []int32
	nextID          EntityID
	mutationVersion uint64
	singleFrameMask bitmask256 // every kind registered SingleFrame, regardless of checkClear; what ClearSingleFrame walks
	checkMask       bitmask256 // subset of singleFrameMask with checkClear=true; what the Add-time checker walks
	clearedMask     bitmask256 // single-frame kinds a bulk-remove system clears, filled by (*SystemsGroup).Init
	checkerRun      bool
	resources       *Resources
}

// NewWorld constructs a World from a fully-populated Registry. The
// Registry is consulted once, here, to allocate one pool per registered
// kind; registering a new kind after this call is not supported (spec §6).
func NewWorld(r *Registry) *World {
	w := &World{
		registry:      r,
		pools:         make([]pool, len(r.byType)),
		singletons:    make([]any, len(r.byType)),
		kindLiveCount: make([]int32, len(r.byType)),
		resources:     &Resources{},
	}
	for _, d := range r.byType {
		if d.shape != Singleton {
			w.pools[d.index] = d.newPool()
		}
		if d.shape != Singleton && d.singleFrame {
			w.singleFrameMask.set(d.index)
			if d.checkClear {
				w.checkMask.set(d.index)
			}
		}
	}
	return w
}

// Resources returns the world's resource manager, a typed key-value store
// for globals that are not per-entity data (spec §11 supplement).
func (w *World) Resources() *Resources {
	return w.resources
}

// newEntityID allocates the next strictly increasing identifier. Per
// spec §1/§9, identifiers are never recycled — there is no free list here,
// unlike the per-kind pools.
func (w *World) newEntityID() EntityID {
	id := w.nextID
	w.nextID++
	w.entityMasks = append(w.entityMasks, bitmask256{})
	return id
}

// NewEntity creates a new entity with no components and returns its
// handle. Identifiers are strictly increasing and never reused (spec §8,
// invariant 1).
func (w *World) NewEntity() Entity {
	id := w.newEntityID()
	return Entity{world: w, id: id}
}

// EachEntity visits every entity ever created, in id order, regardless of
// which components (if any) it currently holds. visit returning false
// stops the walk early.
func (w *World) EachEntity(visit func(Entity) bool) {
	for id := EntityID(0); id < w.nextID; id++ {
		if !visit(Entity{world: w, id: id}) {
			return
		}
	}
}

// DeleteAll removes every component from every entity. Identifiers
// continue to advance from wherever the counter was — the counter is not
// reset (spec §9 Open Question, resolved in SPEC_FULL.md §12).
func (w *World) DeleteAll() {
	for id := EntityID(0); id < w.nextID; id++ {
		mask := w.entityMasks[id]
		if mask.isZero() {
			continue
		}
		mask.forEach(func(idx TypeIndex) bool {
			w.pools[idx].removeEntity(id)
			return true
		})
		w.entityMasks[id] = bitmask256{}
	}
	for i := range w.kindLiveCount {
		w.kindLiveCount[i] = 0
	}
	w.mutationVersion++
}

// ComponentExists reports whether any entity currently holds an instance
// of the given kind. Backed by the kind-present index, O(1) (spec §4.5).
func ComponentExists[T any](w *World) bool {
	idx := Of[T](w).index
	return w.kindLiveCount[idx] > 0
}

// ClearSingleFrame invokes clearAll on every pool registered as
// SingleFrame, regardless of whether a bulk-remove system exists for it.
// A host may call this directly instead of wiring remove_single_frame
// members into the Systems Group (spec §4.5, §6).
func (w *World) ClearSingleFrame() {
	w.singleFrameMask.forEach(func(idx TypeIndex) bool {
		before := w.kindLiveCount[idx]
		w.clearPool(idx)
		if before > 0 {
			w.mutationVersion++
		}
		return true
	})
}

// clearPool unsets idx's membership bit on every entity the pool currently
// holds, then bulk-clears the pool itself. Mask bits must be dropped before
// the pool forgets which entities held them — clearAll truncates the dense
// storage a forEachEntity walk depends on.
func (w *World) clearPool(idx TypeIndex) {
	p := w.pools[idx]
	p.forEachEntity(func(id EntityID) bool {
		w.entityMasks[id].unset(idx)
		return true
	})
	p.clearAll()
	w.kindLiveCount[idx] = 0
}

// syncPresent refreshes the kind-present counter for idx from the pool's
// own live count, lazily maintaining the presence index described in
// spec §4.5: present once any instance exists, absent again once the last
// one is removed.
func (w *World) syncPresent(idx TypeIndex, p pool) {
	w.kindLiveCount[idx] = int32(p.liveCount())
}

// poolFor returns the typed pool for T. Every registered kind's pool is
// constructed up front in NewWorld (spec §4.1: the Registry is the single
// source of truth consulted "at construction to allocate pools"), so this
// is a plain type assertion, not a lazy allocation.
func poolFor[T any](w *World, k Kind[T]) *typedPool[T] {
	return w.pools[k.index].(*typedPool[T])
}
