package warden

// pool is the type-erased face every typedPool[T] presents to the World,
// so World.pools can be a single slice indexed by TypeIndex without the
// World itself being generic. Operations that need T (Get, insert, …) are
// free functions that type-assert back to *typedPool[T].
type pool interface {
	removeEntity(id EntityID)
	has(id EntityID) bool
	liveCount() int
	clearAll()
	shape() Shape
	isSingleFrame() bool
	forEachEntity(visit func(EntityID) bool)
}

// typedPool is the per-kind storage described in spec §3/§4.2: a dense
// array of values, a sparse entity→slot map, a free-slot list (Single,
// non-single-frame only), and a reverse slot→entity index folded into
// denseEntity. Multiple kinds thread a per-entity linked list through
// next; SingleFrame kinds never reuse a freed slot until clearAll.
type typedPool[T any] struct {
	dense       []T
	denseEntity []EntityID
	tombstone   []bool
	next        []int32 // Multiple: per-slot link to the next node of the same entity's list, -1 terminates. Single: unused.
	sparseHead  map[EntityID]int32
	freeHead    int32 // Single, non-SingleFrame only: head of the intrusive free-slot chain, -1 if empty.
	live        int
	shapeV      Shape
	singleFrame bool
}

func newTypedPool[T any](shape Shape, singleFrame bool) *typedPool[T] {
	return &typedPool[T]{
		sparseHead:  make(map[EntityID]int32),
		freeHead:    -1,
		shapeV:      shape,
		singleFrame: singleFrame,
	}
}

func (p *typedPool[T]) shape() Shape       { return p.shapeV }
func (p *typedPool[T]) isSingleFrame() bool { return p.singleFrame }
func (p *typedPool[T]) liveCount() int      { return p.live }

func (p *typedPool[T]) has(id EntityID) bool {
	slot, ok := p.sparseHead[id]
	return ok && !p.tombstone[slot]
}

// popFree pops a slot off the intrusive free-slot chain, or appends a new
// one if the chain is empty. Only used by Single, non-single-frame pools.
func (p *typedPool[T]) popFree(zero T) int32 {
	if p.freeHead != -1 {
		slot := p.freeHead
		p.freeHead = p.next[slot]
		return slot
	}
	p.dense = append(p.dense, zero)
	p.denseEntity = append(p.denseEntity, 0)
	p.tombstone = append(p.tombstone, false)
	p.next = append(p.next, -1)
	return int32(len(p.dense) - 1)
}

// insert implements spec §4.2 insert: allocates a slot, writes value,
// updates the sparse map. Fails AlreadyPresent for Single if the entity
// already holds this kind.
func (p *typedPool[T]) insert(id EntityID, v T) error {
	switch p.shapeV {
	case Single:
		if p.has(id) {
			return newError(AlreadyPresent, "entity %d already holds this kind", id)
		}
		var slot int32
		if p.singleFrame {
			slot = int32(len(p.dense))
			p.dense = append(p.dense, v)
			p.denseEntity = append(p.denseEntity, id)
			p.tombstone = append(p.tombstone, false)
			p.next = append(p.next, -1)
		} else {
			var zero T
			slot = p.popFree(zero)
			p.dense[slot] = v
			p.denseEntity[slot] = id
			p.tombstone[slot] = false
		}
		p.sparseHead[id] = slot
		p.live++
		return nil
	case Multiple:
		slot := int32(len(p.dense))
		prevHead, hadPrev := p.sparseHead[id]
		p.dense = append(p.dense, v)
		p.denseEntity = append(p.denseEntity, id)
		p.tombstone = append(p.tombstone, false)
		if hadPrev {
			p.next = append(p.next, prevHead)
		} else {
			p.next = append(p.next, -1)
		}
		p.sparseHead[id] = slot
		p.live++
		return nil
	default:
		panic("ecs: insert is not defined for Singleton pools")
	}
}

// overwrite implements spec §4.2 overwrite: Single only, requires
// presence, overwrites the value in place.
func (p *typedPool[T]) overwrite(id EntityID, v T) error {
	if p.shapeV != Single {
		return newError(MultipleNotRemovable, "update requires a Single kind")
	}
	slot, ok := p.sparseHead[id]
	if !ok || p.tombstone[slot] {
		return newError(Missing, "entity %d has no instance of this kind", id)
	}
	p.dense[slot] = v
	return nil
}

// upsert implements spec §4.2 upsert: insert if absent, overwrite if
// present.
func (p *typedPool[T]) upsert(id EntityID, v T) {
	if p.has(id) {
		_ = p.overwrite(id, v)
		return
	}
	_ = p.insert(id, v)
}

// get returns a pointer to the stored value for id, Single kinds only.
func (p *typedPool[T]) get(id EntityID) (*T, bool) {
	slot, ok := p.sparseHead[id]
	if !ok || p.tombstone[slot] {
		return nil, false
	}
	return &p.dense[slot], true
}

// removeEntity implements spec §4.2 remove for every shape: Single
// releases the slot to the free list (or tombstones it, for single-frame
// pools, leaving reclamation to clearAll); Multiple walks the per-entity
// list and tombstones every node. Idempotent: removing an absent entity is
// a no-op.
func (p *typedPool[T]) removeEntity(id EntityID) {
	switch p.shapeV {
	case Single:
		slot, ok := p.sparseHead[id]
		if !ok || p.tombstone[slot] {
			return
		}
		p.tombstone[slot] = true
		delete(p.sparseHead, id)
		if !p.singleFrame {
			p.next[slot] = p.freeHead
			p.freeHead = slot
		}
		p.live--
	case Multiple:
		slot, ok := p.sparseHead[id]
		if !ok {
			return
		}
		for slot != -1 {
			if !p.tombstone[slot] {
				p.tombstone[slot] = true
				p.live--
			}
			slot = p.next[slot]
		}
		delete(p.sparseHead, id)
	}
}

// removeOne always fails: the core only supports removing every instance
// of a Multiple kind at once (spec §7, MultipleNotRemovable).
func (p *typedPool[T]) removeOne(id EntityID) error {
	return newError(MultipleNotRemovable, "Multiple kinds only support removing every instance at once")
}

// clearAll implements the SingleFrame fast path: truncate the dense
// array, drop the sparse map, and reset the free chain. A no-op on
// non-single-frame pools.
func (p *typedPool[T]) clearAll() {
	if !p.singleFrame {
		return
	}
	p.dense = p.dense[:0]
	p.denseEntity = p.denseEntity[:0]
	p.tombstone = p.tombstone[:0]
	p.next = p.next[:0]
	for k := range p.sparseHead {
		delete(p.sparseHead, k)
	}
	p.freeHead = -1
	p.live = 0
}

// forEachSlot visits every live (non-tombstoned) slot in dense-array
// order, yielding (entity, slot index).
func (p *typedPool[T]) forEachSlot(visit func(EntityID, int) bool) {
	for i := range p.dense {
		if p.tombstone[i] {
			continue
		}
		if !visit(p.denseEntity[i], i) {
			return
		}
	}
}

// forEachEntity is forEachSlot without the slot index, used by the Filter
// engine which never needs T to decide membership.
func (p *typedPool[T]) forEachEntity(visit func(EntityID) bool) {
	for i := range p.denseEntity {
		if p.tombstone[i] {
			continue
		}
		if !visit(p.denseEntity[i]) {
			return
		}
	}
}
