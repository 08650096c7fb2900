package warden

import "math/bits"

// Filter is an immutable-after-configuration predicate over entities,
// composed of include-sets, an exclude-set, and user callbacks (spec
// §4.4). Each clause method returns a new Filter value rather than
// mutating the receiver, so a Filter already handed to a System keeps
// working even if the same chain is extended elsewhere (spec §9 Design
// Notes: "persistent structure where each clause call returns a new
// filter value").
//
// A Filter returned by World.NewFilter, with no clauses added, matches
// every entity ever created. The zero-value Filter has no World and cannot
// be iterated.
type Filter struct {
	world       *World
	allOfMask   bitmask256
	anyOfGroups []bitmask256
	excludeMask bitmask256
	selects     []func(Entity) bool
	multipleIdx TypeIndex
	hasMultiple bool
}

// NewFilter returns an empty Filter over w. Chain AllOf/AnyOf/Of/Exclude/
// Select to narrow it.
func (w *World) NewFilter() Filter {
	return Filter{world: w}
}

// noteInclude validates a kind being added to a required (all_of/any_of)
// clause: Singleton kinds are rejected outright (spec §4.4, "Filters over
// Singleton kinds are rejected at configuration"), and at most one
// Multiple kind may appear across every include clause of a Filter.
func (f Filter) noteInclude(k KindRef) (Filter, error) {
	if k.shape == Singleton {
		return f, newError(IllegalFilter, "Singleton kinds are not iterable")
	}
	if k.multiple {
		if f.hasMultiple && f.multipleIdx != k.index {
			return f, newError(IllegalFilter, "a filter may include at most one Multiple kind")
		}
		f.hasMultiple = true
		f.multipleIdx = k.index
	}
	return f, nil
}

// AllOf requires every kind in kinds to be present (spec §4.4). An empty
// call contributes no constraint.
func (f Filter) AllOf(kinds ...KindRef) (Filter, error) {
	for _, k := range kinds {
		var err error
		f, err = f.noteInclude(k)
		if err != nil {
			return f, err
		}
		f.allOfMask.set(k.index)
	}
	return f, nil
}

// AnyOf requires at least one kind in kinds to be present. Multiple AnyOf
// clauses AND together at the clause level (spec §4.4). An empty call
// contributes no constraint.
func (f Filter) AnyOf(kinds ...KindRef) (Filter, error) {
	if len(kinds) == 0 {
		return f, nil
	}
	var group bitmask256
	for _, k := range kinds {
		var err error
		f, err = f.noteInclude(k)
		if err != nil {
			return f, err
		}
		group.set(k.index)
	}
	f.anyOfGroups = append(f.anyOfGroups[:len(f.anyOfGroups):len(f.anyOfGroups)], group)
	return f, nil
}

// Of is sugar for AllOf with a single kind.
func (f Filter) Of(k KindRef) (Filter, error) {
	return f.AllOf(k)
}

// Exclude requires that none of the kinds in kinds be present (spec
// §4.4). Excluded kinds do not count towards the one-Multiple-kind limit.
func (f Filter) Exclude(kinds ...KindRef) (Filter, error) {
	for _, k := range kinds {
		if k.shape == Singleton {
			return f, newError(IllegalFilter, "Singleton kinds are not iterable")
		}
		f.excludeMask.set(k.index)
	}
	return f, nil
}

// Select appends a user predicate, evaluated last, after every other
// clause has matched (spec §4.4, §9: select never sees entities that
// failed a prior clause).
func (f Filter) Select(pred func(Entity) bool) Filter {
	f.selects = append(f.selects[:len(f.selects):len(f.selects)], pred)
	return f
}

// requiredMask is allOfMask plus every any_of group of cardinality one —
// a cardinality-one any_of clause is an unconditional requirement, and
// its pool is a driver candidate exactly like an all_of kind (spec §4.4:
// "the smallest include pool among the required-AND kinds (from all_of
// and singleton any_of clauses)"). disjunctive returns the remaining
// any_of groups, those with more than one kind.
func (f Filter) requiredMask() (required bitmask256, disjunctive []bitmask256) {
	required = f.allOfMask
	for _, g := range f.anyOfGroups {
		if g.popcount() == 1 {
			required[0] |= g[0]
			required[1] |= g[1]
			required[2] |= g[2]
			required[3] |= g[3]
		} else {
			disjunctive = append(disjunctive, g)
		}
	}
	return required, disjunctive
}

// matches evaluates every clause against e's current membership mask, in
// the order spec §4.4 defines: all_of/any_of conjunction, then exclude,
// then user predicates last.
func (f Filter) matches(e Entity) bool {
	mask := f.world.entityMasks[e.id]
	if !mask.contains(f.allOfMask) {
		return false
	}
	for _, g := range f.anyOfGroups {
		if !mask.intersects(g) {
			return false
		}
	}
	if mask.intersects(f.excludeMask) {
		return false
	}
	for _, sel := range f.selects {
		if !sel(e) {
			return false
		}
	}
	return true
}

// Each visits every matching entity. visit returning false stops the walk
// early. The iteration strategy follows spec §4.4: a forced Multiple-kind
// driver if the filter requires one (guaranteeing one visit per stored
// instance), else the smallest required-kind pool, else a deduplicated
// union over the smallest any_of disjunction, else every entity the world
// has ever created. A Multiple kind that appears only inside an any_of
// clause of two or more kinds does not force the driver.
func (f Filter) Each(visit func(Entity) bool) {
	w := f.world

	required, disjunctive := f.requiredMask()
	if f.hasMultiple && required.has(f.multipleIdx) {
		w.pools[f.multipleIdx].forEachEntity(func(id EntityID) bool {
			e := Entity{world: w, id: id}
			if !f.matches(e) {
				return true
			}
			return visit(e)
		})
		return
	}

	if !required.isZero() {
		driver := f.smallestPool(required)
		w.pools[driver].forEachEntity(func(id EntityID) bool {
			e := Entity{world: w, id: id}
			if !f.matches(e) {
				return true
			}
			return visit(e)
		})
		return
	}

	if len(disjunctive) > 0 {
		group := f.smallestGroup(disjunctive)
		seen := make(map[EntityID]bool)
		group.forEach(func(idx TypeIndex) bool {
			cont := true
			w.pools[idx].forEachEntity(func(id EntityID) bool {
				if seen[id] {
					return true
				}
				seen[id] = true
				e := Entity{world: w, id: id}
				if !f.matches(e) {
					return true
				}
				cont = visit(e)
				return cont
			})
			return cont
		})
		return
	}

	w.EachEntity(func(e Entity) bool {
		if !f.matches(e) {
			return true
		}
		return visit(e)
	})
}

// smallestPool returns the TypeIndex, among required's set bits, whose
// pool has the fewest live entries.
func (f Filter) smallestPool(required bitmask256) TypeIndex {
	w := f.world
	best := TypeIndex(0)
	bestCount := -1
	first := true
	required.forEach(func(idx TypeIndex) bool {
		c := w.pools[idx].liveCount()
		if first || c < bestCount {
			best, bestCount, first = idx, c, false
		}
		return true
	})
	return best
}

// smallestGroup returns, among a list of any_of groups, the one whose
// member pools have the smallest combined live count.
func (f Filter) smallestGroup(groups []bitmask256) bitmask256 {
	w := f.world
	best := groups[0]
	bestTotal := -1
	for _, g := range groups {
		total := 0
		g.forEach(func(idx TypeIndex) bool {
			total += w.pools[idx].liveCount()
			return true
		})
		if bestTotal == -1 || total < bestTotal {
			best, bestTotal = g, total
		}
	}
	return best
}

// signatureHash returns a digest of f's matching configuration — its
// include sets, exclude set, and forced-Multiple driver — for use as a
// cache key by a Systems Group caching match lists across Execute calls
// (group.go). Distinct Filters built from the same clauses in the same
// order hash identically; collisions across genuinely different Filters
// are possible (it's a 64-bit digest), so a cache keyed on it must still
// verify the full signature before trusting a hit.
func (f Filter) signatureHash() uint64 {
	h := f.allOfMask.hash()
	for i, g := range f.anyOfGroups {
		h ^= bits.RotateLeft64(g.hash(), i+1)
	}
	h ^= bits.RotateLeft64(f.excludeMask.hash(), 31)
	if f.hasMultiple {
		h ^= bits.RotateLeft64(uint64(f.multipleIdx)+1, 17)
	}
	return h
}

// sameSignature reports whether f and other share the same matching
// configuration, used to resolve a signatureHash collision before a
// cached match list is trusted.
func (f Filter) sameSignature(other Filter) bool {
	if f.allOfMask != other.allOfMask || f.excludeMask != other.excludeMask {
		return false
	}
	if f.hasMultiple != other.hasMultiple || f.multipleIdx != other.multipleIdx {
		return false
	}
	if len(f.anyOfGroups) != len(other.anyOfGroups) {
		return false
	}
	for i, g := range f.anyOfGroups {
		if g != other.anyOfGroups[i] {
			return false
		}
	}
	return true
}

// FindEntity returns the first matching entity, or the zero Entity and
// false if none match.
func (f Filter) FindEntity() (Entity, bool) {
	var found Entity
	ok := false
	f.Each(func(e Entity) bool {
		found, ok = e, true
		return false
	})
	return found, ok
}

// Count returns the number of matching entities without materializing
// them.
func (f Filter) Count() int {
	n := 0
	f.Each(func(Entity) bool {
		n++
		return true
	})
	return n
}
