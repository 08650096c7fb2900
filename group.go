package warden

// SystemsGroup owns an ordered list of member units, each either a System
// (identified structurally by the optional interfaces in system.go) or
// another *SystemsGroup. It drives time: one Init, repeated Execute, one
// Teardown (spec §4.6).
type SystemsGroup struct {
	members       []any
	cachedFilters []*Filter
	filterCache   map[uint64][]*filterCacheEntry
}

// filterCacheEntry is one Filter's last materialized match list, bucketed
// under its signatureHash. version is the world's mutationVersion at the
// time entities was built; a stale entry is recomputed, not trusted.
type filterCacheEntry struct {
	sig      Filter
	version  uint64
	entities []EntityID
}

// NewSystemsGroup builds a group from an ordered list of members. Members
// run in exactly this order, every Execute, forever (spec §5: "system
// execution follows declaration order").
func NewSystemsGroup(members ...any) *SystemsGroup {
	return &SystemsGroup{
		members:       members,
		cachedFilters: make([]*Filter, len(members)),
		filterCache:   make(map[uint64][]*filterCacheEntry),
	}
}

// Init recursively initializes every member in declaration order, caching
// the Filter any FilterProvider member returns, then — only because this
// is the call the host makes directly, never a nested group — runs the
// single-frame checker over the whole transitive member list (spec §4.6
// step 2, §4.7).
func (g *SystemsGroup) Init(w *World) {
	g.initRecursive(w)
	w.runSingleFrameChecker(g)
}

func (g *SystemsGroup) initRecursive(w *World) {
	for i, m := range g.members {
		if sub, ok := m.(*SystemsGroup); ok {
			sub.initRecursive(w)
			continue
		}
		if init, ok := m.(Initializer); ok {
			init.Init(w)
		}
		if fp, ok := m.(FilterProvider); ok {
			f := fp.Filter(w)
			g.cachedFilters[i] = &f
		}
	}
}

// collectClearedKinds walks the transitive member list gathering the
// kinds every bulkRemoveSystem clears, for the single-frame checker.
func (g *SystemsGroup) collectClearedKinds(out *bitmask256) {
	for _, m := range g.members {
		if sub, ok := m.(*SystemsGroup); ok {
			sub.collectClearedKinds(out)
			continue
		}
		if bm, ok := m.(bulkRemoveMarker); ok {
			out.set(bm.clearedKind())
		}
	}
}

// Execute runs every member once, in declaration order: skip if inactive,
// else Process each entity matching the member's cached Filter, then call
// its own Execute, then recurse into sub-groups (spec §4.6 step, §5:
// "process precedes execute within a member; members run strictly in
// declaration order; no parallelism").
func (g *SystemsGroup) Execute() {
	for i, m := range g.members {
		if a, ok := m.(Activatable); ok && !a.Active() {
			continue
		}
		if sub, ok := m.(*SystemsGroup); ok {
			sub.Execute()
			continue
		}
		if f := g.cachedFilters[i]; f != nil {
			if proc, ok := m.(Processor); ok {
				g.matchingEntities(f, func(e Entity) bool {
					proc.Process(e)
					return true
				})
			}
		}
		if ex, ok := m.(Executor); ok {
			ex.Execute()
		}
	}
}

// matchingEntities visits f's matches for this Execute, reusing the match
// list cached from a prior Execute when f's signature hashes to a bucket
// entry with the same signature and the world hasn't mutated since. A
// Filter carrying Select predicates is never cached — closures aren't
// comparable, so a cache entry keyed only on the mask signature couldn't
// be verified safe to reuse — f.Each runs directly instead.
func (g *SystemsGroup) matchingEntities(f *Filter, visit func(Entity) bool) {
	if len(f.selects) > 0 {
		f.Each(visit)
		return
	}
	key := f.signatureHash()
	bucket := g.filterCache[key]
	for _, entry := range bucket {
		if !entry.sig.sameSignature(*f) {
			continue
		}
		if entry.version != f.world.mutationVersion {
			entry.entities = entry.entities[:0]
			f.Each(func(e Entity) bool {
				entry.entities = append(entry.entities, e.id)
				return true
			})
			entry.version = f.world.mutationVersion
		}
		visitCached(f.world, entry.entities, visit)
		return
	}
	entry := &filterCacheEntry{sig: *f, version: f.world.mutationVersion}
	f.Each(func(e Entity) bool {
		entry.entities = append(entry.entities, e.id)
		return true
	})
	g.filterCache[key] = append(bucket, entry)
	visitCached(f.world, entry.entities, visit)
}

// visitCached replays a materialized match list, stopping early if visit
// returns false.
func visitCached(w *World, ids []EntityID, visit func(Entity) bool) {
	for _, id := range ids {
		if !visit(Entity{world: w, id: id}) {
			return
		}
	}
}

// Teardown tears down every member in reverse declaration order (spec
// §4.6).
func (g *SystemsGroup) Teardown() {
	for i := len(g.members) - 1; i >= 0; i-- {
		m := g.members[i]
		if sub, ok := m.(*SystemsGroup); ok {
			sub.Teardown()
			continue
		}
		if td, ok := m.(Teardowner); ok {
			td.Teardown()
		}
	}
}

// runSingleFrameChecker collects the kinds top's transitive system list
// clears and stores them as clearedMask; every subsequent Add then checks
// its kind against checkMask and clearedMask in O(1) (spec §4.7).
func (w *World) runSingleFrameChecker(top *SystemsGroup) {
	var cleared bitmask256
	top.collectClearedKinds(&cleared)
	w.clearedMask = cleared
	w.checkerRun = true
}
