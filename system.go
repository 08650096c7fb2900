package warden

// Initializer is implemented by a System that needs one-time setup before
// the first Execute (spec §4.6).
type Initializer interface {
	Init(w *World)
}

// FilterProvider is implemented by a System bound to a Filter. The
// Systems Group caches whatever Filter is returned here at Init time and
// drives Process from it every Execute.
type FilterProvider interface {
	Filter(w *World) Filter
}

// Processor is implemented by a System that wants one call per entity
// matching its cached Filter, before its own Execute runs (spec §4.6,
// "process precedes execute within a member").
type Processor interface {
	Process(e Entity)
}

// Executor is implemented by a System that runs once per frame,
// independent of (or after) any per-entity Process calls.
type Executor interface {
	Execute()
}

// Teardowner is implemented by a System with shutdown cleanup, invoked
// once as the owning group tears down, in reverse declaration order.
type Teardowner interface {
	Teardown()
}

// Activatable is implemented by a System that wants runtime gating: when
// Active returns false the Systems Group skips its Process and Execute
// entirely for that frame. A member not implementing Activatable is
// always treated as active.
type Activatable interface {
	Active() bool
}

// bulkRemoveMarker is implemented by the built-in system RemoveSingleFrame
// produces, so the single-frame checker can recognize it inside an
// arbitrary, user-authored member list without knowing its type parameter.
type bulkRemoveMarker interface {
	clearedKind() TypeIndex
}

// bulkRemoveSystem is the built-in system `remove_single_frame(T)`
// expands to (spec §4.6): its Execute bulk-clears T's pool every frame.
type bulkRemoveSystem[T any] struct {
	world *World
}

// RemoveSingleFrame returns a System whose Execute bulk-clears T's pool
// through World.clearPool. Add it as a member of a Systems Group to satisfy the single-frame
// checker for kinds registered with AsSingleFrame() (spec §4.6, §4.7).
func RemoveSingleFrame[T any]() *bulkRemoveSystem[T] {
	return &bulkRemoveSystem[T]{}
}

func (s *bulkRemoveSystem[T]) Init(w *World) {
	s.world = w
}

func (s *bulkRemoveSystem[T]) Execute() {
	k := Of[T](s.world)
	if s.world.kindLiveCount[k.index] > 0 {
		s.world.mutationVersion++
	}
	s.world.clearPool(k.index)
}

func (s *bulkRemoveSystem[T]) clearedKind() TypeIndex {
	return Of[T](s.world).index
}
