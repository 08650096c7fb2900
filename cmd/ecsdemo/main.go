// Profiling:
// go build ./cmd/ecsdemo
// go tool pprof -http=":8000" -nodefraction=0.001 ./ecsdemo mem.pprof

package main

import (
	"log"

	"github.com/pkg/profile"
	"github.com/wardenecs/warden"
)

type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

type damageEvent struct {
	Amount int
}

type moveSystem struct {
	filter warden.Filter
}

func (s *moveSystem) Filter(w *warden.World) warden.Filter {
	f, err := w.NewFilter().AllOf(
		warden.Of[position](w).Ref(w),
		warden.Of[velocity](w).Ref(w),
	)
	if err != nil {
		log.Fatalf("move filter: %v", err)
	}
	return f
}

func (s *moveSystem) Process(e warden.Entity) {
	vel, _ := warden.Get[velocity](e)
	pos, _ := warden.GetPtr[position](e)
	pos.X += vel.X
	pos.Y += vel.Y
}

func main() {
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(50, 1000, 100000)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		reg := warden.NewRegistry()
		warden.Register[position](reg, warden.Single)
		warden.Register[velocity](reg, warden.Single)
		warden.Register[damageEvent](reg, warden.Multiple, warden.AsSingleFrame())

		w := warden.NewWorld(reg)
		group := warden.NewSystemsGroup(
			&moveSystem{},
			warden.RemoveSingleFrame[damageEvent](),
		)
		group.Init(w)

		for i := 0; i < numEntities; i++ {
			e := w.NewEntity()
			_ = warden.Add(e, position{})
			_ = warden.Add(e, velocity{X: 1, Y: 1})
		}

		for range iters {
			group.Execute()
		}
		group.Teardown()

		f, err := w.NewFilter().AllOf(warden.Of[position](w).Ref(w))
		if err != nil {
			log.Fatalf("count filter: %v", err)
		}
		log.Printf("positions alive: %d", f.Count())
	}
}
