package warden

import "reflect"

// MaxEventTypes defines the maximum number of unique event types that can be
// registered in the EventBus. This value is fixed at 256.
const MaxEventTypes = 256

// EventBus decouples one System from another without either holding a
// reference to the other: a collision System can Publish a Damage event
// that a health System, elsewhere in the same or a different Systems
// Group, Subscribed to at Init (spec §11 supplement). Events are not
// component kinds — they are never filtered, never pooled, never subject
// to the single-frame checker — so EventBus keeps its own
// `reflect.Type → id` allocator, independent of the Registry's TypeIndex
// space.
//
// Publish is allocation-free once every subscribed type has fired at least
// once.
type EventBus struct {
	eventTypeMap    map[reflect.Type]uint8
	handlers        [MaxEventTypes][]interface{}
	nextEventTypeID uint8
}

// Subscribe registers handler to be called, in subscription order, every
// time an event of type T is Published. It fails with EventTypeOverflow
// once the bus has already allocated MaxEventTypes distinct event types —
// a fixed ceiling, not a growable map, so Publish's per-type lookup stays
// a constant-size array index.
func Subscribe[T any](bus *EventBus, handler func(T)) error {
	t := reflect.TypeFor[T]()
	id, err := bus.getEventTypeID(t)
	if err != nil {
		return err
	}
	if cap(bus.handlers[id]) == 0 {
		bus.handlers[id] = make([]interface{}, 0, 4)
	}
	bus.handlers[id] = append(bus.handlers[id], handler)
	return nil
}

// Publish calls every handler subscribed to T, synchronously, in
// subscription order. An event type nobody has subscribed to is a no-op,
// not an error — a System publishing Damage before any health System has
// run Init is a normal startup ordering, not a misuse.
func Publish[T any](bus *EventBus, event T) {
	t := reflect.TypeFor[T]()
	if id, ok := bus.eventTypeMap[t]; ok {
		hs := bus.handlers[id]
		for _, h := range hs {
			h.(func(T))(event)
		}
	}
}

// getEventTypeID returns the id already assigned to t, or allocates the
// next one. Unlike Registry.Register, which panics on exhausting
// MaxComponentKinds as a build-time manifest error, event types are
// allocated lazily as Subscribe calls run — exhaustion here is a runtime
// condition a host can legitimately hit and recover from, so it is
// reported rather than panicked.
func (bus *EventBus) getEventTypeID(t reflect.Type) (uint8, error) {
	if bus.eventTypeMap == nil {
		bus.eventTypeMap = make(map[reflect.Type]uint8)
	}
	if id, ok := bus.eventTypeMap[t]; ok {
		return id, nil
	}
	if len(bus.eventTypeMap) >= MaxEventTypes {
		return 0, newError(EventTypeOverflow, "cannot subscribe %s: maximum number of event types (%d) reached", t, MaxEventTypes)
	}
	id := bus.nextEventTypeID
	bus.nextEventTypeID++
	bus.eventTypeMap[t] = id
	return id, nil
}
