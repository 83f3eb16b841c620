package lens

import (
	"encoding/json"
	"fmt"
	"log"
)

// EventType names a category of event on a Dispatcher.
type EventType string

// EventOffsetChanged is published when camera movement changes the world
// offset. Its payload is an OffsetChanged value.
const EventOffsetChanged EventType = "offsetChanged"

// Event is a typed message with an arbitrary payload.
type Event struct {
	Type EventType
	Data any
}

// Listener receives dispatched events.
type Listener interface {
	HandleEvent(e Event)
}

// Dispatcher routes events to listeners subscribed per event type. It is a
// minimal, synchronous bridge: Dispatch calls every listener before
// returning. Not safe for concurrent use; drive it from the thread that
// owns the game loop.
type Dispatcher struct {
	listeners map[EventType][]Listener
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[EventType][]Listener)}
}

// Subscribe registers a listener for the given event type.
func (d *Dispatcher) Subscribe(t EventType, l Listener) {
	d.listeners[t] = append(d.listeners[t], l)
}

// Unsubscribe removes a previously registered listener. Removing a listener
// that was never subscribed is a no-op.
func (d *Dispatcher) Unsubscribe(t EventType, l Listener) {
	listeners := d.listeners[t]
	for i, existing := range listeners {
		if existing == l {
			d.listeners[t] = append(listeners[:i], listeners[i+1:]...)
			return
		}
	}
}

// Dispatch delivers e to every listener subscribed to its type, in
// subscription order. Delivery runs over a snapshot, so a listener may
// unsubscribe itself (or others) while handling an event without skipping
// the remaining listeners.
func (d *Dispatcher) Dispatch(e Event) {
	registered := d.listeners[e.Type]
	snapshot := make([]Listener, len(registered))
	copy(snapshot, registered)
	for _, l := range snapshot {
		l.HandleEvent(e)
	}
}

// OffsetChanged is the wire shape of a camera-offset-changed message. This
// struct is the only serialized contract at the event boundary; producers
// outside this package marshal it to JSON and consumers unmarshal it back.
type OffsetChanged struct {
	// Offset is the new world offset (x, y).
	Offset [2]float64 `json:"offset"`
	// ScreenCenter is the screen center in pixels, for reference.
	ScreenCenter [2]int `json:"screenCenter"`
	// Source identifies the camera or system that produced the change.
	Source string `json:"source"`
	// PreviousOffset carries the prior offset for delta calculations.
	// Omitted when unknown.
	PreviousOffset *[2]float64 `json:"previousOffset,omitempty"`
}

// MarshalOffsetChanged encodes the event payload to its JSON wire form.
func MarshalOffsetChanged(e OffsetChanged) ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalOffsetChanged decodes the JSON wire form of an offset change.
func UnmarshalOffsetChanged(data []byte) (OffsetChanged, error) {
	var e OffsetChanged
	if err := json.Unmarshal(data, &e); err != nil {
		return OffsetChanged{}, fmt.Errorf("lens: parse offset change: %w", err)
	}
	return e, nil
}

// registryBridge feeds OffsetChanged events into a Registry.
type registryBridge struct {
	registry *Registry
}

// HandleEvent applies an offset change to the registry's active
// transformer. Events of other types or with an unexpected payload are
// logged and dropped; they never propagate to the dispatcher.
func (b *registryBridge) HandleEvent(e Event) {
	if e.Type != EventOffsetChanged {
		return
	}
	change, ok := e.Data.(OffsetChanged)
	if !ok {
		log.Printf("lens: dropping %s event with payload %T", e.Type, e.Data)
		return
	}
	b.registry.SetCameraOffset(Vec2{X: change.Offset[0], Y: change.Offset[1]})
}

// BindRegistry subscribes r to offset-changed events on d, so camera
// movement published as events reaches the active transformer without the
// publisher knowing about the registry. The returned listener can be passed
// to Unsubscribe to sever the bridge.
func BindRegistry(d *Dispatcher, r *Registry) Listener {
	bridge := &registryBridge{registry: r}
	d.Subscribe(EventOffsetChanged, bridge)
	return bridge
}
