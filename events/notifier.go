package events

import "log"

// Cart lifecycle notifications, named in before/after pairs around each
// mutating operation.
const (
	CartAdd       = "cart.add"
	CartAdded     = "cart.added"
	CartBatch     = "cart.batch"
	CartBatched   = "cart.batched"
	CartUpdate    = "cart.update"
	CartUpdated   = "cart.updated"
	CartRemove    = "cart.remove"
	CartRemoved   = "cart.removed"
	CartDestroy   = "cart.destroy"
	CartDestroyed = "cart.destroyed"
)

// Event is one fire-and-forget notification. Payload carries the
// operation's input plus resolved options.
type Event struct {
	Name    string         `json:"name"`
	Cart    string         `json:"cart"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Observer receives every emitted event.
type Observer func(Event)

// Notifier dispatches events synchronously to the registered observers.
// Observers are observational only: a panicking observer is recovered
// and logged and never affects the committed cart state.
type Notifier struct {
	observers []Observer
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer. Registration happens at startup;
// there is no unsubscribe.
func (n *Notifier) Subscribe(obs Observer) {
	n.observers = append(n.observers, obs)
}

// Emit delivers the event to every observer in registration order.
func (n *Notifier) Emit(evt Event) {
	for _, obs := range n.observers {
		n.dispatch(obs, evt)
	}
}

func (n *Notifier) dispatch(obs Observer, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ Observer panicked on %s: %v", evt.Name, r)
		}
	}()
	obs(evt)
}
