// Package mailbox implements a single-slot, overwrite-on-write signalling
// primitive used to hand the latest value of a producer task to a single
// consumer task without queueing: a write never blocks on whatever the
// consumer hasn't read yet, it simply replaces it.
package mailbox

// Mailbox holds zero or one value of type T. Put never blocks and always
// leaves the box holding the most recently written value; Get blocks until
// a value is available. There is no history and no queueing: a consumer
// that is slower than its producer only ever observes the latest sample,
// by design.
type Mailbox[T any] struct {
	slot chan T
}

// New returns an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{slot: make(chan T, 1)}
}

// Put stores v, discarding whatever value was previously stored and not
// yet read.
func (m *Mailbox[T]) Put(v T) {
	for {
		select {
		case m.slot <- v:
			return
		default:
			// Slot full; drop the stale value and retry. A concurrent Get
			// may win the race and drain it first, which is fine: the
			// next iteration's send then succeeds immediately.
			select {
			case <-m.slot:
			default:
			}
		}
	}
}

// Get blocks until a value has been published, then returns it.
func (m *Mailbox[T]) Get() T {
	return <-m.slot
}

// TryGet returns the latest published value without blocking. ok is false
// if nothing has been published since the last Get/TryGet.
func (m *Mailbox[T]) TryGet() (v T, ok bool) {
	select {
	case v = <-m.slot:
		return v, true
	default:
		return v, false
	}
}
