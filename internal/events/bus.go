// Package events carries the "data changed" notifications that follow a
// successful mutation, so caches, the activity journal and push
// notifications react without the forms knowing about them.
package events

import (
	"log"
	"sync"
	"time"

	"prestamos-admin/internal/model"
)

// Kind names what changed.
type Kind string

const (
	EquipmentCreated  Kind = "equipment.created"
	LoanCreated       Kind = "loan.created"
	LoanUpdated       Kind = "loan.updated"
	LoanStatusChanged Kind = "loan.status_changed"
	LoanDeleted       Kind = "loan.deleted"
)

// Event describes one successful mutation. Loan or Equipment is set
// depending on Kind; for LoanDeleted only Code is guaranteed.
type Event struct {
	Kind       Kind
	Code       string
	Loan       *model.Loan
	Equipment  *model.Equipment
	RequestID  string
	OccurredAt time.Time
}

// IsLoan reports whether the event concerns loans.
func (e Event) IsLoan() bool {
	return e.Kind != EquipmentCreated
}

// Handler reacts to an event. Handlers run synchronously in subscription
// order and must not block for long.
type Handler func(Event)

// Bus fans events out to its subscribers.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for every future event.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers e to every subscriber. A panicking handler is logged and
// does not stop delivery to the others.
func (b *Bus) Publish(e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		deliver(h, e)
	}
}

func deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event handler for %s panicked: %v", e.Kind, r)
		}
	}()
	h(e)
}
