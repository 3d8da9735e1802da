package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"prestamos-admin/internal/events"
	"prestamos-admin/internal/model"
)

const journalWriteTimeout = 5 * time.Second

// Journal records every data-changed event as an Activity row.
type Journal struct {
	store Store
}

// NewJournal creates a journal writing to s.
func NewJournal(s Store) *Journal {
	return &Journal{store: s}
}

// HandleEvent is an events.Handler. Write failures are logged only: the
// mutation already succeeded upstream.
func (j *Journal) HandleEvent(e events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
	defer cancel()

	activity := ActivityFromEvent(e)
	if err := j.store.RecordActivity(ctx, activity); err != nil {
		log.Printf("Error recording activity for %s %s: %v", e.Kind, e.Code, err)
	}
}

// ActivityFromEvent builds the journal row for e.
func ActivityFromEvent(e events.Event) *model.Activity {
	createdAt := e.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &model.Activity{
		ID:         uuid.NewString(),
		Kind:       string(e.Kind),
		EntityCode: e.Code,
		Summary:    summarize(e),
		RequestID:  e.RequestID,
		CreatedAt:  createdAt,
	}
}

func summarize(e events.Event) string {
	switch e.Kind {
	case events.EquipmentCreated:
		if e.Equipment != nil {
			return fmt.Sprintf("Equipo %s registrado: %s", e.Code, e.Equipment.Nombre)
		}
		return fmt.Sprintf("Equipo %s registrado", e.Code)
	case events.LoanCreated:
		if e.Loan != nil {
			return fmt.Sprintf("Préstamo %s registrado para %s", e.Code, e.Loan.Solicitante)
		}
		return fmt.Sprintf("Préstamo %s registrado", e.Code)
	case events.LoanUpdated:
		return fmt.Sprintf("Préstamo %s actualizado", e.Code)
	case events.LoanStatusChanged:
		if e.Loan != nil {
			return fmt.Sprintf("Préstamo %s cambió a %s", e.Code, e.Loan.Estado)
		}
		return fmt.Sprintf("Préstamo %s cambió de estado", e.Code)
	case events.LoanDeleted:
		return fmt.Sprintf("Préstamo %s eliminado", e.Code)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Code)
}
