// Package web serves the loan admin pages and the small JSON API used by the
// browser for push subscriptions and the activity feed.
package web

import (
	"context"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"prestamos-admin/internal/events"
	"prestamos-admin/internal/form"
	"prestamos-admin/internal/model"
	"prestamos-admin/internal/store"
)

// LoanAPI is the part of the upstream client the handlers call.
type LoanAPI interface {
	ListLoans(ctx context.Context) ([]model.Loan, error)
	GetLoan(ctx context.Context, code string) (*model.Loan, error)
	CreateLoan(ctx context.Context, in model.LoanInput) (*model.Loan, error)
	UpdateLoan(ctx context.Context, code string, in model.LoanInput) (*model.Loan, error)
	UpdateLoanStatus(ctx context.Context, code string, in model.StatusUpdate) (*model.Loan, error)
	DeleteLoan(ctx context.Context, code string) error
	CreateEquipment(ctx context.Context, in model.EquipmentInput) (*model.Equipment, error)
}

// EquipmentCatalog serves the equipment list, possibly from a cache.
type EquipmentCatalog interface {
	Equipment(ctx context.Context) ([]model.Equipment, error)
	Refresh(ctx context.Context) ([]model.Equipment, error)
}

// Handler holds shared dependencies for the page and API handlers.
type Handler struct {
	api     LoanAPI
	catalog EquipmentCatalog
	bus     *events.Bus
	store   store.Store
	webpush *webpush.Options
	today   func() string
}

// NewHandler creates a new handler. bus may be nil. Without a store s the
// subscription and activity endpoints answer 503. webpushOptions is nil when
// push notifications are disabled.
func NewHandler(api LoanAPI, catalog EquipmentCatalog, bus *events.Bus, s store.Store, webpushOptions *webpush.Options) *Handler {
	if bus == nil {
		bus = events.NewBus()
	}
	return &Handler{
		api:     api,
		catalog: catalog,
		bus:     bus,
		store:   s,
		webpush: webpushOptions,
		today:   form.Today,
	}
}

// requireStore answers 503 and reports false when no local database is
// configured.
func (h *Handler) requireStore(c *gin.Context) bool {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "local database is not configured"})
		return false
	}
	return true
}
