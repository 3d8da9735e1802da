package web

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"prestamos-admin/internal/events"
	"prestamos-admin/internal/form"
	"prestamos-admin/internal/listing"
	"prestamos-admin/internal/model"
)

type loanFilter struct {
	Q      string `form:"q"`
	Estado string `form:"estado"`
}

type loansPage struct {
	page
	Filter    loanFilter
	Loans     []model.Loan
	Total     int
	LoadError string
	Form      form.LoanForm
	Errors    form.FieldErrors
	Equipment []model.Equipment
	Today     string
	Statuses  []model.Status
}

type loanPage struct {
	page
	Loan model.Loan
}

// ListLoans renders the loan page: the creation form and the filtered list.
func (h *Handler) ListLoans(c *gin.Context) {
	p := h.newLoansPage(c)
	p.Form = form.NewLoanForm(p.Today)
	h.renderLoans(c, http.StatusOK, p)
}

// CreateLoan validates the creation form and registers the loan.
func (h *Handler) CreateLoan(c *gin.Context) {
	p := h.newLoansPage(c)
	if err := c.ShouldBind(&p.Form); err != nil {
		p.Error = form.MsgFixErrors
		h.renderLoans(c, http.StatusBadRequest, p)
		return
	}
	p.Form.Estado = string(model.StatusSolicitado)
	p.Form.Comentario = ""

	// An unavailable catalog only skips the equipment existence check.
	equipment, err := h.catalog.Equipment(c.Request.Context())
	if err != nil {
		log.Printf("Error loading equipment for loan validation: %v", err)
	}

	p.Errors = p.Form.ValidateCreate(p.Today, equipment)
	if p.Errors["equipoCode"] == form.MsgEquipoUnknown {
		// The cached list may predate equipment registered by another client.
		if fresh, err := h.catalog.Refresh(c.Request.Context()); err == nil {
			p.Errors = p.Form.ValidateCreate(p.Today, fresh)
		}
	}
	if !p.Errors.Empty() {
		p.Error = form.MsgFixErrors
		h.renderLoans(c, http.StatusUnprocessableEntity, p)
		return
	}

	loan, err := h.api.CreateLoan(c.Request.Context(), p.Form.Input())
	if err != nil {
		var status int
		status, p.Error = failure(c, err)
		p.Errors = mergeFieldErrors(p.Errors, err)
		h.renderLoans(c, status, p)
		return
	}

	h.publish(c, events.Event{Kind: events.LoanCreated, Code: string(loan.Code), Loan: loan})
	redirectWithNotice(c, "/prestamos", "prestamo-creado")
}

// GetLoan renders the detail view of one loan.
func (h *Handler) GetLoan(c *gin.Context) {
	loan, err := h.api.GetLoan(c.Request.Context(), c.Param("code"))
	if err != nil {
		status, msg := failure(c, err)
		errorPage(c, status, msg)
		return
	}

	p := loanPage{page: newPage(c, "Detalles del Préstamo", "prestamos"), Loan: *loan}
	c.HTML(http.StatusOK, "loan.html", p)
}

// ConfirmDeleteLoan asks for confirmation before deleting.
func (h *Handler) ConfirmDeleteLoan(c *gin.Context) {
	loan, err := h.api.GetLoan(c.Request.Context(), c.Param("code"))
	if err != nil {
		status, msg := failure(c, err)
		errorPage(c, status, msg)
		return
	}

	p := loanPage{page: newPage(c, "Eliminar préstamo", "prestamos"), Loan: *loan}
	if !loan.Actionable() {
		p.Error = msgLoanFinished
		c.HTML(http.StatusConflict, "delete.html", p)
		return
	}
	c.HTML(http.StatusOK, "delete.html", p)
}

// DeleteLoan deletes a loan once confirmed. The list is fetched again on the
// redirect instead of being patched locally.
func (h *Handler) DeleteLoan(c *gin.Context) {
	code := c.Param("code")
	if c.PostForm("confirmar") != "si" {
		c.Redirect(http.StatusSeeOther, "/prestamos")
		return
	}

	loan, err := h.api.GetLoan(c.Request.Context(), code)
	if err != nil {
		status, msg := failure(c, err)
		errorPage(c, status, msg)
		return
	}

	p := loanPage{page: newPage(c, "Eliminar préstamo", "prestamos"), Loan: *loan}
	if !loan.Actionable() {
		p.Error = msgLoanFinished
		c.HTML(http.StatusConflict, "delete.html", p)
		return
	}

	if err := h.api.DeleteLoan(c.Request.Context(), code); err != nil {
		var status int
		status, p.Error = failure(c, err)
		if p.Error == msgUnreachable {
			p.Error = "No se pudo eliminar el préstamo"
		}
		c.HTML(status, "delete.html", p)
		return
	}

	h.publish(c, events.Event{Kind: events.LoanDeleted, Code: code, Loan: loan})
	redirectWithNotice(c, "/prestamos", "prestamo-eliminado")
}

func (h *Handler) newLoansPage(c *gin.Context) *loansPage {
	p := &loansPage{
		page:     newPage(c, "Préstamos", "prestamos"),
		Today:    h.today(),
		Statuses: model.Statuses,
	}
	if err := c.ShouldBindQuery(&p.Filter); err != nil {
		p.Filter = loanFilter{}
	}
	if p.Filter.Estado == "" {
		p.Filter.Estado = listing.StatusAll
	}
	return p
}

// renderLoans fetches the loans and the equipment options and renders the
// page. A failed fetch shows a banner in place of the list.
func (h *Handler) renderLoans(c *gin.Context, status int, p *loansPage) {
	ctx := c.Request.Context()

	loans, err := h.api.ListLoans(ctx)
	if err != nil {
		log.Printf("Error loading loans: %v", err)
		p.LoadError = msgLoadLoans
	} else {
		p.Total = len(loans)
		p.Loans = listing.FilterLoans(loans, p.Filter.Q, p.Filter.Estado)
	}

	equipment, err := h.catalog.Equipment(ctx)
	if err != nil {
		log.Printf("Error loading equipment options: %v", err)
		equipment = []model.Equipment{}
	}
	p.Equipment = equipment

	c.HTML(status, "loans.html", p)
}
