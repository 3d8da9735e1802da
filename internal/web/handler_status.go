package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prestamos-admin/internal/events"
	"prestamos-admin/internal/form"
	"prestamos-admin/internal/model"
)

type statusPage struct {
	page
	Loan      model.Loan
	Form      form.StatusForm
	Errors    form.FieldErrors
	Options   []model.Status
	Equipment []model.Equipment
	Finished  bool
}

// EditStatus renders the status dialog in the mode given by "modo".
func (h *Handler) EditStatus(c *gin.Context) {
	loan, err := h.api.GetLoan(c.Request.Context(), c.Param("code"))
	if err != nil {
		status, msg := failure(c, err)
		errorPage(c, status, msg)
		return
	}

	f := form.NewStatusForm(*loan).SwitchMode(model.ParseUpdateMode(c.Query("modo")))
	h.renderStatus(c, http.StatusOK, *loan, f, nil)
}

// UpdateStatus handles the dialog's submissions. A "switch" value changes the
// mode and keeps the entered values; anything else submits the update.
func (h *Handler) UpdateStatus(c *gin.Context) {
	code := c.Param("code")
	loan, err := h.api.GetLoan(c.Request.Context(), code)
	if err != nil {
		status, msg := failure(c, err)
		errorPage(c, status, msg)
		return
	}

	var f form.StatusForm
	if err := c.ShouldBind(&f); err != nil {
		h.renderStatus(c, http.StatusBadRequest, *loan, form.NewStatusForm(*loan), nil)
		return
	}

	if !loan.Actionable() {
		h.renderStatus(c, http.StatusConflict, *loan, f, nil)
		return
	}

	if target := c.PostForm("switch"); target != "" {
		h.renderStatus(c, http.StatusOK, *loan, f.SwitchMode(model.ParseUpdateMode(target)), nil)
		return
	}

	errs := f.Validate(loan.Estado)
	if !errs.Empty() {
		h.renderStatus(c, http.StatusUnprocessableEntity, *loan, f, errs)
		return
	}

	ctx := c.Request.Context()
	var updated *model.Loan
	if f.UpdateMode() == model.ModeFull {
		updated, err = h.api.UpdateLoan(ctx, code, f.FullInput())
	} else {
		updated, err = h.api.UpdateLoanStatus(ctx, code, f.StatusUpdate())
	}
	if err != nil {
		status, msg := failure(c, err)
		h.renderStatusError(c, status, *loan, f, mergeFieldErrors(nil, err), msg)
		return
	}

	result := mergeLoan(*loan, f, updated)
	if f.UpdateMode() == model.ModeFull {
		h.publish(c, events.Event{Kind: events.LoanUpdated, Code: code, Loan: &result})
	}
	if result.Estado != loan.Estado {
		h.publish(c, events.Event{Kind: events.LoanStatusChanged, Code: code, Loan: &result})
	}
	redirectWithNotice(c, "/prestamos", "prestamo-actualizado")
}

func (h *Handler) renderStatus(c *gin.Context, status int, loan model.Loan, f form.StatusForm, errs form.FieldErrors) {
	msg := ""
	if !errs.Empty() {
		msg = form.MsgFixErrors
	}
	h.renderStatusError(c, status, loan, f, errs, msg)
}

func (h *Handler) renderStatusError(c *gin.Context, status int, loan model.Loan, f form.StatusForm, errs form.FieldErrors, msg string) {
	title := "Cambiar Estado del Préstamo"
	if f.UpdateMode() == model.ModeFull {
		title = "Actualizar Préstamo"
	}

	p := statusPage{
		page:     newPage(c, title, "prestamos"),
		Loan:     loan,
		Form:     f,
		Errors:   errs,
		Options:  f.Options(loan.Estado),
		Finished: !loan.Actionable(),
	}
	p.Error = msg
	if p.Finished {
		p.Error = msgLoanFinished
	}

	if f.UpdateMode() == model.ModeFull {
		equipment, err := h.catalog.Equipment(c.Request.Context())
		if err == nil {
			p.Equipment = equipment
		}
	}

	c.HTML(status, "status.html", p)
}

// mergeLoan returns the loan after the update. Fields the API left out of
// its answer keep the submitted or previous values.
func mergeLoan(before model.Loan, f form.StatusForm, answer *model.Loan) model.Loan {
	result := before
	if f.UpdateMode() == model.ModeFull {
		in := f.FullInput()
		result.Solicitante = in.Solicitante
		result.DNISolicitante = in.DNISolicitante
		result.Correo = in.Correo
		result.EquipoCode = model.Code(in.EquipoCode)
		result.FechaPrestamo = in.FechaPrestamo
	}
	update := f.StatusUpdate()
	result.Estado = update.Estado
	result.Comentario = update.Comentario

	if answer == nil || answer.Code == "" {
		return result
	}
	if answer.Estado != "" {
		result.Estado = answer.Estado
	}
	if answer.Solicitante != "" {
		result.Solicitante = answer.Solicitante
	}
	if answer.Equipo != "" {
		result.Equipo = answer.Equipo
	}
	if answer.FechaActualizacion != "" {
		result.FechaActualizacion = answer.FechaActualizacion
	}
	return result
}
