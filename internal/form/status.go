package form

import (
	"strings"

	"prestamos-admin/internal/model"
)

// StatusForm is the status-change dialog. In ModeStatus only estado and
// comentario are submitted; in ModeFull the whole record is replaced.
type StatusForm struct {
	LoanForm
	Mode string `form:"modo"`
}

// NewStatusForm pre-fills the dialog from the loan being edited.
func NewStatusForm(loan model.Loan) StatusForm {
	return StatusForm{
		LoanForm: LoanForm{
			Solicitante:    loan.Solicitante,
			DNISolicitante: loan.DNISolicitante,
			Correo:         loan.Correo,
			EquipoCode:     string(loan.EquipoCode),
			Estado:         string(loan.Estado),
			FechaPrestamo:  loan.FechaPrestamo,
			Comentario:     loan.Comentario,
		},
		Mode: string(model.ModeStatus),
	}
}

// UpdateMode returns the selected mode.
func (f StatusForm) UpdateMode() model.UpdateMode {
	return model.ParseUpdateMode(f.Mode)
}

// SwitchMode changes the mode and keeps every entered value.
func (f StatusForm) SwitchMode(mode model.UpdateMode) StatusForm {
	f.Mode = string(mode)
	return f
}

// Options lists the states offered for a loan currently in current.
func (f StatusForm) Options(current model.Status) []model.Status {
	return model.StatusOptions(current, f.UpdateMode())
}

// Validate checks the dialog against the loan's current state.
func (f StatusForm) Validate(current model.Status) FieldErrors {
	if f.UpdateMode() == model.ModeFull {
		errs := f.validateRequired()
		f.validateTarget(errs)
		return errs
	}

	errs := FieldErrors{}
	f.validateTarget(errs)
	if !errs.Has("estado") && model.Status(f.Estado) == current {
		errs["estado"] = MsgEstadoUnchanged
	}
	return errs
}

// StatusUpdate returns the body of the partial update.
func (f StatusForm) StatusUpdate() model.StatusUpdate {
	return model.StatusUpdate{
		Estado:     model.Status(f.Estado),
		Comentario: strings.TrimSpace(f.Comentario),
	}
}

// FullInput returns the body of the full update.
func (f StatusForm) FullInput() model.LoanInput {
	return f.fullInput()
}
