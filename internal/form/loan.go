package form

import (
	"strings"
	"time"
	"unicode/utf8"

	"prestamos-admin/internal/model"
)

// LoanForm holds every editable loan field.
type LoanForm struct {
	Solicitante    string `form:"solicitante"`
	DNISolicitante string `form:"dniSolicitante"`
	Correo         string `form:"correo"`
	EquipoCode     string `form:"equipoCode"`
	Estado         string `form:"estado"`
	FechaPrestamo  string `form:"fecha_prestamo"`
	Comentario     string `form:"comentario"`
}

// NewLoanForm returns the blank creation form: state SOLICITADO, loan date today.
func NewLoanForm(today string) LoanForm {
	return LoanForm{
		Estado:        string(model.StatusSolicitado),
		FechaPrestamo: today,
	}
}

// ValidateCreate checks the creation form. When equipment is non-nil the
// selected equipoCode must be one of its codes. Dates are compared as
// YYYY-MM-DD strings, which order like the dates they spell.
func (f LoanForm) ValidateCreate(today string, equipment []model.Equipment) FieldErrors {
	errs := f.validateRequired()
	if !errs.Has("equipoCode") && equipment != nil && !containsEquipment(equipment, f.EquipoCode) {
		errs["equipoCode"] = MsgEquipoUnknown
	}
	if !errs.Has("fecha_prestamo") && f.FechaPrestamo < today {
		errs["fecha_prestamo"] = MsgFechaPast
	}
	return errs
}

// Input returns the creation request body. New loans always start as
// SOLICITADO without a comentario, whatever estado was posted.
func (f LoanForm) Input() model.LoanInput {
	in := f.fullInput()
	in.Estado = model.StatusSolicitado
	in.Comentario = ""
	return in
}

// ShowComment reports whether the comentario input is shown.
func (f LoanForm) ShowComment() bool {
	return model.Status(f.Estado).RequiresComment()
}

// CommentLength counts comentario in characters.
func (f LoanForm) CommentLength() int {
	return utf8.RuneCountInString(f.Comentario)
}

func (f LoanForm) validateRequired() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Solicitante) == "" {
		errs["solicitante"] = MsgSolicitanteRequired
	}
	if strings.TrimSpace(f.DNISolicitante) == "" {
		errs["dniSolicitante"] = MsgDNIRequired
	}
	if strings.TrimSpace(f.Correo) == "" {
		errs["correo"] = MsgCorreoRequired
	}
	if strings.TrimSpace(f.EquipoCode) == "" {
		errs["equipoCode"] = MsgEquipoRequired
	}
	switch {
	case f.FechaPrestamo == "":
		errs["fecha_prestamo"] = MsgFechaRequired
	case !validDate(f.FechaPrestamo):
		errs["fecha_prestamo"] = MsgFechaInvalid
	}
	return errs
}

// validateTarget applies the estado and comentario rules shared by both
// update modes.
func (f LoanForm) validateTarget(errs FieldErrors) {
	target := model.Status(f.Estado)
	switch {
	case f.Estado == "":
		errs["estado"] = MsgEstadoRequired
	case !target.Valid():
		errs["estado"] = MsgEstadoInvalid
	}
	if target.RequiresComment() && strings.TrimSpace(f.Comentario) == "" {
		errs["comentario"] = MsgComentarioRequired
	}
	if f.CommentLength() > model.MaxCommentLength {
		errs["comentario"] = MsgComentarioTooLong
	}
}

func (f LoanForm) fullInput() model.LoanInput {
	return model.LoanInput{
		Solicitante:    strings.TrimSpace(f.Solicitante),
		DNISolicitante: strings.TrimSpace(f.DNISolicitante),
		Correo:         strings.TrimSpace(f.Correo),
		EquipoCode:     strings.TrimSpace(f.EquipoCode),
		Estado:         model.Status(f.Estado),
		FechaPrestamo:  f.FechaPrestamo,
		Comentario:     strings.TrimSpace(f.Comentario),
	}
}

func validDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func containsEquipment(items []model.Equipment, code string) bool {
	code = strings.TrimSpace(code)
	for _, e := range items {
		if string(e.Code) == code {
			return true
		}
	}
	return false
}
