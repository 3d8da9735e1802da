// Package form holds the input state of the admin forms and the checks that
// run before anything is sent to the loan API.
package form

import "time"

// Field error messages shown next to the inputs.
const (
	MsgNombreRequired      = "El nombre del equipo es obligatorio"
	MsgSolicitanteRequired = "El nombre es obligatorio"
	MsgDNIRequired         = "El DNI es obligatorio"
	MsgCorreoRequired      = "El correo es obligatorio"
	MsgEquipoRequired      = "Debe seleccionar un equipo"
	MsgEquipoUnknown       = "El equipo seleccionado no existe"
	MsgFechaRequired       = "La fecha es obligatoria"
	MsgFechaInvalid        = "La fecha debe tener el formato AAAA-MM-DD"
	MsgFechaPast           = "La fecha no puede ser anterior a hoy"
	MsgEstadoRequired      = "Debe seleccionar un estado"
	MsgEstadoInvalid       = "El estado seleccionado no es válido"
	MsgEstadoUnchanged     = "El préstamo ya se encuentra en ese estado"
	MsgComentarioRequired  = "El comentario es obligatorio cuando el estado es DEVUELTO"
	MsgComentarioTooLong   = "El comentario no puede superar los 500 caracteres"

	// MsgFixErrors is the banner shown when validation blocks a submission.
	MsgFixErrors = "Por favor corrija los errores en el formulario"
)

// DateLayout is the fixed-width ISO date used by fecha_prestamo.
const DateLayout = "2006-01-02"

// FieldErrors maps a form field name to its error message.
type FieldErrors map[string]string

// Empty reports whether no field failed.
func (e FieldErrors) Empty() bool { return len(e) == 0 }

// Has reports whether field failed.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Today returns the current local date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format(DateLayout)
}
