package form

import (
	"strings"

	"prestamos-admin/internal/model"
)

// EquipmentForm is the equipment registration form.
type EquipmentForm struct {
	Nombre string `form:"nombre" json:"nombre"`
}

// Validate checks the form before submission.
func (f EquipmentForm) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Nombre) == "" {
		errs["nombre"] = MsgNombreRequired
	}
	return errs
}

// Input returns the request body for the API.
func (f EquipmentForm) Input() model.EquipmentInput {
	return model.EquipmentInput{Nombre: strings.TrimSpace(f.Nombre)}
}
