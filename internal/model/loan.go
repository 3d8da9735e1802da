package model

// Status is the lifecycle state of a loan.
type Status string

const (
	StatusSolicitado Status = "SOLICITADO"
	StatusEntregado  Status = "ENTREGADO"
	StatusDevuelto   Status = "DEVUELTO"
)

// Statuses lists every loan state in lifecycle order.
var Statuses = []Status{StatusSolicitado, StatusEntregado, StatusDevuelto}

// MaxCommentLength caps comentario, counted in characters.
const MaxCommentLength = 500

// Label is the human readable name of the state.
func (s Status) Label() string {
	switch s {
	case StatusSolicitado:
		return "Solicitado"
	case StatusEntregado:
		return "Entregado"
	case StatusDevuelto:
		return "Devuelto"
	}
	return string(s)
}

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether the interface stops offering actions for a loan in s.
func (s Status) Terminal() bool {
	return s == StatusDevuelto
}

// RequiresComment reports whether submitting s as target state needs a comentario.
func (s Status) RequiresComment() bool {
	return s == StatusDevuelto
}

// UpdateMode selects between the two ways of updating a loan.
type UpdateMode string

const (
	// ModeStatus patches estado and comentario only.
	ModeStatus UpdateMode = "status"
	// ModeFull replaces the whole record.
	ModeFull UpdateMode = "full"
)

// ParseUpdateMode maps unknown values to ModeStatus.
func ParseUpdateMode(s string) UpdateMode {
	if UpdateMode(s) == ModeFull {
		return ModeFull
	}
	return ModeStatus
}

// StatusOptions returns the target states offered for a loan currently in
// current. Status-only updates never offer the current state; full updates
// offer all of them. No ordering between states is enforced.
func StatusOptions(current Status, mode UpdateMode) []Status {
	if mode == ModeFull {
		out := make([]Status, len(Statuses))
		copy(out, Statuses)
		return out
	}
	out := make([]Status, 0, len(Statuses))
	for _, s := range Statuses {
		if s != current {
			out = append(out, s)
		}
	}
	return out
}

// Loan is a loan record as returned by the loan API.
type Loan struct {
	Code               Code   `json:"code"`
	Solicitante        string `json:"solicitante"`
	DNISolicitante     string `json:"dniSolicitante"`
	Correo             string `json:"correo"`
	EquipoCode         Code   `json:"equipoCode"`
	Equipo             string `json:"equipo"`
	Estado             Status `json:"estado"`
	FechaPrestamo      string `json:"fecha_prestamo"`
	Comentario         string `json:"comentario"`
	FechaCreacion      string `json:"fecha_creacion,omitempty"`
	FechaActualizacion string `json:"fecha_actualizacion,omitempty"`
}

// Actionable reports whether status changes and deletion are offered.
func (l Loan) Actionable() bool {
	return !l.Estado.Terminal()
}

// LoanInput is the body of POST /prestamos/ and PUT /prestamos/{id}/.
type LoanInput struct {
	Solicitante    string `json:"solicitante"`
	DNISolicitante string `json:"dniSolicitante"`
	Correo         string `json:"correo"`
	EquipoCode     string `json:"equipoCode"`
	Estado         Status `json:"estado"`
	FechaPrestamo  string `json:"fecha_prestamo"`
	Comentario     string `json:"comentario"`
}

// StatusUpdate is the body of PATCH /prestamos/cambiar-estado/{id}.
type StatusUpdate struct {
	Estado     Status `json:"estado"`
	Comentario string `json:"comentario"`
}
