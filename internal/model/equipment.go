package model

// Equipment is a loanable asset as returned by the loan API.
type Equipment struct {
	Code   Code   `json:"code"`
	Nombre string `json:"nombre"`
}

// EquipmentInput is the body of POST /equipos/.
type EquipmentInput struct {
	Nombre string `json:"nombre"`
}
