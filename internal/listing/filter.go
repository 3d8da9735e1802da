// Package listing filters and paginates the collections fetched from the
// loan API. Every function is pure: inputs are never modified.
package listing

import (
	"strings"

	"prestamos-admin/internal/model"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// FilterEquipment keeps the items whose nombre contains query, ignoring case.
func FilterEquipment(items []model.Equipment, query string) []model.Equipment {
	q := strings.ToLower(query)
	out := make([]model.Equipment, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Nombre), q) {
			out = append(out, item)
		}
	}
	return out
}

// FilterLoans keeps the loans in status (or any status for StatusAll or "")
// whose solicitante, equipo or correo contains query, ignoring case.
func FilterLoans(loans []model.Loan, query, status string) []model.Loan {
	q := strings.ToLower(query)
	out := make([]model.Loan, 0, len(loans))
	for _, loan := range loans {
		if status != "" && status != StatusAll && string(loan.Estado) != status {
			continue
		}
		if strings.Contains(strings.ToLower(loan.Solicitante), q) ||
			strings.Contains(strings.ToLower(loan.Equipo), q) ||
			strings.Contains(strings.ToLower(loan.Correo), q) {
			out = append(out, loan)
		}
	}
	return out
}
