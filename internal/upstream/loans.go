package upstream

import (
	"context"
	"net/http"
	"net/url"

	"prestamos-admin/internal/model"
)

// ListLoans fetches every loan.
func (c *Client) ListLoans(ctx context.Context) ([]model.Loan, error) {
	var loans []model.Loan
	if err := c.do(ctx, "list_loans", http.MethodGet, "/prestamos/", nil, &loans); err != nil {
		return nil, err
	}
	if loans == nil {
		loans = []model.Loan{}
	}
	return loans, nil
}

// GetLoan fetches a single loan.
func (c *Client) GetLoan(ctx context.Context, code string) (*model.Loan, error) {
	var loan model.Loan
	if err := c.do(ctx, "get_loan", http.MethodGet, "/prestamos/"+url.PathEscape(code)+"/", nil, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// CreateLoan registers a new loan.
func (c *Client) CreateLoan(ctx context.Context, in model.LoanInput) (*model.Loan, error) {
	var loan model.Loan
	if err := c.do(ctx, "create_loan", http.MethodPost, "/prestamos/", in, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// UpdateLoan replaces every field of a loan.
func (c *Client) UpdateLoan(ctx context.Context, code string, in model.LoanInput) (*model.Loan, error) {
	var loan model.Loan
	if err := c.do(ctx, "update_loan", http.MethodPut, "/prestamos/"+url.PathEscape(code)+"/", in, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// UpdateLoanStatus changes only estado and comentario.
func (c *Client) UpdateLoanStatus(ctx context.Context, code string, in model.StatusUpdate) (*model.Loan, error) {
	var loan model.Loan
	if err := c.do(ctx, "update_loan_status", http.MethodPatch, "/prestamos/cambiar-estado/"+url.PathEscape(code), in, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// DeleteLoan removes a loan.
func (c *Client) DeleteLoan(ctx context.Context, code string) error {
	return c.do(ctx, "delete_loan", http.MethodDelete, "/prestamos/"+url.PathEscape(code)+"/", nil, nil)
}
