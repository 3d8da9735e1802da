package upstream

import (
	"context"
	"net/http"

	"prestamos-admin/internal/model"
)

// ListEquipment fetches every equipment item.
func (c *Client) ListEquipment(ctx context.Context) ([]model.Equipment, error) {
	var items []model.Equipment
	if err := c.do(ctx, "list_equipment", http.MethodGet, "/equipos/", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Equipment{}
	}
	return items, nil
}

// CreateEquipment registers a new equipment item and returns it with its code.
func (c *Client) CreateEquipment(ctx context.Context, in model.EquipmentInput) (*model.Equipment, error) {
	var created model.Equipment
	if err := c.do(ctx, "create_equipment", http.MethodPost, "/equipos/", in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
