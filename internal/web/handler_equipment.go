package web

import (
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"prestamos-admin/internal/events"
	"prestamos-admin/internal/form"
	"prestamos-admin/internal/listing"
	"prestamos-admin/internal/model"
)

// equipmentQuery is the state of the equipment list. The search form does
// not send page, so changing the filter text always lands on page 1.
type equipmentQuery struct {
	Q       string `form:"q"`
	Page    int    `form:"page"`
	Size    int    `form:"size"`
	Refresh bool   `form:"refresh"`
}

type pageLink struct {
	Number int
	URL    string
	Active bool
}

type equipmentPage struct {
	page
	Query     equipmentQuery
	Items     []model.Equipment
	Page      listing.Page
	Total     int
	PageSizes []int
	Links     []pageLink
	FirstURL  string
	PrevURL   string
	NextURL   string
	LastURL   string
	LoadError string
	Form      form.EquipmentForm
	Errors    form.FieldErrors
}

// ListEquipment renders the equipment page. refresh=1 bypasses the catalog
// cache.
func (h *Handler) ListEquipment(c *gin.Context) {
	h.renderEquipment(c, http.StatusOK, h.newEquipmentPage(c))
}

// CreateEquipment validates and registers a new equipment item.
func (h *Handler) CreateEquipment(c *gin.Context) {
	p := h.newEquipmentPage(c)
	if err := c.ShouldBind(&p.Form); err != nil {
		p.Error = form.MsgFixErrors
		h.renderEquipment(c, http.StatusBadRequest, p)
		return
	}

	p.Errors = p.Form.Validate()
	if !p.Errors.Empty() {
		h.renderEquipment(c, http.StatusUnprocessableEntity, p)
		return
	}

	equipment, err := h.api.CreateEquipment(c.Request.Context(), p.Form.Input())
	if err != nil {
		var status int
		status, p.Error = failure(c, err)
		p.Errors = mergeFieldErrors(p.Errors, err)
		h.renderEquipment(c, status, p)
		return
	}

	h.publish(c, events.Event{Kind: events.EquipmentCreated, Code: string(equipment.Code), Equipment: equipment})
	redirectWithNotice(c, "/equipos", "equipo-creado")
}

func (h *Handler) newEquipmentPage(c *gin.Context) *equipmentPage {
	p := &equipmentPage{
		page:      newPage(c, "Equipos", "equipos"),
		PageSizes: listing.PageSizes,
	}
	if err := c.ShouldBindQuery(&p.Query); err != nil {
		p.Query = equipmentQuery{Q: c.Query("q")}
	}
	p.Query.Size = listing.NormalizePageSize(p.Query.Size)
	return p
}

func (h *Handler) renderEquipment(c *gin.Context, status int, p *equipmentPage) {
	ctx := c.Request.Context()

	var (
		items []model.Equipment
		err   error
	)
	if p.Query.Refresh {
		items, err = h.catalog.Refresh(ctx)
	} else {
		items, err = h.catalog.Equipment(ctx)
	}
	if err != nil {
		log.Printf("Error loading equipment: %v", err)
		p.LoadError = msgLoadEquipment
		items = []model.Equipment{}
	}

	filtered := listing.FilterEquipment(items, p.Query.Q)
	p.Total = len(items)
	p.Page = listing.Paginate(len(filtered), p.Query.Page, p.Query.Size)
	p.Items = listing.Slice(filtered, p.Page)

	for _, n := range p.Page.Window() {
		p.Links = append(p.Links, pageLink{
			Number: n,
			URL:    equipmentURL(p.Query.Q, n, p.Page.Size),
			Active: n == p.Page.Number,
		})
	}
	if p.Page.HasPrev() {
		p.FirstURL = equipmentURL(p.Query.Q, 1, p.Page.Size)
		p.PrevURL = equipmentURL(p.Query.Q, p.Page.Number-1, p.Page.Size)
	}
	if p.Page.HasNext() {
		p.NextURL = equipmentURL(p.Query.Q, p.Page.Number+1, p.Page.Size)
		p.LastURL = equipmentURL(p.Query.Q, p.Page.TotalPages, p.Page.Size)
	}

	c.HTML(status, "equipment.html", p)
}

func equipmentURL(q string, page, size int) string {
	v := url.Values{}
	if q != "" {
		v.Set("q", q)
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("size", strconv.Itoa(size))
	return "/equipos?" + v.Encode()
}
