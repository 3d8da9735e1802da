package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"prestamos-admin/internal/events"
	"prestamos-admin/internal/form"
	"prestamos-admin/internal/model"
	"prestamos-admin/internal/mw"
	"prestamos-admin/internal/upstream"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	msgLoadLoans     = "Error al cargar los préstamos. Por favor intente nuevamente."
	msgLoadEquipment = "Error al cargar los equipos. Por favor intente nuevamente."
	msgUnreachable   = "No se pudo comunicar con el servidor de préstamos. Intente nuevamente."
	msgLoanFinished  = "Este préstamo ya fue devuelto y no admite más cambios."
)

// notices are the success banners shown after a redirect, keyed by the
// "aviso" query parameter.
var notices = map[string]string{
	"equipo-creado":        "Equipo registrado exitosamente",
	"prestamo-creado":      "Préstamo registrado exitosamente",
	"prestamo-actualizado": "Préstamo actualizado exitosamente",
	"prestamo-eliminado":   "El préstamo ha sido eliminado exitosamente.",
}

var months = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// page is the data every template receives.
type page struct {
	Title     string
	Nav       string
	Notice    string
	Error     string
	RequestID string
}

func newPage(c *gin.Context, title, nav string) page {
	return page{
		Title:     title,
		Nav:       nav,
		Notice:    notices[c.Query("aviso")],
		RequestID: c.GetString(mw.RequestIDKey),
	}
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"statusLabel": func(s model.Status) string { return s.Label() },
		"statusClass": func(s model.Status) string { return "estado-" + strings.ToLower(string(s)) },
		"formatDate":  formatDate,
	}).ParseFS(templateFS, "templates/*.html")
}

// formatDate renders an API date or timestamp as "10 de marzo de 2026".
func formatDate(s string) string {
	if s == "" {
		return "N/A"
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", form.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return fmt.Sprintf("%d de %s de %d", t.Day(), months[t.Month()-1], t.Year())
		}
	}
	return s
}

// failure maps an upstream error to the status code and banner shown to the
// user.
func failure(c *gin.Context, err error) (int, string) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatus >= 400 && apiErr.HTTPStatus < 500 {
			return apiErr.HTTPStatus, apiErr.Message
		}
		return http.StatusBadGateway, apiErr.Message
	}
	log.Printf("request %s: %v", c.GetString(mw.RequestIDKey), err)
	return http.StatusBadGateway, msgUnreachable
}

// mergeFieldErrors adds the API's field errors to errs for the fields the
// form knows about.
func mergeFieldErrors(errs form.FieldErrors, err error) form.FieldErrors {
	var apiErr *upstream.APIError
	if !errors.As(err, &apiErr) {
		return errs
	}
	if errs == nil {
		errs = form.FieldErrors{}
	}
	for field, msg := range apiErr.FieldMessages() {
		errs[field] = msg
	}
	return errs
}

func (h *Handler) publish(c *gin.Context, e events.Event) {
	e.RequestID = c.GetString(mw.RequestIDKey)
	h.bus.Publish(e)
}

func redirectWithNotice(c *gin.Context, path, notice string) {
	c.Redirect(http.StatusSeeOther, path+"?aviso="+notice)
}

// errorPage renders a full-page failure, e.g. a loan that does not exist.
func errorPage(c *gin.Context, status int, message string) {
	p := newPage(c, "Error", "")
	p.Error = message
	c.HTML(status, "error.html", p)
}
