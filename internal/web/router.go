package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"prestamos-admin/config"
	"prestamos-admin/internal/mw"
)

// NewRouter creates and configures a new Gin router. registry may be nil,
// in which case /metrics is not served.
func NewRouter(h *Handler, cfg config.ServerConfig, registry *prometheus.Registry) (*gin.Engine, error) {
	r := gin.Default()

	tmpl, err := Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(mw.RequestID())
	r.Use(mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst))

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/prestamos") })
	r.GET("/healthz", h.Healthz)
	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	loans := r.Group("/prestamos")
	{
		loans.GET("", h.ListLoans)
		loans.POST("", h.CreateLoan)
		loans.GET("/:code", h.GetLoan)
		loans.GET("/:code/estado", h.EditStatus)
		loans.POST("/:code/estado", h.UpdateStatus)
		loans.GET("/:code/eliminar", h.ConfirmDeleteLoan)
		loans.POST("/:code/eliminar", h.DeleteLoan)
	}

	equipment := r.Group("/equipos")
	{
		equipment.GET("", h.ListEquipment)
		equipment.POST("", h.CreateEquipment)
	}

	api := r.Group("/api")
	{
		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
		api.GET("/actividad", h.ListActivity)
	}

	return r, nil
}
