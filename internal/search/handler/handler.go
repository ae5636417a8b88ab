package handler

import (
	"net/http"
	"strconv"
	"strings"

	"delivery_admin_backend/internal/search/domain"
	"delivery_admin_backend/internal/search/service"
	"delivery_admin_backend/internal/search/transport"
	"delivery_admin_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const contentTypeJSON = "application/json; charset=utf-8"

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the read endpoint on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Search)
}

// RegisterAdminRoutes mounts the snapshot management endpoints on rg.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/reload", h.Reload)
	rg.POST("/publish", h.Publish)
}

func (h *Handler) Search(c *gin.Context) {
	req := ParseSearchRequest(c)

	body, err := h.svc.SearchJSON(c.Request.Context(), req.ToQuery())
	if httpkit.HandleError(c, err) {
		return
	}

	c.Data(http.StatusOK, contentTypeJSON, body)
}

func (h *Handler) Reload(c *gin.Context) {
	result, err := h.svc.Reload(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Publish(c *gin.Context) {
	reason := "manual"
	if identity := httpkit.GetIdentity(c); identity.IsAuthenticated() {
		reason = "manual:" + identity.UserID().String()
	}

	result, err := h.svc.Publish(c.Request.Context(), reason)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusAccepted, result)
}

// ParseSearchRequest reads the search query string. It never fails:
// missing or malformed page and pageSize fall back to their defaults, and
// blank facet values are dropped.
func ParseSearchRequest(c *gin.Context) transport.SearchRequest {
	return transport.SearchRequest{
		Query:    strings.TrimSpace(c.Query("q")),
		Types:    nonBlank(c.QueryArray("type")),
		Estados:  nonBlank(c.QueryArray("estado")),
		Zonas:    nonBlank(c.QueryArray("zona")),
		Page:     intOrDefault(c.Query("page"), domain.DefaultPage),
		PageSize: intOrDefault(c.Query("pageSize"), domain.DefaultPageSize),
	}
}

func intOrDefault(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
