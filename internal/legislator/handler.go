package legislator

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"citizenhub/internal/officials"
	"citizenhub/pkg/models"
)

type Handler struct {
	Repo    *Repo
	Service *officials.Service
}

func NewHandler(repo *Repo, svc *officials.Service) *Handler {
	return &Handler{Repo: repo, Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/lookup", h.lookup) // GET /legislators/lookup?address=
	rg.GET("/local", h.local)   // GET /legislators/local?city=
	rg.GET("", h.list)          // GET /legislators
	rg.GET("/:id", h.getByID)   // GET /legislators/:id
}

func (h *Handler) lookup(c *gin.Context) {
	address := c.Query("address")
	ls, err := h.Service.Lookup(c.Request.Context(), address)
	if err != nil {
		c.JSON(statusFor(err, true), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"address": address,
		"items":   models.FlattenAll(ls),
	})
}

func (h *Handler) local(c *gin.Context) {
	city := c.Query("city")
	ls, err := h.Service.LookupLocal(c.Request.Context(), city)
	if err != nil {
		c.JSON(statusFor(err, false), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"city":  city,
		"items": models.FlattenAll(ls),
	})
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Q:          c.Query("q"),
		State:      c.Query("state"),
		Party:      c.Query("party"),
		OfficeKind: c.Query("office_kind"),
		Limit:      parseInt(c.Query("limit"), defaultLimit),
		Offset:     parseInt(c.Query("offset"), 0),
	}.Normalized()

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	l, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if l == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, l)
}

// statusFor maps lookup errors onto HTTP codes. A malformed payload from the
// upstream is a bad gateway; a malformed bundled snapshot is our own fault.
func statusFor(err error, remote bool) int {
	var se *officials.StatusError
	switch {
	case errors.Is(err, officials.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, officials.ErrRemoteDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, officials.ErrMalformedPayload):
		if remote {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	case errors.As(err, &se), errors.Is(err, officials.ErrEmptyBody):
		return http.StatusBadGateway
	case remote:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
