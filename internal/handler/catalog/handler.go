package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/odontoapp/clinic-api/internal/handler"
	"github.com/odontoapp/clinic-api/internal/model"
	"github.com/odontoapp/clinic-api/internal/service/catalog"
)

type Handler struct {
	service *catalog.Service
}

func NewHandler(service *catalog.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/catalogs/:kind", h.List)
}

func (h *Handler) List(c *gin.Context) {
	kind := model.CatalogKind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("unknown catalog kind"))
		return
	}

	items, err := h.service.List(c.Request.Context(), kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(items))
}
