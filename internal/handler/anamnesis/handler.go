package anamnesis

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/odontoapp/clinic-api/internal/handler"
	"github.com/odontoapp/clinic-api/internal/model"
	"github.com/odontoapp/clinic-api/internal/service/anamnesis"
)

type Handler struct {
	service *anamnesis.Service
}

func NewHandler(service *anamnesis.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/patients/:id/anamnesis")
	{
		records.GET("", h.Get)
		records.PUT("", h.Update)
		records.POST("/diff", h.Preview)
		records.POST("/submit", h.Submit)
	}
}

func (h *Handler) Get(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	record, err := h.service.Get(c.Request.Context(), handler.CurrentUserID(c), patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(record))
}

// Update is the in-consultation save: the patient is present, so no
// extra edit context is collected.
func (h *Handler) Update(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var record model.Anamnesis
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	record.PatientID = patientID

	if err := h.service.Upsert(c.Request.Context(), handler.CurrentUserID(c), &record); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(record))
}

// editRequest is the payload for outside-consultation preview and submit.
type editRequest struct {
	Record  *model.Anamnesis  `json:"record" binding:"required"`
	Context model.EditContext `json:"context"`
}

// Preview returns the change set, summary and gate decision for a
// proposed edit without persisting anything.
func (h *Handler) Preview(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.Preview(c.Request.Context(), patientID, req.Record, req.Context)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

// Submit runs the outside-consultation workflow. Validation failures
// come back as 422 with the ValidationResult so the client can surface
// errors and warnings inline; persistence failures are 502 and the
// client retries with the same payload.
func (h *Handler) Submit(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.SubmitOutsideConsultation(c.Request.Context(), handler.CurrentUserID(c), patientID, req.Record, req.Context)
	if err != nil {
		c.JSON(http.StatusBadGateway, handler.NewErrorResponse(err.Error()))
		return
	}
	if !result.NoChanges && !result.Validation.IsValid {
		c.JSON(http.StatusUnprocessableEntity, handler.NewSuccessResponse(result))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}
