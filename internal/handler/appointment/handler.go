package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/middleware"
	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/service/appointment"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the appointment endpoints onto the public,
// authenticated and admin route groups.
func (h *Handler) RegisterRoutes(public, authed, admin *gin.RouterGroup) {
	public.GET("/slots", h.ListFreeSlots)

	authed.POST("/appointments", h.Book)
	authed.GET("/appointments", h.MyAppointments)

	admin.GET("/appointments", h.Search)
	admin.GET("/appointments/stats", h.Stats)
	admin.POST("/appointments/:id/actions", h.ApplyAction)
}

func (h *Handler) ListFreeSlots(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Query("doctor_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.InvalidRequest("invalid doctor ID", err))
		return
	}

	slots, err := h.service.ListFreeSlots(c.Request.Context(), doctorID, c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"suggestions": slots})
}

func (h *Handler) Book(c *gin.Context) {
	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.InvalidRequest(err.Error(), err))
		return
	}

	caller := middleware.CallerFromContext(c)
	apt, err := h.service.Book(c.Request.Context(), caller, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, apt)
}

func (h *Handler) MyAppointments(c *gin.Context) {
	caller := middleware.CallerFromContext(c)
	all, upcoming, err := h.service.MyAppointments(c.Request.Context(), caller)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"appointments": all,
		"upcoming":     upcoming,
	})
}

type actionRequest struct {
	Action string `json:"action" binding:"required"`
}

func (h *Handler) ApplyAction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.InvalidRequest("invalid appointment ID", err))
		return
	}

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.InvalidRequest(err.Error(), err))
		return
	}

	caller := middleware.CallerFromContext(c)
	apt, err := h.service.ApplyAction(c.Request.Context(), caller, id, req.Action)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, apt)
}

func (h *Handler) Search(c *gin.Context) {
	caller := middleware.CallerFromContext(c)
	details, err := h.service.Search(c.Request.Context(), caller, c.DefaultQuery("status", model.StatusFilterAll), c.Query("q"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, details)
}

func (h *Handler) Stats(c *gin.Context) {
	caller := middleware.CallerFromContext(c)
	stats, err := h.service.Stats(c.Request.Context(), caller)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, stats)
}
