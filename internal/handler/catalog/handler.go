package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/middleware"
	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/service/catalog"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/httputil"
)

type Handler struct {
	service *catalog.Service
}

func NewHandler(service *catalog.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires catalog listings onto the public group and catalog
// management onto the admin group.
func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/clinics", h.ListClinics)
	public.GET("/departments", h.ListDepartments)
	public.GET("/doctors", h.ListDoctors)

	admin.POST("/clinics", h.CreateClinic)
	admin.POST("/departments", h.CreateDepartment)
	admin.POST("/doctors", h.CreateDoctor)
}

func (h *Handler) ListClinics(c *gin.Context) {
	clinics, err := h.service.ListClinics(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, clinics)
}

func (h *Handler) ListDepartments(c *gin.Context) {
	clinicID, err := optionalUUID(c, "clinic_id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	depts, err := h.service.ListDepartments(c.Request.Context(), clinicID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, depts)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	clinicID, err := optionalUUID(c, "clinic_id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	departmentID, err := optionalUUID(c, "department_id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	doctors, err := h.service.ListDoctors(c.Request.Context(), model.DoctorFilter{
		ClinicID:     clinicID,
		DepartmentID: departmentID,
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, doctors)
}

func (h *Handler) CreateClinic(c *gin.Context) {
	var req model.CreateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.InvalidRequest(err.Error(), err))
		return
	}

	clinic, err := h.service.CreateClinic(c.Request.Context(), middleware.CallerFromContext(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, clinic)
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	var req model.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.InvalidRequest(err.Error(), err))
		return
	}

	dept, err := h.service.CreateDepartment(c.Request.Context(), middleware.CallerFromContext(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, dept)
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.InvalidRequest(err.Error(), err))
		return
	}

	doctor, err := h.service.CreateDoctor(c.Request.Context(), middleware.CallerFromContext(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, doctor)
}

func optionalUUID(c *gin.Context, param string) (uuid.UUID, error) {
	raw := c.Query(param)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.InvalidRequest("invalid "+param, err)
	}
	return id, nil
}
