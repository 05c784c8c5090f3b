package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Service serves the clinic → department → doctor catalog. Listings are
// read-heavy and change rarely, so they are cached; any write flushes the
// cache.
type Service struct {
	repo  repository.CatalogRepository
	cache *gocache.Cache
}

func NewService(repo repository.CatalogRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) ListClinics(ctx context.Context) ([]*model.Clinic, error) {
	if cached, ok := s.cache.Get("clinics"); ok {
		return cached.([]*model.Clinic), nil
	}

	clinics, err := s.repo.ListClinics(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	s.cache.Set("clinics", clinics, gocache.DefaultExpiration)
	return clinics, nil
}

func (s *Service) ListDepartments(ctx context.Context, clinicID uuid.UUID) ([]*model.Department, error) {
	key := "departments:" + clinicID.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.Department), nil
	}

	depts, err := s.repo.ListDepartments(ctx, clinicID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	s.cache.Set(key, depts, gocache.DefaultExpiration)
	return depts, nil
}

func (s *Service) ListDoctors(ctx context.Context, filter model.DoctorFilter) ([]*model.DoctorInfo, error) {
	key := fmt.Sprintf("doctors:%s:%s", filter.ClinicID, filter.DepartmentID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.DoctorInfo), nil
	}

	doctors, err := s.repo.ListDoctors(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	s.cache.Set(key, doctors, gocache.DefaultExpiration)
	return doctors, nil
}

// CreateClinic adds a clinic. Creating an existing name returns the existing
// record instead of a duplicate.
func (s *Service) CreateClinic(ctx context.Context, caller model.Caller, req *model.CreateClinicRequest) (*model.Clinic, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Unauthorized("administrator role required")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.InvalidRequest("clinic name is required", nil)
	}

	if existing, err := s.repo.GetClinicByName(ctx, name); err == nil {
		return existing, nil
	}

	clinic := &model.Clinic{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateClinic(ctx, clinic); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.cache.Flush()
	return clinic, nil
}

// CreateDepartment adds a department to an existing clinic. Duplicate names
// within a clinic return the existing record.
func (s *Service) CreateDepartment(ctx context.Context, caller model.Caller, req *model.CreateDepartmentRequest) (*model.Department, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Unauthorized("administrator role required")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || req.ClinicID == uuid.Nil {
		return nil, apperrors.InvalidRequest("department name and clinic are required", nil)
	}

	if _, err := s.repo.GetClinic(ctx, req.ClinicID); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetDepartmentByName(ctx, req.ClinicID, name); err == nil {
		return existing, nil
	}

	dept := &model.Department{
		ID:        uuid.New(),
		Name:      name,
		ClinicID:  req.ClinicID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateDepartment(ctx, dept); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.cache.Flush()
	return dept, nil
}

// CreateDoctor adds a doctor to an existing department.
func (s *Service) CreateDoctor(ctx context.Context, caller model.Caller, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Unauthorized("administrator role required")
	}

	name := strings.TrimSpace(req.FullName)
	if name == "" || req.DepartmentID == uuid.Nil {
		return nil, apperrors.InvalidRequest("doctor name and department are required", nil)
	}

	if _, err := s.repo.GetDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	doctor := &model.Doctor{
		ID:           uuid.New(),
		FullName:     name,
		DepartmentID: req.DepartmentID,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.CreateDoctor(ctx, doctor); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.cache.Flush()
	return doctor, nil
}
