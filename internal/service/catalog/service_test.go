package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/service/catalog"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
)

// fakeCatalogRepo counts list calls so the tests can observe caching.
type fakeCatalogRepo struct {
	clinics     map[uuid.UUID]*model.Clinic
	departments map[uuid.UUID]*model.Department
	doctors     map[uuid.UUID]*model.Doctor
	listCalls   int
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		clinics:     make(map[uuid.UUID]*model.Clinic),
		departments: make(map[uuid.UUID]*model.Department),
		doctors:     make(map[uuid.UUID]*model.Doctor),
	}
}

func (r *fakeCatalogRepo) CreateClinic(ctx context.Context, clinic *model.Clinic) error {
	r.clinics[clinic.ID] = clinic
	return nil
}

func (r *fakeCatalogRepo) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	if c, ok := r.clinics[id]; ok {
		return c, nil
	}
	return nil, apperrors.NotFound("clinic", nil)
}

func (r *fakeCatalogRepo) GetClinicByName(ctx context.Context, name string) (*model.Clinic, error) {
	for _, c := range r.clinics {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, apperrors.NotFound("clinic", nil)
}

func (r *fakeCatalogRepo) ListClinics(ctx context.Context) ([]*model.Clinic, error) {
	r.listCalls++
	var clinics []*model.Clinic
	for _, c := range r.clinics {
		clinics = append(clinics, c)
	}
	return clinics, nil
}

func (r *fakeCatalogRepo) CreateDepartment(ctx context.Context, dept *model.Department) error {
	r.departments[dept.ID] = dept
	return nil
}

func (r *fakeCatalogRepo) GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	if d, ok := r.departments[id]; ok {
		return d, nil
	}
	return nil, apperrors.NotFound("department", nil)
}

func (r *fakeCatalogRepo) GetDepartmentByName(ctx context.Context, clinicID uuid.UUID, name string) (*model.Department, error) {
	for _, d := range r.departments {
		if d.ClinicID == clinicID && d.Name == name {
			return d, nil
		}
	}
	return nil, apperrors.NotFound("department", nil)
}

func (r *fakeCatalogRepo) ListDepartments(ctx context.Context, clinicID uuid.UUID) ([]*model.Department, error) {
	r.listCalls++
	var depts []*model.Department
	for _, d := range r.departments {
		if clinicID == uuid.Nil || d.ClinicID == clinicID {
			depts = append(depts, d)
		}
	}
	return depts, nil
}

func (r *fakeCatalogRepo) CreateDoctor(ctx context.Context, doctor *model.Doctor) error {
	r.doctors[doctor.ID] = doctor
	return nil
}

func (r *fakeCatalogRepo) GetDoctorInfo(ctx context.Context, id uuid.UUID) (*model.DoctorInfo, error) {
	doc, ok := r.doctors[id]
	if !ok {
		return nil, apperrors.DoctorNotFound(nil)
	}
	dep := r.departments[doc.DepartmentID]
	return &model.DoctorInfo{
		ID:           doc.ID,
		FullName:     doc.FullName,
		DepartmentID: doc.DepartmentID,
		ClinicID:     dep.ClinicID,
	}, nil
}

func (r *fakeCatalogRepo) ListDoctors(ctx context.Context, filter model.DoctorFilter) ([]*model.DoctorInfo, error) {
	r.listCalls++
	var infos []*model.DoctorInfo
	for id := range r.doctors {
		info, err := r.GetDoctorInfo(ctx, id)
		if err != nil {
			continue
		}
		if filter.DepartmentID != uuid.Nil && info.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.ClinicID != uuid.Nil && info.ClinicID != filter.ClinicID {
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

var admin = model.Caller{UserID: uuid.New(), Email: "admin@klinik.com", Role: model.RoleAdmin}

func TestCreateHierarchy(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCatalogRepo()
	svc := catalog.NewService(repo)

	clinic, err := svc.CreateClinic(ctx, admin, &model.CreateClinicRequest{Name: "Central Clinic"})
	require.NoError(t, err)

	dept, err := svc.CreateDepartment(ctx, admin, &model.CreateDepartmentRequest{Name: "Cardiology", ClinicID: clinic.ID})
	require.NoError(t, err)

	doctor, err := svc.CreateDoctor(ctx, admin, &model.CreateDoctorRequest{FullName: "Dr. Smith", DepartmentID: dept.ID})
	require.NoError(t, err)
	assert.Equal(t, dept.ID, doctor.DepartmentID)

	doctors, err := svc.ListDoctors(ctx, model.DoctorFilter{ClinicID: clinic.ID})
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, clinic.ID, doctors[0].ClinicID)
}

func TestCreateClinicDuplicateName(t *testing.T) {
	ctx := context.Background()
	svc := catalog.NewService(newFakeCatalogRepo())

	first, err := svc.CreateClinic(ctx, admin, &model.CreateClinicRequest{Name: "Central Clinic"})
	require.NoError(t, err)

	second, err := svc.CreateClinic(ctx, admin, &model.CreateClinicRequest{Name: "Central Clinic"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "duplicate names return the existing record")
}

func TestCreateDepartmentRequiresClinic(t *testing.T) {
	ctx := context.Background()
	svc := catalog.NewService(newFakeCatalogRepo())

	_, err := svc.CreateDepartment(ctx, admin, &model.CreateDepartmentRequest{Name: "Cardiology", ClinicID: uuid.New()})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}

func TestCreateRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	svc := catalog.NewService(newFakeCatalogRepo())
	patient := model.Caller{UserID: uuid.New(), Role: model.RoleUser}

	_, err := svc.CreateClinic(ctx, patient, &model.CreateClinicRequest{Name: "Central Clinic"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthorized))
}

func TestListingsAreCachedAndFlushedOnWrite(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCatalogRepo()
	svc := catalog.NewService(repo)

	_, err := svc.CreateClinic(ctx, admin, &model.CreateClinicRequest{Name: "Central Clinic"})
	require.NoError(t, err)

	_, err = svc.ListClinics(ctx)
	require.NoError(t, err)
	_, err = svc.ListClinics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls, "second listing is served from cache")

	_, err = svc.CreateClinic(ctx, admin, &model.CreateClinicRequest{Name: "Branch Clinic"})
	require.NoError(t, err)

	clinics, err := svc.ListClinics(ctx)
	require.NoError(t, err)
	assert.Len(t, clinics, 2, "writes flush the cache")
	assert.Equal(t, 2, repo.listCalls)
}
