package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		ListPatients(ctx context.Context) ([]*model.User, error)
	}

	// CatalogRepository resolves the clinic → department → doctor hierarchy.
	CatalogRepository interface {
		CreateClinic(ctx context.Context, clinic *model.Clinic) error
		GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		GetClinicByName(ctx context.Context, name string) (*model.Clinic, error)
		ListClinics(ctx context.Context) ([]*model.Clinic, error)

		CreateDepartment(ctx context.Context, dept *model.Department) error
		GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error)
		GetDepartmentByName(ctx context.Context, clinicID uuid.UUID, name string) (*model.Department, error)
		ListDepartments(ctx context.Context, clinicID uuid.UUID) ([]*model.Department, error)

		CreateDoctor(ctx context.Context, doctor *model.Doctor) error
		GetDoctorInfo(ctx context.Context, id uuid.UUID) (*model.DoctorInfo, error)
		ListDoctors(ctx context.Context, filter model.DoctorFilter) ([]*model.DoctorInfo, error)
	}

	AppointmentRepository interface {
		// Create persists a pending appointment. It fails with a SlotTaken
		// error when an active appointment already holds (doctor, start_at);
		// the check and the insert are a single atomic decision backed by a
		// partial unique index.
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error)
		Delete(ctx context.Context, id uuid.UUID) error

		// OccupiedStarts returns the start timestamps of non-cancelled
		// appointments for the doctor within [from, to).
		OccupiedStarts(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]time.Time, error)

		// IsSlotTaken reports whether an active appointment already holds
		// (doctor, start_at). Advisory only; Create remains the authority.
		IsSlotTaken(ctx context.Context, doctorID uuid.UUID, startAt time.Time) (bool, error)

		ListDetails(ctx context.Context, status model.AppointmentStatus) ([]*model.AppointmentDetail, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.Appointment, error)

		CountAll(ctx context.Context) (int, error)
		CountStartingBetween(ctx context.Context, from, to time.Time) (int, error)
		CountByStatus(ctx context.Context, status model.AppointmentStatus) (int, error)
	}
)
