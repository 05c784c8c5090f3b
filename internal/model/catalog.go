package model

import (
	"time"

	"github.com/google/uuid"
)

// Clinic is a top-level facility. Names are unique across the catalog.
type Clinic struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Department belongs to a clinic. Names are unique per clinic.
type Department struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ClinicID  uuid.UUID `json:"clinic_id" db:"clinic_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Doctor belongs to a department.
type Doctor struct {
	ID           uuid.UUID `json:"id" db:"id"`
	FullName     string    `json:"name" db:"full_name"`
	DepartmentID uuid.UUID `json:"department_id" db:"department_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// DoctorInfo is a doctor row joined up to its clinic, the shape the booking
// form consumes.
type DoctorInfo struct {
	ID           uuid.UUID `json:"id" db:"id"`
	FullName     string    `json:"name" db:"full_name"`
	DepartmentID uuid.UUID `json:"department_id" db:"department_id"`
	ClinicID     uuid.UUID `json:"clinic_id" db:"clinic_id"`
}

// DoctorFilter narrows doctor listings by department and/or clinic.
type DoctorFilter struct {
	ClinicID     uuid.UUID
	DepartmentID uuid.UUID
}

type CreateClinicRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}

type CreateDepartmentRequest struct {
	Name     string    `json:"name" binding:"required,max=120"`
	ClinicID uuid.UUID `json:"clinic_id" binding:"required"`
}

type CreateDoctorRequest struct {
	FullName     string    `json:"name" binding:"required,max=120"`
	DepartmentID uuid.UUID `json:"department_id" binding:"required"`
}
