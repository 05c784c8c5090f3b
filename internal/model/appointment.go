package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// IsActive reports whether the status occupies its slot. Cancelled rows do
// not block a rebooking attempt.
func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed
}

// Administrative actions applied to an appointment.
const (
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
	ActionDelete  = "delete"
)

// StatusFilterAll selects every status in admin listings.
const StatusFilterAll = "all"

// StartAtLayout is the minute-precision format used for start_at throughout
// the system. Values are naive local time; no timezone conversion is applied.
const StartAtLayout = "2006-01-02 15:04"

type Appointment struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	PatientID uuid.UUID         `json:"patient_id" db:"patient_id"`
	DoctorID  uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	StartAt   time.Time         `json:"start_at" db:"start_at"`
	Note      string            `json:"note,omitempty" db:"note"`
	Status    AppointmentStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}

type BookAppointmentRequest struct {
	ClinicID     uuid.UUID `json:"clinic_id" binding:"required"`
	DepartmentID uuid.UUID `json:"department_id" binding:"required"`
	DoctorID     uuid.UUID `json:"doctor_id" binding:"required"`
	Date         string    `json:"date" binding:"required,dateymd"`
	Time         string    `json:"time" binding:"required,timehhmm"`
	Note         string    `json:"note" binding:"max=300"`
}

// AppointmentDetail is an appointment joined with the catalog and patient
// fields the admin search matches against.
type AppointmentDetail struct {
	Appointment
	PatientEmail   string `json:"patient_email" db:"patient_email"`
	PatientName    string `json:"patient_name" db:"patient_name"`
	DoctorName     string `json:"doctor_name" db:"doctor_name"`
	DepartmentName string `json:"department_name" db:"department_name"`
	ClinicName     string `json:"clinic_name" db:"clinic_name"`
}

// AppointmentStats are the admin dashboard counters.
type AppointmentStats struct {
	Total   int `json:"total"`
	Today   int `json:"today"`
	Pending int `json:"pending"`
}
