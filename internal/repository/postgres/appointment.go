package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jwalitptl/booking-api/internal/model"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
)

// Name of the partial unique index enforcing one active appointment per
// (doctor, start_at). Cancelled rows are excluded, so a cancelled slot can be
// rebooked without tripping it.
const activeSlotIndex = "uq_appointments_doctor_start_active"

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == constraint
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, start_at, note, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.StartAt,
		appointment.Note,
		appointment.Status,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, activeSlotIndex) {
			return apperrors.SlotTaken(err)
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, start_at, note, status,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.AppointmentNotFound(err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, patient_id, doctor_id, start_at, note, status,
				  created_at, updated_at
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, status, time.Now(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.AppointmentNotFound(err)
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.AppointmentNotFound(nil)
	}
	return nil
}

func (r *appointmentRepository) OccupiedStarts(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	query := `
		SELECT start_at
		FROM appointments
		WHERE doctor_id = $1
		AND start_at >= $2
		AND start_at < $3
		AND status != 'cancelled'
	`
	var starts []time.Time
	err := r.db.SelectContext(ctx, &starts, query, doctorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get occupied slots: %w", err)
	}
	return starts, nil
}

func (r *appointmentRepository) IsSlotTaken(ctx context.Context, doctorID uuid.UUID, startAt time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			AND start_at = $2
			AND status IN ('pending', 'confirmed')
		)
	`
	var taken bool
	err := r.db.GetContext(ctx, &taken, query, doctorID, startAt)
	if err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return taken, nil
}

func (r *appointmentRepository) ListDetails(ctx context.Context, status model.AppointmentStatus) ([]*model.AppointmentDetail, error) {
	query := `
		SELECT a.id, a.patient_id, a.doctor_id, a.start_at, a.note, a.status,
			   a.created_at, a.updated_at,
			   u.email AS patient_email,
			   TRIM(u.first_name || ' ' || u.last_name) AS patient_name,
			   doc.full_name AS doctor_name,
			   dep.name AS department_name,
			   c.name AS clinic_name
		FROM appointments a
		JOIN users u ON u.id = a.patient_id
		JOIN doctors doc ON doc.id = a.doctor_id
		JOIN departments dep ON dep.id = doc.department_id
		JOIN clinics c ON c.id = dep.clinic_id
	`
	args := []interface{}{}
	if status != "" {
		query += " WHERE a.status = $1"
		args = append(args, status)
	}
	query += " ORDER BY a.start_at DESC"

	var details []*model.AppointmentDetail
	err := r.db.SelectContext(ctx, &details, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return details, nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, start_at, note, status,
			   created_at, updated_at
		FROM appointments
		WHERE patient_id = $1
		ORDER BY start_at DESC
		LIMIT $2
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM appointments`)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountStartingBetween(ctx context.Context, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE start_at >= $1 AND start_at < $2
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments in range: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountByStatus(ctx context.Context, status model.AppointmentStatus) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM appointments WHERE status = $1`, status)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments by status: %w", err)
	}
	return count, nil
}
