package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
)

func (r *catalogRepository) CreateClinic(ctx context.Context, clinic *model.Clinic) error {
	query := `INSERT INTO clinics (id, name, created_at) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, clinic.ID, clinic.Name, clinic.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create clinic: %w", err)
	}
	return nil
}

func (r *catalogRepository) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	var clinic model.Clinic
	err := r.db.GetContext(ctx, &clinic, `SELECT id, name, created_at FROM clinics WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("clinic", err)
		}
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return &clinic, nil
}

func (r *catalogRepository) GetClinicByName(ctx context.Context, name string) (*model.Clinic, error) {
	var clinic model.Clinic
	err := r.db.GetContext(ctx, &clinic, `SELECT id, name, created_at FROM clinics WHERE name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("clinic", err)
		}
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return &clinic, nil
}

func (r *catalogRepository) ListClinics(ctx context.Context) ([]*model.Clinic, error) {
	var clinics []*model.Clinic
	err := r.db.SelectContext(ctx, &clinics, `SELECT id, name, created_at FROM clinics ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	return clinics, nil
}

func (r *catalogRepository) CreateDepartment(ctx context.Context, dept *model.Department) error {
	query := `INSERT INTO departments (id, name, clinic_id, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, dept.ID, dept.Name, dept.ClinicID, dept.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (r *catalogRepository) GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	var dept model.Department
	err := r.db.GetContext(ctx, &dept, `SELECT id, name, clinic_id, created_at FROM departments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("department", err)
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &dept, nil
}

func (r *catalogRepository) GetDepartmentByName(ctx context.Context, clinicID uuid.UUID, name string) (*model.Department, error) {
	query := `SELECT id, name, clinic_id, created_at FROM departments WHERE clinic_id = $1 AND name = $2`
	var dept model.Department
	err := r.db.GetContext(ctx, &dept, query, clinicID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("department", err)
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &dept, nil
}

func (r *catalogRepository) ListDepartments(ctx context.Context, clinicID uuid.UUID) ([]*model.Department, error) {
	query := `SELECT id, name, clinic_id, created_at FROM departments`
	args := []interface{}{}
	if clinicID != uuid.Nil {
		query += " WHERE clinic_id = $1"
		args = append(args, clinicID)
	}
	query += " ORDER BY name ASC"

	var depts []*model.Department
	err := r.db.SelectContext(ctx, &depts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return depts, nil
}

func (r *catalogRepository) CreateDoctor(ctx context.Context, doctor *model.Doctor) error {
	query := `INSERT INTO doctors (id, full_name, department_id, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, doctor.ID, doctor.FullName, doctor.DepartmentID, doctor.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *catalogRepository) GetDoctorInfo(ctx context.Context, id uuid.UUID) (*model.DoctorInfo, error) {
	query := `
		SELECT d.id, d.full_name, d.department_id, dep.clinic_id
		FROM doctors d
		JOIN departments dep ON dep.id = d.department_id
		WHERE d.id = $1
	`
	var info model.DoctorInfo
	err := r.db.GetContext(ctx, &info, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.DoctorNotFound(err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &info, nil
}

func (r *catalogRepository) ListDoctors(ctx context.Context, filter model.DoctorFilter) ([]*model.DoctorInfo, error) {
	query := `
		SELECT d.id, d.full_name, d.department_id, dep.clinic_id
		FROM doctors d
		JOIN departments dep ON dep.id = d.department_id
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filter.DepartmentID != uuid.Nil {
		query += fmt.Sprintf(" AND d.department_id = $%d", argCount)
		args = append(args, filter.DepartmentID)
		argCount++
	}
	if filter.ClinicID != uuid.Nil {
		query += fmt.Sprintf(" AND dep.clinic_id = $%d", argCount)
		args = append(args, filter.ClinicID)
		argCount++
	}
	query += " ORDER BY d.full_name ASC"

	var doctors []*model.DoctorInfo
	err := r.db.SelectContext(ctx, &doctors, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
