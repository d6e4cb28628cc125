package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/medcarehq/medcare/internal/model"
)

const doctorColumns = `id, code, name, department, specialization, phone, email,
	experience, status, availability, created_at, updated_at, deleted_at`

// CreateDoctor registers a new doctor.
func CreateDoctor(ctx context.Context, db *sql.DB, d *model.Doctor) (*model.Doctor, error) {
	if d.Status == "" {
		d.Status = model.DoctorActive
	}
	if !model.ValidDoctorStatus(d.Status) {
		return nil, fmt.Errorf("invalid doctor status %q", d.Status)
	}

	availability, err := marshalAvailability(d.Availability)
	if err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO doctors (code, name, department, specialization, phone, email, experience, status, availability)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Code, d.Name, d.Department, d.Specialization, d.Phone, d.Email, d.Experience, d.Status, availability,
	)
	if err != nil {
		return nil, fmt.Errorf("creating doctor: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting doctor id: %w", err)
	}

	return GetDoctor(ctx, db, id)
}

// GetDoctor returns a doctor by ID.
func GetDoctor(ctx context.Context, db *sql.DB, id int64) (*model.Doctor, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+doctorColumns+` FROM doctors WHERE id = ?`, id,
	)
	d, err := scanDoctor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting doctor: %w", err)
	}
	return d, nil
}

// ListDoctors returns all non-deleted doctors, optionally filtered by
// department and status.
func ListDoctors(ctx context.Context, db *sql.DB, department, status string) ([]model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE deleted_at IS NULL`
	var args []any

	if department != "" && department != "all" {
		query += ` AND department = ?`
		args = append(args, department)
	}
	if status != "" && status != "all" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing doctors: %w", err)
	}
	defer rows.Close()

	var doctors []model.Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning doctor: %w", err)
		}
		doctors = append(doctors, *d)
	}
	return doctors, rows.Err()
}

// UpdateDoctor updates a doctor's record.
func UpdateDoctor(ctx context.Context, db *sql.DB, id int64, d *model.Doctor) error {
	if !model.ValidDoctorStatus(d.Status) {
		return fmt.Errorf("invalid doctor status %q", d.Status)
	}

	availability, err := marshalAvailability(d.Availability)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE doctors SET name = ?, department = ?, specialization = ?, phone = ?,
		        email = ?, experience = ?, status = ?, availability = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		d.Name, d.Department, d.Specialization, d.Phone, d.Email, d.Experience, d.Status, availability, id,
	)
	if err != nil {
		return fmt.Errorf("updating doctor: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("doctor %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteDoctor soft-deletes a doctor.
func DeleteDoctor(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE doctors SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting doctor: %w", err)
	}
	return nil
}

func marshalAvailability(a model.Availability) (string, error) {
	if a == nil {
		return "{}", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encoding availability: %w", err)
	}
	return string(data), nil
}

func scanDoctor(s scanner) (*model.Doctor, error) {
	d := &model.Doctor{}
	var specialization, phone, email sql.NullString
	var availability string

	err := s.Scan(&d.ID, &d.Code, &d.Name, &d.Department, &specialization, &phone, &email,
		&d.Experience, &d.Status, &availability, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt)
	if err != nil {
		return nil, err
	}

	d.Specialization = specialization.String
	d.Phone = phone.String
	d.Email = email.String
	if availability != "" && availability != "{}" {
		if err := json.Unmarshal([]byte(availability), &d.Availability); err != nil {
			return nil, fmt.Errorf("decoding availability: %w", err)
		}
	}
	return d, nil
}
