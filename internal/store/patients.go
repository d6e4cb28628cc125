package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medcarehq/medcare/internal/model"
)

const patientColumns = `id, code, name, age, gender, phone, email, blood_group,
	condition, priority, status, photo_mime, created_at, updated_at, deleted_at`

// CreatePatient registers a new patient.
func CreatePatient(ctx context.Context, db *sql.DB, p *model.Patient) (*model.Patient, error) {
	if p.Priority == "" {
		p.Priority = model.PriorityLow
	}
	if p.Status == "" {
		p.Status = model.PatientActive
	}
	if !model.ValidPriority(p.Priority) {
		return nil, fmt.Errorf("invalid priority %q", p.Priority)
	}
	if !model.ValidPatientStatus(p.Status) {
		return nil, fmt.Errorf("invalid patient status %q", p.Status)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO patients (code, name, age, gender, phone, email, blood_group, condition, priority, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Code, p.Name, p.Age, p.Gender, p.Phone, p.Email, p.BloodGroup, p.Condition, p.Priority, p.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting patient id: %w", err)
	}

	return GetPatient(ctx, db, id)
}

// GetPatient returns a patient by ID.
func GetPatient(ctx context.Context, db *sql.DB, id int64) (*model.Patient, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE id = ?`, id,
	)
	p, err := scanPatient(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting patient: %w", err)
	}
	return p, nil
}

// GetPatientByCode returns a patient by display code (e.g. "P005").
func GetPatientByCode(ctx context.Context, db *sql.DB, code string) (*model.Patient, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE code = ? AND deleted_at IS NULL`, code,
	)
	p, err := scanPatient(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting patient by code: %w", err)
	}
	return p, nil
}

// ListPatients returns all non-deleted patients, optionally filtered by status.
func ListPatients(ctx context.Context, db *sql.DB, status string) ([]model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE deleted_at IS NULL`
	var args []any

	if status != "" && status != "all" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY code`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	defer rows.Close()

	var patients []model.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning patient: %w", err)
		}
		patients = append(patients, *p)
	}
	return patients, rows.Err()
}

// UpdatePatient updates a patient's record.
func UpdatePatient(ctx context.Context, db *sql.DB, id int64, p *model.Patient) error {
	if !model.ValidPriority(p.Priority) {
		return fmt.Errorf("invalid priority %q", p.Priority)
	}
	if !model.ValidPatientStatus(p.Status) {
		return fmt.Errorf("invalid patient status %q", p.Status)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE patients SET name = ?, age = ?, gender = ?, phone = ?, email = ?,
		        blood_group = ?, condition = ?, priority = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		p.Name, p.Age, p.Gender, p.Phone, p.Email, p.BloodGroup, p.Condition, p.Priority, p.Status, id,
	)
	if err != nil {
		return fmt.Errorf("updating patient: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("patient %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeletePatient soft-deletes a patient.
func DeletePatient(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE patients SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting patient: %w", err)
	}
	return nil
}

// SetPatientPhoto stores a patient's photo and its thumbnail.
func SetPatientPhoto(ctx context.Context, db *sql.DB, id int64, photo, thumb []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE patients SET photo = ?, photo_thumb = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		photo, thumb, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting patient photo: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("patient %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetPatientPhoto returns a patient's photo data and MIME type. Set thumb
// to return the thumbnail instead of the full photo.
func GetPatientPhoto(ctx context.Context, db *sql.DB, id int64, thumb bool) ([]byte, string, error) {
	column := "photo"
	if thumb {
		column = "photo_thumb"
	}
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT `+column+`, photo_mime FROM patients WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting patient photo: %w", err)
	}
	return photo, mime.String, nil
}

func scanPatient(s scanner) (*model.Patient, error) {
	p := &model.Patient{}
	var phone, email, bloodGroup, condition, photoMime sql.NullString

	err := s.Scan(&p.ID, &p.Code, &p.Name, &p.Age, &p.Gender, &phone, &email, &bloodGroup,
		&condition, &p.Priority, &p.Status, &photoMime, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		return nil, err
	}

	p.Phone = phone.String
	p.Email = email.String
	p.BloodGroup = bloodGroup.String
	p.Condition = condition.String
	p.PhotoMime = photoMime.String
	return p, nil
}
