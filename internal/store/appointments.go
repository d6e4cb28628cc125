package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medcarehq/medcare/internal/model"
)

const appointmentSelect = `SELECT a.id, a.code, a.patient_id, a.doctor_id, a.date, a.time,
	a.type, a.status, a.notes, a.department, a.created_at, a.updated_at,
	p.name AS patient_name, d.name AS doctor_name
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id`

// CreateAppointment schedules an appointment. The referenced patient and
// doctor must exist.
func CreateAppointment(ctx context.Context, db *sql.DB, a *model.Appointment) (*model.Appointment, error) {
	if !model.ValidAppointmentType(a.Type) {
		return nil, fmt.Errorf("invalid appointment type %q", a.Type)
	}
	if a.Status == "" {
		a.Status = model.AppointmentScheduled
	}
	if !model.ValidAppointmentStatus(a.Status) {
		return nil, fmt.Errorf("invalid appointment status %q", a.Status)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM patients WHERE id = ? AND deleted_at IS NULL`, a.PatientID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking patient: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("patient %d: %w", a.PatientID, ErrNotFound)
	}

	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM doctors WHERE id = ? AND deleted_at IS NULL`, a.DoctorID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking doctor: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("doctor %d: %w", a.DoctorID, ErrNotFound)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO appointments (code, patient_id, doctor_id, date, time, type, status, notes, department)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Code, a.PatientID, a.DoctorID, a.Date, a.Time, a.Type, a.Status, a.Notes, a.Department,
	)
	if err != nil {
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing appointment: %w", err)
	}

	id, _ := result.LastInsertId()
	return GetAppointment(ctx, db, id)
}

// GetAppointment returns an appointment by ID with joined names.
func GetAppointment(ctx context.Context, db *sql.DB, id int64) (*model.Appointment, error) {
	row := db.QueryRowContext(ctx, appointmentSelect+` WHERE a.id = ?`, id)
	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting appointment: %w", err)
	}
	return a, nil
}

// ListAppointments returns appointments, optionally filtered by doctor,
// date, or status, most recent date first.
func ListAppointments(ctx context.Context, db *sql.DB, doctorID int64, date, status string) ([]model.Appointment, error) {
	query := appointmentSelect + ` WHERE 1=1`
	var args []any

	if doctorID > 0 {
		query += ` AND a.doctor_id = ?`
		args = append(args, doctorID)
	}
	if date != "" {
		query += ` AND a.date = ?`
		args = append(args, date)
	}
	if status != "" && status != "all" {
		query += ` AND a.status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY a.date DESC, a.time`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	defer rows.Close()

	var appointments []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning appointment: %w", err)
		}
		appointments = append(appointments, *a)
	}
	return appointments, rows.Err()
}

// UpdateAppointmentStatus moves an appointment to a new status.
func UpdateAppointmentStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	if !model.ValidAppointmentStatus(status) {
		return fmt.Errorf("invalid appointment status %q", status)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE appointments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating appointment status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("appointment %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteAppointment removes an appointment.
func DeleteAppointment(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting appointment: %w", err)
	}
	return nil
}

func scanAppointment(s scanner) (*model.Appointment, error) {
	a := &model.Appointment{}
	var notes, department sql.NullString

	err := s.Scan(&a.ID, &a.Code, &a.PatientID, &a.DoctorID, &a.Date, &a.Time,
		&a.Type, &a.Status, &notes, &department, &a.CreatedAt, &a.UpdatedAt,
		&a.PatientName, &a.DoctorName)
	if err != nil {
		return nil, err
	}

	a.Notes = notes.String
	a.Department = department.String
	return a, nil
}
