package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/medcarehq/medcare/internal/model"
)

// Timestamp formats used in bed columns. The dashboard renders these
// verbatim, so they are stored as text rather than DATETIME.
const (
	dateFormat    = "2006-01-02"
	cleanedFormat = "2006-01-02 15:04"
)

const bedColumns = `id, bed_number, ward, floor, type, status,
	patient_code, patient_name, admission_date, patient_condition,
	last_cleaned, maintenance_notes, created_at, updated_at`

// BedQuery holds optional filters for ListBeds. Zero values mean "all".
type BedQuery struct {
	Search string
	Ward   string
	Status string
	Type   string
}

// CreateBed creates a new bed in the Available state.
func CreateBed(ctx context.Context, db *sql.DB, bedNumber, ward string, floor int, bedType string) (*model.Bed, error) {
	if !model.ValidBedType(bedType) {
		return nil, fmt.Errorf("invalid bed type %q", bedType)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO beds (bed_number, ward, floor, type) VALUES (?, ?, ?, ?)`,
		bedNumber, ward, floor, bedType,
	)
	if err != nil {
		return nil, fmt.Errorf("creating bed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting bed id: %w", err)
	}

	return GetBed(ctx, db, id)
}

// GetBed returns a bed by ID.
func GetBed(ctx context.Context, db *sql.DB, id int64) (*model.Bed, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+bedColumns+` FROM beds WHERE id = ?`, id,
	)
	bed, err := scanBed(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting bed: %w", err)
	}
	return bed, nil
}

// GetBedByNumber returns a bed by its display code (e.g. "ICU-002").
func GetBedByNumber(ctx context.Context, db *sql.DB, bedNumber string) (*model.Bed, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+bedColumns+` FROM beds WHERE bed_number = ?`, bedNumber,
	)
	bed, err := scanBed(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting bed by number: %w", err)
	}
	return bed, nil
}

// ListBeds returns beds matching the query, ordered by bed number.
// The search term matches bed number, ward, or assigned patient name,
// case-insensitively.
func ListBeds(ctx context.Context, db *sql.DB, q BedQuery) ([]model.Bed, error) {
	query := `SELECT ` + bedColumns + ` FROM beds WHERE 1=1`
	var args []any

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		query += ` AND (LOWER(bed_number) LIKE ? OR LOWER(ward) LIKE ? OR LOWER(COALESCE(patient_name, '')) LIKE ?)`
		args = append(args, pattern, pattern, pattern)
	}
	if q.Ward != "" && q.Ward != "all" {
		query += ` AND ward = ?`
		args = append(args, q.Ward)
	}
	if q.Status != "" && q.Status != "all" {
		query += ` AND status = ?`
		args = append(args, q.Status)
	}
	if q.Type != "" && q.Type != "all" {
		query += ` AND type = ?`
		args = append(args, q.Type)
	}

	query += ` ORDER BY bed_number`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing beds: %w", err)
	}
	defer rows.Close()

	var beds []model.Bed
	for rows.Next() {
		bed, err := scanBed(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bed: %w", err)
		}
		beds = append(beds, *bed)
	}
	return beds, rows.Err()
}

// AssignPatient assigns a patient to a bed: the bed becomes Occupied and
// carries a snapshot of the patient's code, name, and condition with
// today's date as the admission date. The patient stays in the candidate
// pool; the snapshot is not kept consistent afterwards.
func AssignPatient(ctx context.Context, db *sql.DB, bedID, patientID int64) (*model.Bed, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var code, name string
	var condition sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT code, name, condition FROM patients WHERE id = ? AND deleted_at IS NULL`,
		patientID,
	).Scan(&code, &name, &condition)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("patient %d: %w", patientID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting patient: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE beds SET status = ?, patient_code = ?, patient_name = ?,
		        admission_date = ?, patient_condition = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		model.BedOccupied, code, name, time.Now().Format(dateFormat), condition.String, bedID,
	)
	if err != nil {
		return nil, fmt.Errorf("assigning patient: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("bed %d: %w", bedID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing assignment: %w", err)
	}

	return GetBed(ctx, db, bedID)
}

// UpdateBedStatus sets a bed's status. Any of the five statuses is
// reachable from any other; there is no transition table. Leaving
// Occupied always clears the patient snapshot. A non-empty notes argument
// overwrites the maintenance notes; an empty one preserves them.
func UpdateBedStatus(ctx context.Context, db *sql.DB, bedID int64, status model.BedStatus, notes string) (*model.Bed, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid bed status %q", status)
	}

	query := `UPDATE beds SET status = ?, updated_at = CURRENT_TIMESTAMP`
	args := []any{status}

	if status != model.BedOccupied {
		query += `, patient_code = NULL, patient_name = NULL,
		          admission_date = NULL, patient_condition = NULL`
	}
	if notes != "" {
		query += `, maintenance_notes = ?`
		args = append(args, notes)
	}

	query += ` WHERE id = ?`
	args = append(args, bedID)

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating bed status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("bed %d: %w", bedID, ErrNotFound)
	}

	return GetBed(ctx, db, bedID)
}

// DischargePatient discharges whoever occupies the bed: the bed becomes
// Available, the patient snapshot and maintenance notes are cleared, and
// the cleaning timestamp is refreshed.
func DischargePatient(ctx context.Context, db *sql.DB, bedID int64) (*model.Bed, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE beds SET status = ?, patient_code = NULL, patient_name = NULL,
		        admission_date = NULL, patient_condition = NULL,
		        maintenance_notes = NULL, last_cleaned = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		model.BedAvailable, time.Now().Format(cleanedFormat), bedID,
	)
	if err != nil {
		return nil, fmt.Errorf("discharging patient: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("bed %d: %w", bedID, ErrNotFound)
	}

	return GetBed(ctx, db, bedID)
}

// MarkCleaningComplete moves a bed from Cleaning back to Available and
// stamps the cleaning time. Only valid while the bed is in Cleaning.
func MarkCleaningComplete(ctx context.Context, db *sql.DB, bedID int64) (*model.Bed, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE beds SET status = ?, last_cleaned = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.BedAvailable, time.Now().Format(cleanedFormat), bedID, model.BedCleaning,
	)
	if err != nil {
		return nil, fmt.Errorf("marking cleaning complete: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		bed, err := GetBed(ctx, db, bedID)
		if err != nil {
			return nil, err
		}
		if bed == nil {
			return nil, fmt.Errorf("bed %d: %w", bedID, ErrNotFound)
		}
		return nil, fmt.Errorf("bed %s is %s, not Cleaning: %w", bed.BedNumber, bed.Status, ErrInvalidState)
	}

	return GetBed(ctx, db, bedID)
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBed(s scanner) (*model.Bed, error) {
	bed := &model.Bed{}
	var patientCode, patientName, admissionDate, patientCondition sql.NullString
	var lastCleaned, maintenanceNotes sql.NullString

	err := s.Scan(&bed.ID, &bed.BedNumber, &bed.Ward, &bed.Floor, &bed.Type, &bed.Status,
		&patientCode, &patientName, &admissionDate, &patientCondition,
		&lastCleaned, &maintenanceNotes, &bed.CreatedAt, &bed.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if patientCode.Valid {
		bed.AssignedPatient = &model.AssignedPatient{
			Code:          patientCode.String,
			Name:          patientName.String,
			AdmissionDate: admissionDate.String,
			Condition:     patientCondition.String,
		}
	}
	bed.LastCleaned = lastCleaned.String
	bed.MaintenanceNotes = maintenanceNotes.String
	return bed, nil
}
