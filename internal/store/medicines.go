package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/medcarehq/medcare/internal/model"
)

const medicineColumns = `id, name, category, supplier, quantity, min_stock, unit_price,
	expiry_date, batch_number, status, use_cases, last_updated, created_at, updated_at, deleted_at`

// CreateMedicine adds a new medicine stock line. Its status is derived
// from quantity vs minimum stock (in-stock or low-stock) and last_updated
// is stamped with today's date.
func CreateMedicine(ctx context.Context, db *sql.DB, m *model.Medicine) (*model.Medicine, error) {
	if m.Quantity < 0 || m.MinStock < 0 {
		return nil, fmt.Errorf("quantity and minimum stock must not be negative")
	}
	if m.UnitPrice < 0 {
		return nil, fmt.Errorf("unit price must not be negative")
	}
	if _, err := time.Parse(dateFormat, m.ExpiryDate); err != nil {
		return nil, fmt.Errorf("invalid expiry date %q: %w", m.ExpiryDate, err)
	}

	m.Status = model.DeriveMedicineStatus(m.Quantity, m.MinStock)
	m.LastUpdated = time.Now().Format(dateFormat)

	useCases, err := marshalUseCases(m.UseCases)
	if err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO medicines (name, category, supplier, quantity, min_stock, unit_price,
		        expiry_date, batch_number, status, use_cases, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.Category, m.Supplier, m.Quantity, m.MinStock, m.UnitPrice,
		m.ExpiryDate, m.BatchNumber, m.Status, useCases, m.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("creating medicine: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting medicine id: %w", err)
	}

	return GetMedicine(ctx, db, id)
}

// createSeedMedicine inserts a medicine keeping its literal status and
// last_updated date. Seed data carries statuses (expired, out-of-stock)
// the creation derivation never produces.
func createSeedMedicine(ctx context.Context, db *sql.DB, m *model.Medicine) error {
	if !m.Status.Valid() {
		return fmt.Errorf("invalid medicine status %q", m.Status)
	}

	useCases, err := marshalUseCases(m.UseCases)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO medicines (name, category, supplier, quantity, min_stock, unit_price,
		        expiry_date, batch_number, status, use_cases, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.Category, m.Supplier, m.Quantity, m.MinStock, m.UnitPrice,
		m.ExpiryDate, m.BatchNumber, m.Status, useCases, m.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("creating seed medicine: %w", err)
	}
	return nil
}

// GetMedicine returns a medicine by ID.
func GetMedicine(ctx context.Context, db *sql.DB, id int64) (*model.Medicine, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+medicineColumns+` FROM medicines WHERE id = ?`, id,
	)
	m, err := scanMedicine(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting medicine: %w", err)
	}
	return m, nil
}

// GetMedicineByName returns a non-deleted medicine by name, or nil if
// no such medicine exists.
func GetMedicineByName(ctx context.Context, db *sql.DB, name string) (*model.Medicine, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+medicineColumns+` FROM medicines WHERE name = ? AND deleted_at IS NULL`, name,
	)
	m, err := scanMedicine(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting medicine by name: %w", err)
	}
	return m, nil
}

// ListMedicines returns all non-deleted medicines ordered by name. The
// dashboard's filtering, sorting, and grouping run in memory over this
// list (see the report package); collections are small.
func ListMedicines(ctx context.Context, db *sql.DB) ([]model.Medicine, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+medicineColumns+` FROM medicines WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing medicines: %w", err)
	}
	defer rows.Close()

	var medicines []model.Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning medicine: %w", err)
		}
		medicines = append(medicines, *m)
	}
	return medicines, rows.Err()
}

// UpdateMedicineStatus sets a medicine's stock status. Status is a
// settable field, not a derived one.
func UpdateMedicineStatus(ctx context.Context, db *sql.DB, id int64, status model.MedicineStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid medicine status %q", status)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE medicines SET status = ?, last_updated = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		status, time.Now().Format(dateFormat), id,
	)
	if err != nil {
		return fmt.Errorf("updating medicine status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("medicine %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteMedicine soft-deletes a medicine.
func DeleteMedicine(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE medicines SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting medicine: %w", err)
	}
	return nil
}

func marshalUseCases(useCases []string) (string, error) {
	if useCases == nil {
		useCases = []string{}
	}
	data, err := json.Marshal(useCases)
	if err != nil {
		return "", fmt.Errorf("encoding use cases: %w", err)
	}
	return string(data), nil
}

func scanMedicine(s scanner) (*model.Medicine, error) {
	m := &model.Medicine{}
	var supplier, batchNumber sql.NullString
	var useCases string

	err := s.Scan(&m.ID, &m.Name, &m.Category, &supplier, &m.Quantity, &m.MinStock, &m.UnitPrice,
		&m.ExpiryDate, &batchNumber, &m.Status, &useCases, &m.LastUpdated,
		&m.CreatedAt, &m.UpdatedAt, &m.DeletedAt)
	if err != nil {
		return nil, err
	}

	m.Supplier = supplier.String
	m.BatchNumber = batchNumber.String
	if err := json.Unmarshal([]byte(useCases), &m.UseCases); err != nil {
		return nil, fmt.Errorf("decoding use cases: %w", err)
	}
	return m, nil
}
