package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'doctor' CHECK (role IN ('admin', 'doctor', 'pharmacy')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS patients (
    id          INTEGER PRIMARY KEY,
    code        TEXT NOT NULL,
    name        TEXT NOT NULL,
    age         INTEGER NOT NULL DEFAULT 0,
    gender      TEXT NOT NULL DEFAULT '',
    phone       TEXT,
    email       TEXT,
    blood_group TEXT,
    condition   TEXT,
    priority    TEXT NOT NULL DEFAULT 'Low' CHECK (priority IN ('Low', 'Medium', 'High', 'Critical')),
    status      TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive', 'critical')),
    photo       BLOB,
    photo_thumb BLOB,
    photo_mime  TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at  DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_patients_code_active
    ON patients(code) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS doctors (
    id             INTEGER PRIMARY KEY,
    code           TEXT NOT NULL,
    name           TEXT NOT NULL,
    department     TEXT NOT NULL,
    specialization TEXT,
    phone          TEXT,
    email          TEXT,
    experience     INTEGER NOT NULL DEFAULT 0,
    status         TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive', 'on-leave')),
    availability   TEXT NOT NULL DEFAULT '{}',
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at     DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_doctors_code_active
    ON doctors(code) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS appointments (
    id         INTEGER PRIMARY KEY,
    code       TEXT NOT NULL,
    patient_id INTEGER NOT NULL REFERENCES patients(id),
    doctor_id  INTEGER NOT NULL REFERENCES doctors(id),
    date       TEXT NOT NULL,
    time       TEXT NOT NULL,
    type       TEXT NOT NULL CHECK (type IN ('consultation', 'follow-up', 'check-up', 'emergency')),
    status     TEXT NOT NULL DEFAULT 'scheduled'
                   CHECK (status IN ('scheduled', 'confirmed', 'in-progress', 'completed', 'cancelled')),
    notes      TEXT,
    department TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS beds (
    id                INTEGER PRIMARY KEY,
    bed_number        TEXT NOT NULL UNIQUE,
    ward              TEXT NOT NULL,
    floor             INTEGER NOT NULL,
    type              TEXT NOT NULL CHECK (type IN ('ICU', 'General', 'Private', 'Emergency')),
    status            TEXT NOT NULL DEFAULT 'Available'
                          CHECK (status IN ('Available', 'Occupied', 'Cleaning', 'Maintenance', 'Reserved')),
    patient_code      TEXT,
    patient_name      TEXT,
    admission_date    TEXT,
    patient_condition TEXT,
    last_cleaned      TEXT,
    maintenance_notes TEXT,
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS medicines (
    id           INTEGER PRIMARY KEY,
    name         TEXT NOT NULL,
    category     TEXT NOT NULL,
    supplier     TEXT,
    quantity     INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    min_stock    INTEGER NOT NULL DEFAULT 0 CHECK (min_stock >= 0),
    unit_price   REAL NOT NULL DEFAULT 0,
    expiry_date  TEXT NOT NULL,
    batch_number TEXT,
    status       TEXT NOT NULL CHECK (status IN ('in-stock', 'low-stock', 'out-of-stock', 'expired')),
    use_cases    TEXT NOT NULL DEFAULT '[]',
    last_updated TEXT NOT NULL,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at   DATETIME
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: beds joined the schema after the first deployments;
	// make sure existing databases index wards for the occupancy queries.
	`CREATE INDEX IF NOT EXISTS idx_beds_ward ON beds(ward)`,
	// Migration 2: appointment lookups by doctor and date.
	`CREATE INDEX IF NOT EXISTS idx_appointments_doctor_date ON appointments(doctor_id, date)`,
}

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
