package model

import "time"

// MedicineStatus is the stock status of a medicine. Seed data may carry
// statuses (expired, out-of-stock) that the creation-time derivation never
// produces, so the status is a settable field rather than a derived one.
type MedicineStatus string

// Medicine statuses.
const (
	MedicineInStock    MedicineStatus = "in-stock"
	MedicineLowStock   MedicineStatus = "low-stock"
	MedicineOutOfStock MedicineStatus = "out-of-stock"
	MedicineExpired    MedicineStatus = "expired"
)

// Valid reports whether s is one of the four medicine statuses.
func (s MedicineStatus) Valid() bool {
	switch s {
	case MedicineInStock, MedicineLowStock, MedicineOutOfStock, MedicineExpired:
		return true
	}
	return false
}

// DeriveMedicineStatus computes the status assigned to a newly created
// medicine: in-stock when the quantity exceeds the minimum stock level,
// low-stock otherwise.
func DeriveMedicineStatus(quantity, minStock int) MedicineStatus {
	if quantity > minStock {
		return MedicineInStock
	}
	return MedicineLowStock
}

// Medicine represents one medicine stock line in the pharmacy inventory.
type Medicine struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Supplier    string         `json:"supplier,omitempty"`
	Quantity    int            `json:"quantity"`
	MinStock    int            `json:"min_stock"`
	UnitPrice   float64        `json:"unit_price"`
	ExpiryDate  string         `json:"expiry_date"`
	BatchNumber string         `json:"batch_number,omitempty"`
	Status      MedicineStatus `json:"status"`
	UseCases    []string       `json:"use_cases"`
	LastUpdated string         `json:"last_updated"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   *time.Time     `json:"deleted_at,omitempty"`
}
