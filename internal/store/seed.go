package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medcarehq/medcare/internal/model"
)

// SeedDemo loads the demo dataset: the hospital's beds, a small patient
// pool, the medical staff, a few appointments, and the pharmacy inventory.
// Idempotent: does nothing if beds already exist.
func SeedDemo(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM beds`).Scan(&count); err != nil {
		return fmt.Errorf("checking existing beds: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := seedPatients(ctx, db); err != nil {
		return err
	}
	if err := seedBeds(ctx, db); err != nil {
		return err
	}
	if err := seedDoctors(ctx, db); err != nil {
		return err
	}
	if err := seedAppointments(ctx, db); err != nil {
		return err
	}
	return seedMedicines(ctx, db)
}

func seedPatients(ctx context.Context, db *sql.DB) error {
	patients := []model.Patient{
		{Code: "P001", Name: "John Smith", Age: 54, Gender: "Male", BloodGroup: "O+",
			Condition: "Post-surgery recovery", Priority: model.PriorityHigh, Status: model.PatientActive},
		{Code: "P002", Name: "Sarah Johnson", Age: 41, Gender: "Female", BloodGroup: "A+",
			Condition: "Pneumonia treatment", Priority: model.PriorityMedium, Status: model.PatientActive},
		{Code: "P003", Name: "Michael Brown", Age: 47, Gender: "Male", BloodGroup: "B+",
			Condition: "Diabetes management", Priority: model.PriorityMedium, Status: model.PatientActive},
		{Code: "P004", Name: "Emily Davis", Age: 29, Gender: "Female", BloodGroup: "AB+",
			Condition: "Trauma care", Priority: model.PriorityCritical, Status: model.PatientCritical},
		{Code: "P005", Name: "Robert Wilson", Age: 62, Gender: "Male", BloodGroup: "O-",
			Condition: "Post-operative care", Priority: model.PriorityMedium, Status: model.PatientActive},
		{Code: "P006", Name: "Lisa Anderson", Age: 38, Gender: "Female", BloodGroup: "A-",
			Condition: "Observation", Priority: model.PriorityLow, Status: model.PatientActive},
	}

	for i := range patients {
		if _, err := CreatePatient(ctx, db, &patients[i]); err != nil {
			return fmt.Errorf("seeding patient %s: %w", patients[i].Code, err)
		}
	}
	return nil
}

type seedBed struct {
	bedNumber string
	ward      string
	floor     int
	bedType   string
	status    model.BedStatus
	patient   *model.AssignedPatient
	cleaned   string
	notes     string
}

func seedBeds(ctx context.Context, db *sql.DB) error {
	beds := []seedBed{
		{"ICU-001", "ICU", 3, model.BedTypeICU, model.BedOccupied,
			&model.AssignedPatient{Code: "P001", Name: "John Smith", AdmissionDate: "2024-01-15", Condition: "Post-surgery recovery"},
			"2024-01-20 08:00", ""},
		{"ICU-002", "ICU", 3, model.BedTypeICU, model.BedAvailable, nil, "2024-01-20 10:30", ""},
		{"GEN-101", "General Ward A", 1, model.BedTypeGeneral, model.BedOccupied,
			&model.AssignedPatient{Code: "P002", Name: "Sarah Johnson", AdmissionDate: "2024-01-18", Condition: "Pneumonia treatment"},
			"2024-01-19 14:00", ""},
		{"GEN-102", "General Ward A", 1, model.BedTypeGeneral, model.BedCleaning, nil, "2024-01-20 11:00", ""},
		{"PVT-201", "Private Wing", 2, model.BedTypePrivate, model.BedReserved, nil, "2024-01-20 09:00", ""},
		{"GEN-103", "General Ward A", 1, model.BedTypeGeneral, model.BedMaintenance, nil,
			"2024-01-19 16:00", "Bed frame repair needed"},
		{"ICU-003", "ICU", 3, model.BedTypeICU, model.BedAvailable, nil, "2024-01-20 12:00", ""},
		{"GEN-201", "General Ward B", 2, model.BedTypeGeneral, model.BedOccupied,
			&model.AssignedPatient{Code: "P003", Name: "Michael Brown", AdmissionDate: "2024-01-19", Condition: "Diabetes management"},
			"2024-01-19 08:00", ""},
		{"EMG-001", "Emergency Department", 1, model.BedTypeEmergency, model.BedAvailable, nil, "2024-01-20 13:00", ""},
		{"EMG-002", "Emergency Department", 1, model.BedTypeEmergency, model.BedOccupied,
			&model.AssignedPatient{Code: "P004", Name: "Emily Davis", AdmissionDate: "2024-01-20", Condition: "Trauma care"},
			"2024-01-20 14:00", ""},
	}

	for _, b := range beds {
		var patientCode, patientName, admissionDate, patientCondition any
		if b.patient != nil {
			patientCode = b.patient.Code
			patientName = b.patient.Name
			admissionDate = b.patient.AdmissionDate
			patientCondition = b.patient.Condition
		}
		var notes any
		if b.notes != "" {
			notes = b.notes
		}

		_, err := db.ExecContext(ctx,
			`INSERT INTO beds (bed_number, ward, floor, type, status,
			        patient_code, patient_name, admission_date, patient_condition,
			        last_cleaned, maintenance_notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.bedNumber, b.ward, b.floor, b.bedType, b.status,
			patientCode, patientName, admissionDate, patientCondition,
			b.cleaned, notes,
		)
		if err != nil {
			return fmt.Errorf("seeding bed %s: %w", b.bedNumber, err)
		}
	}
	return nil
}

func seedDoctors(ctx context.Context, db *sql.DB) error {
	weekdays := model.Availability{
		"monday":    {Morning: true, Afternoon: true},
		"tuesday":   {Morning: true, Evening: true},
		"wednesday": {Morning: true, Afternoon: true},
		"thursday":  {Afternoon: true, Evening: true},
		"friday":    {Morning: true, Afternoon: true},
		"saturday":  {Morning: true},
	}

	doctors := []model.Doctor{
		{Code: "D001", Name: "Dr. Sarah Johnson", Department: "Cardiology",
			Specialization: "Interventional Cardiology", Experience: 12,
			Status: model.DoctorActive, Availability: weekdays},
		{Code: "D002", Name: "Dr. Michael Smith", Department: "Neurology",
			Specialization: "Pediatric Neurology", Experience: 8,
			Status: model.DoctorActive, Availability: weekdays},
		{Code: "D003", Name: "Dr. Emily Davis", Department: "Pediatrics",
			Specialization: "Neonatology", Experience: 15,
			Status: model.DoctorOnLeave},
	}

	for i := range doctors {
		if _, err := CreateDoctor(ctx, db, &doctors[i]); err != nil {
			return fmt.Errorf("seeding doctor %s: %w", doctors[i].Code, err)
		}
	}
	return nil
}

func seedAppointments(ctx context.Context, db *sql.DB) error {
	appointments := []model.Appointment{
		{Code: "A001", PatientID: 1, DoctorID: 1, Date: "2024-01-22", Time: "09:30",
			Type: model.AppointmentFollowUp, Status: model.AppointmentConfirmed, Department: "Cardiology"},
		{Code: "A002", PatientID: 3, DoctorID: 2, Date: "2024-01-22", Time: "11:00",
			Type: model.AppointmentConsultation, Status: model.AppointmentScheduled, Department: "Neurology"},
		{Code: "A003", PatientID: 6, DoctorID: 1, Date: "2024-01-23", Time: "14:15",
			Type: model.AppointmentCheckUp, Status: model.AppointmentScheduled, Department: "Cardiology",
			Notes: "Routine observation review"},
	}

	for i := range appointments {
		if _, err := CreateAppointment(ctx, db, &appointments[i]); err != nil {
			return fmt.Errorf("seeding appointment %s: %w", appointments[i].Code, err)
		}
	}
	return nil
}

func seedMedicines(ctx context.Context, db *sql.DB) error {
	medicines := []model.Medicine{
		{Name: "Paracetamol 500mg", Category: "Analgesic", Supplier: "MedSupply Co.",
			Quantity: 500, MinStock: 100, UnitPrice: 0.5, ExpiryDate: "2024-12-31",
			BatchNumber: "PAR001", Status: model.MedicineInStock, LastUpdated: "2024-01-15",
			UseCases: []string{"fever", "headache", "pain relief"}},
		{Name: "Amoxicillin 250mg", Category: "Antibiotic", Supplier: "PharmaCorp",
			Quantity: 75, MinStock: 150, UnitPrice: 1.2, ExpiryDate: "2024-11-15",
			BatchNumber: "AMX002", Status: model.MedicineLowStock, LastUpdated: "2024-01-14",
			UseCases: []string{"infection", "bacterial infection", "respiratory infection"}},
		{Name: "Insulin Glargine", Category: "Diabetes", Supplier: "Global Pharma",
			Quantity: 0, MinStock: 50, UnitPrice: 25.0, ExpiryDate: "2024-10-31",
			BatchNumber: "INS003", Status: model.MedicineOutOfStock, LastUpdated: "2024-01-13",
			UseCases: []string{"diabetes", "blood sugar control"}},
		{Name: "Aspirin 75mg", Category: "Cardiovascular", Supplier: "HealthMeds Ltd.",
			Quantity: 200, MinStock: 100, UnitPrice: 0.3, ExpiryDate: "2024-02-15",
			BatchNumber: "ASP004", Status: model.MedicineExpired, LastUpdated: "2024-01-12",
			UseCases: []string{"pain relief", "anti-inflammatory", "heart attack prevention"}},
		{Name: "Metformin 500mg", Category: "Diabetes", Supplier: "MedSupply Co.",
			Quantity: 300, MinStock: 200, UnitPrice: 0.8, ExpiryDate: "2025-06-30",
			BatchNumber: "MET005", Status: model.MedicineInStock, LastUpdated: "2024-01-16",
			UseCases: []string{"diabetes", "blood sugar control", "PCOS"}},
		{Name: "Lisinopril 10mg", Category: "Cardiovascular", Supplier: "PharmaCorp",
			Quantity: 120, MinStock: 200, UnitPrice: 1.5, ExpiryDate: "2024-09-20",
			BatchNumber: "LIS006", Status: model.MedicineLowStock, LastUpdated: "2024-01-11",
			UseCases: []string{"hypertension", "heart failure"}},
	}

	for i := range medicines {
		if err := createSeedMedicine(ctx, db, &medicines[i]); err != nil {
			return fmt.Errorf("seeding medicine %s: %w", medicines[i].Name, err)
		}
	}
	return nil
}
