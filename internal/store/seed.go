package store

import (
	"fmt"
	"time"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// Demo credentials of the seeded accounts.
const (
	DemoCustomerEmail = "chauffeur@mobilitaxi.ca"
	DemoStaffEmail    = "atelier@mobilitaxi.ca"
	DemoPassword      = "password123"
)

func day(t time.Time) string { return t.Format(models.DateLayout) }

func strPtr(s string) *string { return &s }

func pricePtr(p float64) *float64 { return &p }

func seedVehicles(now time.Time) []models.Vehicle {
	return []models.Vehicle{
		{
			ID: "veh-1", Make: "Toyota", Model: "Camry Hybride", Year: 2021,
			LicensePlate: "T123456", Status: models.VehicleStatusActive,
			Documents: []models.Document{
				{ID: "doc-1", Type: "Immatriculation", URL: "/documents/veh-1/immatriculation.pdf",
					ExpiryDate: strPtr(day(now.AddDate(0, 8, 0))), DateAdded: now.AddDate(0, -10, 0)},
				{ID: "doc-2", Type: "Assurance", URL: "/documents/veh-1/assurance.pdf",
					ExpiryDate: strPtr(day(now.AddDate(0, 0, 20))), FolderID: strPtr("folder-insurance"),
					DateAdded: now.AddDate(0, -6, 0)},
				{ID: "doc-3", Type: "Permis de taxi", URL: "/documents/veh-1/permis.pdf",
					DateAdded: now.AddDate(-1, 0, 0)},
			},
		},
		{
			ID: "veh-2", Make: "Toyota", Model: "Prius V", Year: 2019,
			LicensePlate: "T654321", Status: models.VehicleStatusActive,
			Documents: []models.Document{
				{ID: "doc-4", Type: "Inspection mécanique", URL: "/documents/veh-2/inspection.pdf",
					ExpiryDate: strPtr(day(now.AddDate(0, 0, -5))), DateAdded: now.AddDate(-1, 0, 0)},
			},
		},
		{
			ID: "veh-3", Make: "Kia", Model: "Niro EV", Year: 2023,
			LicensePlate: "T778899", Status: models.VehicleStatusInService,
			Documents: []models.Document{},
		},
	}
}

func seedAppointments(now time.Time) []models.Appointment {
	return []models.Appointment{
		{ID: "apt-1", Date: day(now.AddDate(0, -2, 0)), Time: "09:00", ServiceType: models.ServiceTypeInspection,
			VehicleID: "veh-1", CenterID: "ctr-1", Status: models.AppointmentCompleted,
			CreatedAt: now.AddDate(0, -3, 0), UpdatedAt: now.AddDate(0, -2, 0)},
		{ID: "apt-2", Date: day(now.AddDate(0, 0, -10)), Time: "14:30", ServiceType: models.ServiceTypeRepair,
			VehicleID: "veh-2", CenterID: "ctr-2", Status: models.AppointmentCancelled,
			CreatedAt: now.AddDate(0, -1, 0), UpdatedAt: now.AddDate(0, 0, -12)},
		{ID: "apt-3", Date: day(now.AddDate(0, 0, 7)), Time: "10:15", ServiceType: models.ServiceTypeRepair,
			VehicleID: "veh-1", CenterID: "ctr-1", Status: models.AppointmentConfirmed,
			CreatedAt: now.AddDate(0, 0, -3), UpdatedAt: now.AddDate(0, 0, -2)},
		{ID: "apt-4", Date: day(now.AddDate(0, 0, 14)), Time: "08:00", ServiceType: models.ServiceTypeInspection,
			VehicleID: "veh-3", CenterID: "ctr-2", Status: models.AppointmentPending,
			CreatedAt: now.AddDate(0, 0, -1), UpdatedAt: now.AddDate(0, 0, -1)},
	}
}

func seedServices() []models.Service {
	return []models.Service{
		{ID: "svc-1", Name: "Inspection SAAQ", Category: models.CategoryInspection,
			Description: "Inspection mécanique obligatoire des véhicules de taxi",
			EstimatedDurationMinutes: 60, Price: pricePtr(145)},
		{ID: "svc-2", Name: "Vidange d'huile", Category: models.CategoryMaintenance,
			Description: "Huile synthétique et filtre", EstimatedDurationMinutes: 30, Price: pricePtr(89.95)},
		{ID: "svc-3", Name: "Rotation des pneus", Category: models.CategoryMaintenance,
			EstimatedDurationMinutes: 45, Price: pricePtr(49.95)},
		{ID: "svc-4", Name: "Freins avant", Category: models.CategoryRepair,
			Description: "Plaquettes et disques", EstimatedDurationMinutes: 120, Price: pricePtr(389)},
		{ID: "svc-5", Name: "Diagnostic moteur", Category: models.CategoryRepair,
			Description: "Prix sur estimation", EstimatedDurationMinutes: 90},
		{ID: "svc-6", Name: "Installation taximètre certifié", Category: models.CategoryCertification,
			EstimatedDurationMinutes: 180, Price: pricePtr(650)},
	}
}

func seedCenters() []models.Center {
	return []models.Center{
		{ID: "ctr-1", Name: "Centre Mobilitaxi Montréal", Address: "1000 rue Saint-Antoine O.",
			City: "Montréal", Phone: "514-555-0100", Location: models.Location{Lat: 45.4990, Lon: -73.5680}},
		{ID: "ctr-2", Name: "Centre Mobilitaxi Laval", Address: "2500 boul. Le Carrefour",
			City: "Laval", Phone: "450-555-0200", Location: models.Location{Lat: 45.5700, Lon: -73.7510}},
	}
}

func seedInvoices(now time.Time) []models.Invoice {
	paidAt := now.AddDate(0, -2, 3)
	return []models.Invoice{
		{ID: "inv-1", Number: "F-2024-0001", AppointmentID: "apt-1", VehicleID: "veh-1",
			Description: "Inspection SAAQ", Amount: 166.71, Status: models.InvoicePaid,
			IssuedAt: now.AddDate(0, -2, 0), DueAt: now.AddDate(0, -1, 0), PaidAt: &paidAt},
		{ID: "inv-2", Number: "F-2024-0002", VehicleID: "veh-2",
			Description: "Vidange d'huile", Amount: 103.42, Status: models.InvoicePending,
			IssuedAt: now.AddDate(0, 0, -40), DueAt: now.AddDate(0, 0, -10)},
		{ID: "inv-3", Number: "F-2024-0003", VehicleID: "veh-1",
			Description: "Freins avant", Amount: 447.26, Status: models.InvoicePending,
			IssuedAt: now.AddDate(0, 0, -5), DueAt: now.AddDate(0, 0, 25)},
	}
}

func seedAccounts(now time.Time, hash func(string) (string, error)) ([]models.Account, error) {
	if hash == nil {
		return nil, fmt.Errorf("password hasher is required to seed accounts")
	}
	passwordHash, err := hash(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}
	return []models.Account{
		{ID: "acc-1", Email: DemoCustomerEmail, PasswordHash: passwordHash, Role: models.RoleCustomer,
			FirstName: "Jean", LastName: "Tremblay", Phone: "514-555-0142", Company: "Taxi Tremblay inc.",
			CreatedAt: now, UpdatedAt: now},
		{ID: "acc-2", Email: DemoStaffEmail, PasswordHash: passwordHash, Role: models.RoleStaff,
			FirstName: "Atelier", LastName: "Mobilitaxi", CreatedAt: now, UpdatedAt: now},
	}, nil
}
