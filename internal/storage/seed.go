package storage

import (
	"time"

	"github.com/MakeNewCode/project-maps-webapp/internal/models"
)

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SeedCargo returns a fresh copy of the built-in cargo records.
func SeedCargo() []models.Cargo {
	return []models.Cargo{
		{
			ID:            1,
			Origin:        "Buenos Aires",
			Destination:   "Córdoba",
			Km:            "700.50",
			Commission:    "50.00",
			Price:         "1500.00",
			PaymentMethod: models.PaymentTransfer,
			Description:   "Electrodomésticos varios",
			CreatedAt:     mustTime("2025-05-16T14:23:45Z"),
		},
		{
			ID:            2,
			Origin:        "Rosario",
			Destination:   "Mendoza",
			Km:            "850.75",
			Commission:    "60.00",
			Price:         "2000.00",
			PaymentMethod: models.PaymentCash,
			Description:   "Material de construcción",
			CreatedAt:     mustTime("2025-05-15T10:12:30Z"),
		},
		{
			ID:            3,
			Origin:        "La Plata",
			Destination:   "Mar del Plata",
			Km:            "350.25",
			Commission:    "40.00",
			Price:         "1200.00",
			PaymentMethod: models.PaymentCard,
			Description:   "Productos alimenticios",
			CreatedAt:     mustTime("2025-05-14T08:45:15Z"),
		},
		{
			ID:            4,
			Origin:        "Bahía Blanca",
			Destination:   "Neuquén",
			Km:            "550.80",
			Commission:    "55.00",
			Price:         "1800.00",
			PaymentMethod: models.PaymentTransfer,
			Description:   "Maquinaria industrial",
			CreatedAt:     mustTime("2025-05-13T16:30:20Z"),
		},
	}
}

// SeedShipments returns a fresh copy of the legacy tracking feed.
func SeedShipments() []models.Shipment {
	return []models.Shipment{
		{
			ID:       "#AD345Jk758",
			Status:   models.ShipmentInTransit,
			Progress: 60,
			Steps: []models.ShipmentStep{
				{Date: "21 Jan", Status: models.ShipmentChecking, Time: "10:23 AM"},
				{Date: "25 Jan", Status: models.ShipmentInTransit, Time: "12:02 PM"},
				{Date: "25 Jan", Status: models.ShipmentDelivered, Time: "--:--"},
			},
		},
		{
			ID:       "#FR156KL89K",
			Status:   models.ShipmentChecking,
			Progress: 20,
			Steps: []models.ShipmentStep{
				{Date: "22 Jan", Status: models.ShipmentChecking, Time: "11:28 AM"},
				{Date: "26 Jan", Status: models.ShipmentInTransit, Time: "--:--"},
				{Date: "30 Jan", Status: models.ShipmentDelivered, Time: "--:--"},
			},
		},
		{
			ID:       "#LN236NB89R",
			Status:   models.ShipmentChecking,
			Progress: 15,
			Steps: []models.ShipmentStep{
				{Date: "23 Jan", Status: models.ShipmentChecking, Time: "09:28 AM"},
				{Date: "27 Jan", Status: models.ShipmentInTransit, Time: "--:--"},
				{Date: "1 Feb", Status: models.ShipmentDelivered, Time: "--:--"},
			},
		},
		{
			ID:       "#CT789MP45Q",
			Status:   models.ShipmentDelivered,
			Progress: 100,
			Steps: []models.ShipmentStep{
				{Date: "18 Jan", Status: models.ShipmentChecking, Time: "08:15 AM"},
				{Date: "19 Jan", Status: models.ShipmentInTransit, Time: "10:45 AM"},
				{Date: "22 Jan", Status: models.ShipmentDelivered, Time: "14:30 PM"},
			},
		},
	}
}
