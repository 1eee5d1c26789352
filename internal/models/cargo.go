// Package models contains domain types for the CargoTrack dashboard.
package models

import (
	"strconv"
	"time"
)

// PaymentMethod is the enum-like forma_pago value of a cargo record.
type PaymentMethod string

const (
	PaymentTransfer PaymentMethod = "Transferencia"
	PaymentCash     PaymentMethod = "Contado"
	PaymentCard     PaymentMethod = "Tarjeta"
)

// PaymentMethods lists the accepted payment methods in display order.
var PaymentMethods = []PaymentMethod{PaymentTransfer, PaymentCash, PaymentCard}

// Valid reports whether p is one of the known payment methods.
func (p PaymentMethod) Valid() bool {
	for _, m := range PaymentMethods {
		if p == m {
			return true
		}
	}
	return false
}

// Cargo is a freight order moved between two cities.
// Distance and money fields are kept as decimal-formatted strings.
type Cargo struct {
	ID            int           `json:"id" msgpack:"id"`
	Origin        string        `json:"origen" msgpack:"origen"`
	Destination   string        `json:"destino" msgpack:"destino"`
	Km            string        `json:"km" msgpack:"km"`
	Commission    string        `json:"comision" msgpack:"comision"`
	Price         string        `json:"precio" msgpack:"precio"`
	PaymentMethod PaymentMethod `json:"forma_pago" msgpack:"forma_pago"`
	Description   string        `json:"descripcion_carga" msgpack:"descripcion_carga"`
	CreatedAt     time.Time     `json:"fecha_creacion" msgpack:"fecha_creacion"`
}

// Key returns the decimal id, the value compared against the selected order.
func (c Cargo) Key() string {
	return strconv.Itoa(c.ID)
}

// SearchFields returns the fields matched by free-text search.
func (c Cargo) SearchFields() []string {
	return []string{c.Key(), c.Origin, c.Destination}
}

// StatusValue is always empty: cargo records carry no lifecycle stage.
func (c Cargo) StatusValue() string {
	return ""
}

// OriginCity returns the city the cargo leaves from.
func (c Cargo) OriginCity() string { return c.Origin }

// DestinationCity returns the city the cargo is delivered to.
func (c Cargo) DestinationCity() string { return c.Destination }

// Label is the human readable "Carga #id (origen → destino)" text used by delete
// confirmations.
func (c Cargo) Label() string {
	return "Carga #" + c.Key() + " (" + c.Origin + " → " + c.Destination + ")"
}

// CargoSummary aggregates a set of cargo records.
type CargoSummary struct {
	Count           int    `json:"count" msgpack:"count"`
	TotalKm         string `json:"totalKm" msgpack:"totalKm"`
	TotalPrice      string `json:"totalPrecio" msgpack:"totalPrecio"`
	TotalCommission string `json:"totalComision" msgpack:"totalComision"`
}
