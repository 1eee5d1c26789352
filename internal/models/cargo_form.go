package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// CargoForm is the payload of the create and edit cargo forms.
type CargoForm struct {
	Origin        string `json:"origen"`
	Destination   string `json:"destino"`
	Km            string `json:"km"`
	Commission    string `json:"comision"`
	Price         string `json:"precio"`
	PaymentMethod string `json:"forma_pago"`
	Description   string `json:"descripcion_carga"`
}

// FieldErrors maps a form field (wire name) to its validation message.
type FieldErrors map[string]string

// Error implements the error interface.
func (fe FieldErrors) Error() string {
	fields := fe.Fields()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "invalid cargo form: " + strings.Join(parts, "; ")
}

// Fields returns the offending field names, sorted.
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Normalize trims surrounding whitespace from every field.
func (f CargoForm) Normalize() CargoForm {
	return CargoForm{
		Origin:        strings.TrimSpace(f.Origin),
		Destination:   strings.TrimSpace(f.Destination),
		Km:            strings.TrimSpace(f.Km),
		Commission:    strings.TrimSpace(f.Commission),
		Price:         strings.TrimSpace(f.Price),
		PaymentMethod: strings.TrimSpace(f.PaymentMethod),
		Description:   strings.TrimSpace(f.Description),
	}
}

// Validate checks the required fields (origen, destino, precio) and the format
// of the optional ones. It returns nil or a FieldErrors value.
func (f CargoForm) Validate() error {
	f = f.Normalize()
	errs := FieldErrors{}

	required := []struct {
		name  string
		value string
	}{
		{"origen", f.Origin},
		{"destino", f.Destination},
		{"precio", f.Price},
	}
	for _, r := range required {
		if r.value == "" {
			errs[r.name] = "campo obligatorio"
		}
	}

	decimals := []struct {
		name  string
		value string
	}{
		{"km", f.Km},
		{"comision", f.Commission},
		{"precio", f.Price},
	}
	for _, d := range decimals {
		if d.value == "" {
			continue
		}
		if _, err := decimal.NewFromString(d.value); err != nil {
			errs[d.name] = fmt.Sprintf("valor decimal inválido: %q", d.value)
		}
	}

	if f.PaymentMethod != "" && !PaymentMethod(f.PaymentMethod).Valid() {
		errs["forma_pago"] = fmt.Sprintf("forma de pago desconocida: %q", f.PaymentMethod)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ApplyTo copies the form fields onto c, leaving id and creation time untouched.
func (f CargoForm) ApplyTo(c Cargo) Cargo {
	f = f.Normalize()
	c.Origin = f.Origin
	c.Destination = f.Destination
	c.Km = f.Km
	c.Commission = f.Commission
	c.Price = f.Price
	c.PaymentMethod = PaymentMethod(f.PaymentMethod)
	c.Description = f.Description
	return c
}

// FormOf returns the form pre-filled with c's editable fields.
func FormOf(c Cargo) CargoForm {
	return CargoForm{
		Origin:        c.Origin,
		Destination:   c.Destination,
		Km:            c.Km,
		Commission:    c.Commission,
		Price:         c.Price,
		PaymentMethod: string(c.PaymentMethod),
		Description:   c.Description,
	}
}

// Summarize totals distance, price and commission over records. Values that
// do not parse as decimals count as zero.
func Summarize(records []Cargo) CargoSummary {
	var km, price, commission decimal.Decimal
	for _, c := range records {
		km = km.Add(parseOrZero(c.Km))
		price = price.Add(parseOrZero(c.Price))
		commission = commission.Add(parseOrZero(c.Commission))
	}
	return CargoSummary{
		Count:           len(records),
		TotalKm:         km.StringFixed(2),
		TotalPrice:      price.StringFixed(2),
		TotalCommission: commission.StringFixed(2),
	}
}

func parseOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
