package models

// ShipmentStatus is a lifecycle stage of a tracked shipment.
type ShipmentStatus string

const (
	ShipmentChecking  ShipmentStatus = "Checking"
	ShipmentInTransit ShipmentStatus = "In Transit"
	ShipmentDelivered ShipmentStatus = "Delivered"
)

// StepState is how a tracking step is displayed relative to the current stage.
type StepState string

const (
	StepDone    StepState = "done"
	StepCurrent StepState = "current"
	StepPending StepState = "pending"
)

// ShipmentStep is one dated entry of a shipment's timeline.
type ShipmentStep struct {
	Date   string         `json:"date" msgpack:"date"`
	Status ShipmentStatus `json:"status" msgpack:"status"`
	Time   string         `json:"time" msgpack:"time"`
}

// Shipment is the legacy tracking-feed record. Its shape differs from Cargo and
// the two are not merged.
type Shipment struct {
	ID       string         `json:"id" msgpack:"id"`
	Status   ShipmentStatus `json:"status" msgpack:"status"`
	Progress int            `json:"progress" msgpack:"progress"` // 0-100
	Steps    []ShipmentStep `json:"steps" msgpack:"steps"`
}

// Key returns the shipment id.
func (s Shipment) Key() string { return s.ID }

// SearchFields returns the fields matched by free-text search.
func (s Shipment) SearchFields() []string { return []string{s.ID} }

// StatusValue returns the current stage as a plain string.
func (s Shipment) StatusValue() string { return string(s.Status) }

// OriginCity is empty; tracking records carry no cities.
func (s Shipment) OriginCity() string { return "" }

// DestinationCity is empty; tracking records carry no cities.
func (s Shipment) DestinationCity() string { return "" }

// CurrentStepIndex returns the index of the first step whose status equals the
// shipment status, or -1.
func (s Shipment) CurrentStepIndex() int {
	for i, step := range s.Steps {
		if step.Status == s.Status {
			return i
		}
	}
	return -1
}

// StepStates derives the display state of every step. Steps before the current
// one are done, the matching one is current and the rest are pending.
func (s Shipment) StepStates() []StepState {
	current := s.CurrentStepIndex()
	states := make([]StepState, len(s.Steps))
	for i, step := range s.Steps {
		switch {
		case step.Status == s.Status:
			states[i] = StepCurrent
		case i < current:
			states[i] = StepDone
		default:
			states[i] = StepPending
		}
	}
	return states
}

// ClampedProgress returns Progress limited to 0..100.
func (s Shipment) ClampedProgress() int {
	switch {
	case s.Progress < 0:
		return 0
	case s.Progress > 100:
		return 100
	}
	return s.Progress
}
