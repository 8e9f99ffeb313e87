package measurements

import "time"

// MeasurementLog es una medición puntual de salud de un animal.
type MeasurementLog struct {
	ID       string
	AnimalID string

	Kind  Kind
	Value float64
	Unit  string

	MeasuredAt time.Time
	Notes      string

	RecordedAt time.Time
}
