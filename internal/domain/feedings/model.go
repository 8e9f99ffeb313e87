package feedings

import "time"

// FeedingRecord es un evento de alimentación de un animal.
// FedAt es cuándo ocurrió; RecordedAt cuándo se registró.
type FeedingRecord struct {
	ID       string
	AnimalID string

	FedAt    time.Time
	FoodType string
	PreySize PreySize
	Quantity int
	Refused  bool
	Notes    string

	RecordedAt time.Time
}
