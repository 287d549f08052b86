package db_models

import "github.com/google/uuid"

type Itinerary struct {
	BaseModel
	UserID      uuid.UUID
	Destination string
	NumDays     int
	Plan        []byte `gorm:"type:jsonb"`
}
