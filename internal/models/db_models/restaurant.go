package db_models

import "github.com/lib/pq"

type Restaurant struct {
	BaseModel
	Name        string
	Destination string `gorm:"index"`
	Latitude    float64
	Longitude   float64
	Rating      float64
	ReviewCount int
	PriceTier   int // 1..4
	Cuisines    pq.StringArray `gorm:"type:text[]"`
	Source      string
}
