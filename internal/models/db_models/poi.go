package db_models

import "github.com/lib/pq"

type POI struct {
	BaseModel
	Name            string
	Destination     string `gorm:"index"`
	Latitude        float64
	Longitude       float64
	Category        string
	DurationMinutes int
	EstimatedCost   float64
	Rating          float64
	ReviewCount     int
	MustSee         bool
	Reliability     string // verified|estimated|generated
	Source          string
	Bookable        bool
	Tags            pq.StringArray `gorm:"type:text[]"`

	Embedding *PoiEmbedding `gorm:"foreignKey:PoiID"`
}
