package db_models

type Hotel struct {
	BaseModel
	Name         string
	Destination  string `gorm:"index"`
	Latitude     float64
	Longitude    float64
	Rating       float64 // provider scale, normalized by the selector
	NightlyPrice float64
	Currency     string
	Source       string
}
