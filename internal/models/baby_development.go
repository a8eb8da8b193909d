package models

// BabyDevelopment is global reference data describing a gestational week.
type BabyDevelopment struct {
	Base
	Week            int     `gorm:"not null;uniqueIndex" json:"week"`
	Size            string  `gorm:"not null" json:"size"`
	Weight          string  `gorm:"not null" json:"weight"`
	Comparison      string  `gorm:"not null" json:"comparison"`
	ImagePath       *string `json:"image_path"`
	BabyDevelopment string  `gorm:"not null" json:"baby_development"`
	MotherChanges   string  `gorm:"not null" json:"mother_changes"`
	LengthCm        float64 `json:"length_cm"`
	WeightGrams     float64 `json:"weight_grams"`
}
