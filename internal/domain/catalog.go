package domain

// Tag is static reference data attached to recipes. Slug is the stable
// identifier used by recipe filters.
type Tag struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:200;not null"`
	Color string `json:"color" gorm:"size:7"`
	Slug  string `json:"slug" gorm:"uniqueIndex;size:200;not null"`
}

func (Tag) TableName() string { return "tags" }

// Ingredient is bulk-loaded reference data (see cmd/seed).
type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"index;size:200;not null"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:200;not null"`
}

func (Ingredient) TableName() string { return "ingredients" }
