package models

import (
	"time"

	"gorm.io/gorm"
)

// Vehicle statuses.
const (
	StatusActive  = "active"
	StatusRetired = "retired"
)

// Taxonomy keys.
const (
	TaxonomyMake         = "make"
	TaxonomyModel        = "model"
	TaxonomyBodyType     = "body_type"
	TaxonomyFuelType     = "fuel_type"
	TaxonomyTransmission = "transmission"
	TaxonomyDriveType    = "drive_type"
	TaxonomyColor        = "color"
	TaxonomyCondition    = "condition"
)

// Vehicle is one inventory record.
type Vehicle struct {
	ID          uint   `gorm:"primaryKey"`
	Identity    string `gorm:"size:191;uniqueIndex;not null"`
	Title       string `gorm:"size:255"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"size:16;index;not null;default:active"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Attributes []Attribute `gorm:"constraint:OnDelete:CASCADE"`
}

// Attribute is one named feed value of a vehicle (price, year, vin, ...).
type Attribute struct {
	ID        uint   `gorm:"primaryKey"`
	VehicleID uint   `gorm:"not null;uniqueIndex:idx_vehicle_attribute"`
	Name      string `gorm:"size:64;not null;uniqueIndex:idx_vehicle_attribute;index:idx_attribute_name"`
	Value     string `gorm:"type:text"`
}

// Term is a classification value. Model terms point at their make.
type Term struct {
	ID           uint   `gorm:"primaryKey"`
	Taxonomy     string `gorm:"size:32;not null;uniqueIndex:idx_term_taxonomy_slug"`
	Slug         string `gorm:"size:191;not null;uniqueIndex:idx_term_taxonomy_slug"`
	Label        string `gorm:"size:191;not null"`
	ParentMakeID *uint  `gorm:"index"`
	CreatedAt    time.Time
}

// VehicleTerm links a vehicle to a term of one taxonomy.
type VehicleTerm struct {
	VehicleID uint   `gorm:"primaryKey"`
	Taxonomy  string `gorm:"primaryKey;size:32"`
	TermID    uint   `gorm:"primaryKey;index"`
}

// VehicleImage is an imported image stored in the bucket.
type VehicleImage struct {
	ID          uint   `gorm:"primaryKey"`
	VehicleID   uint   `gorm:"not null;index"`
	SourceURL   string `gorm:"size:1024;not null"`
	ObjectKey   string `gorm:"size:512;not null"`
	ContentType string `gorm:"size:64"`
	Position    int
	IsPrimary   bool
	CreatedAt   time.Time
}

// SyncLog is one sync history entry.
type SyncLog struct {
	ID         uint      `gorm:"primaryKey"`
	Feed       string    `gorm:"size:1024"`
	Timestamp  time.Time `gorm:"index"`
	Status     string    `gorm:"size:16"`
	Imported   int
	Updated    int
	Errors     int
	Skipped    int
	Pruned     int
	DurationMS int64
	Message    string `gorm:"type:text"`
}

// Setting is a key/value pair for engine state such as the last successful sync.
type Setting struct {
	Key   string `gorm:"primaryKey;column:name;size:64"`
	Value string `gorm:"size:255"`
}

// All returns every model managed by the sync engine.
func All() []any {
	return []any{&Vehicle{}, &Attribute{}, &Term{}, &VehicleTerm{}, &VehicleImage{}, &SyncLog{}, &Setting{}}
}

// Migrate creates or updates the inventory tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
