package model

import (
	"time"

	"github.com/google/uuid"
)

// PlaceModel mirrors the 'places' table. ExternalID is the stable identifier
// supplied by the map provider; it is unique per owner, and the UUID primary
// key is internal only.
type PlaceModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ExternalID string    `gorm:"type:varchar(100);not null;uniqueIndex:uk_places_owner_external"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_places_owner_external"`
	Name       string    `gorm:"type:varchar(255)"`
	Address    string    `gorm:"type:varchar(255)"`
	Latitude   float64   `gorm:"not null"`
	Longitude  float64   `gorm:"not null"`
	Memo       string    `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Tags []TagModel `gorm:"many2many:place_tags;joinForeignKey:PlaceID;joinReferences:TagID"`
}

// TableName explicitly sets the table name for GORM.
func (PlaceModel) TableName() string {
	return "places"
}

// PlaceTagModel mirrors the 'place_tags' join table. The composite primary
// key makes duplicate associations impossible at the storage level; the FKs
// carry ON DELETE CASCADE so deleting a place or tag cleans up its rows.
type PlaceTagModel struct {
	PlaceID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	TagID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (PlaceTagModel) TableName() string {
	return "place_tags"
}
