package model

import (
	"time"

	"github.com/google/uuid"
)

// TagModel mirrors the 'tags' table. Tag names are unique per owner, not globally.
type TagModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_tags_owner_name"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:uk_tags_owner_name"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Places []PlaceModel `gorm:"many2many:place_tags;joinForeignKey:TagID;joinReferences:PlaceID"`
}

// TableName explicitly sets the table name for GORM.
func (TagModel) TableName() string {
	return "tags"
}
