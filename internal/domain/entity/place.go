package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Place is an owner-scoped saved location. It is identified towards callers
// by ExternalID, the stable identifier supplied by the map provider; the
// UUID primary key is internal plumbing.
//
// A live place always references at least one tag. That invariant is
// enforced by the place and tag usecases, never here.
type Place struct {
	ID         uuid.UUID // Surrogate primary key, internal only.
	ExternalID string    // Map-provider identifier, unique per owner.
	UserID     uuid.UUID // Links this place to the User who owns it.
	Name       string    // Display name of the place.
	Address    string    // Optional street address.
	Latitude   float64
	Longitude  float64
	Memo       string    // Optional free-text note.
	Tags       []*Tag    // Tags currently associated with this place.
	CreatedAt  time.Time // Timestamp of when this place was saved.
	UpdatedAt  time.Time // Timestamp of the last modification to this place.
}

// Point returns the place coordinates as an orb point (lon, lat order).
func (p *Place) Point() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}
