package model

import (
	"strings"
	"time"
)

// Surface types accepted for courts.surface_type.
const (
	SurfaceHardcourt  = "hardcourt"
	SurfaceCushioned  = "cushioned"
	SurfaceClay       = "clay"
	SurfaceConcrete   = "concrete"
	SurfaceAsphalt    = "asphalt"
	SurfaceSportCourt = "sport-court"
)

var surfaces = map[string]bool{
	SurfaceHardcourt:  true,
	SurfaceCushioned:  true,
	SurfaceClay:       true,
	SurfaceConcrete:   true,
	SurfaceAsphalt:    true,
	SurfaceSportCourt: true,
}

// NormalizeSurface lower-cases and validates a surface type.
func NormalizeSurface(s string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	return v, surfaces[v]
}

// Court is a bookable venue listed by an owner.  A single listing may
// contain several physical courts (CourtCount) but is booked as one unit.
type Court struct {
	ID                uint64    `json:"id"`
	OwnerID           uint64    `json:"owner_id"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	Latitude          *float64  `json:"latitude,omitempty"`
	Longitude         *float64  `json:"longitude,omitempty"`
	SurfaceType       string    `json:"surface_type"`
	CourtCount        int       `json:"court_count"`
	Amenities         *string   `json:"amenities,omitempty"`
	Description       *string   `json:"description,omitempty"`
	PricePerHourCents *uint32   `json:"price_per_hour_cents,omitempty"`
	OperatingHours    *string   `json:"operating_hours,omitempty"`
	PhotoURL          *string   `json:"photo_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CourtFilter narrows court listings.  Location is matched as a
// case-insensitive substring of the address.
type CourtFilter struct {
	Location string
	Limit    int
	Offset   int
}

// Availability describes the weekly opening window of a court.  It is
// informational and does not take part in booking conflict detection.
//
// Fields:
//
//	DayOfWeek   – 0 (Monday) through 6 (Sunday).
//	StartTime   – "HH:MM" local opening time.
//	EndTime     – "HH:MM" local closing time, after StartTime.
//	IsAvailable – false marks the day as closed.
type Availability struct {
	ID          uint64 `json:"id"`
	CourtID     uint64 `json:"court_id"`
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}
