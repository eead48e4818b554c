package seed

import "github.com/iliyamo/court-booking/internal/model"

type demoCourt struct {
	name, address, surface, amenities, hours, photo string
	priceDollars                                    uint32
	lat, lng                                        float64
}

var demoCourts = []demoCourt{
	{"Sunset Pickleball Club", "123 Sunset Blvd, San Jose, CA", model.SurfaceHardcourt,
		"Lights, Restrooms, Water fountain, Ball machine rental", "6:00 AM - 10:00 PM daily",
		"https://images.unsplash.com/photo-1626224583764-f87db24ac4ea?w=800", 25, 37.3382, -121.8863},
	{"Bay Area Courts", "456 Marina Dr, San Francisco, CA", model.SurfaceHardcourt,
		"Covered courts, Pro shop, Parking, Coaching available", "7:00 AM - 9:00 PM daily",
		"https://images.unsplash.com/photo-1554068865-24cecd4e34b8?w=800", 35, 37.8060, -122.4330},
	{"Golden Gate Pickleball", "789 Park Ave, Oakland, CA", model.SurfaceSportCourt,
		"Indoor, Climate controlled, Locker rooms, Showers", "6:00 AM - 11:00 PM daily",
		"https://images.unsplash.com/photo-1558618666-fcd25c85f82e?w=800", 45, 37.8044, -122.2712},
	{"Peninsula Paddle Center", "321 El Camino Real, Palo Alto, CA", model.SurfaceHardcourt,
		"Lights, Seating, Vending machines, Free Wi-Fi", "7:00 AM - 10:00 PM daily",
		"", 30, 37.4419, -122.1430},
	{"South Bay Smash Courts", "555 Stevens Creek, Cupertino, CA", model.SurfaceSportCourt,
		"Outdoor, Shaded seating, Free parking, Picnic area", "6:00 AM - 9:00 PM daily",
		"", 20, 37.3230, -122.0322},
	{"Desert Dink Pickleball", "2100 E Camelback Rd, Scottsdale, AZ", model.SurfaceHardcourt,
		"Shaded courts, Misting system, Pro shop, Tournament hosting", "5:00 AM - 9:00 PM daily",
		"https://images.unsplash.com/photo-1622279457486-62dcc4a431d6?w=800", 28, 33.5092, -111.8990},
	{"Lone Star Paddle Club", "800 Congress Ave, Austin, TX", model.SurfaceClay,
		"Clay courts, Clubhouse, Bar & grill, Lessons", "7:00 AM - 10:00 PM Mon-Sat, 8:00 AM - 8:00 PM Sun",
		"https://images.unsplash.com/photo-1551698618-1dfe5d97d256?w=800", 40, 30.2711, -97.7437},
	{"Peach State Pickleball", "450 Peachtree St NE, Atlanta, GA", model.SurfaceHardcourt,
		"Lights, Restrooms, Water stations, Beginner clinics", "6:00 AM - 10:00 PM daily",
		"", 22, 33.7678, -84.3857},
	{"Mile High Dinks", "1550 Court Pl, Denver, CO", model.SurfaceSportCourt,
		"Indoor, Heated, Altitude training, Equipment rental", "6:00 AM - 11:00 PM daily",
		"https://images.unsplash.com/photo-1574629810360-7efbbe195018?w=800", 38, 39.7420, -104.9890},
	{"Emerald City Courts", "305 Harrison St, Seattle, WA", model.SurfaceHardcourt,
		"Covered outdoor, Rain shelters, Coffee bar, Open play sessions", "7:00 AM - 9:00 PM daily",
		"", 15, 47.6221, -122.3493},
}

func (d demoCourt) toCourt(ownerID uint64) *model.Court {
	cents := d.priceDollars * 100
	lat, lng := d.lat, d.lng
	c := &model.Court{
		OwnerID:           ownerID,
		Name:              d.name,
		Address:           d.address,
		Latitude:          &lat,
		Longitude:         &lng,
		SurfaceType:       d.surface,
		CourtCount:        4,
		Amenities:         strPtr(d.amenities),
		PricePerHourCents: &cents,
		OperatingHours:    strPtr(d.hours),
		PhotoURL:          strPtr(d.photo),
	}
	return c
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
