package domain

import "time"

// Actor roles. A single actor may hold several roles at once.
const (
	RoleUser   = "USER"
	RoleVendor = "VENDOR"
	RoleRider  = "RIDER"
	RoleAdmin  = "ADMIN"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Actor represents a participant in the marketplace: customer, vendor
// facility, rider or admin. The dispatch engine treats actors as
// read-mostly; only the location field is updated during normal operation.
type Actor struct {
	ID        string
	Name      string
	Phone     string
	Roles     []string
	Location  *Coordinate // nil when the actor has never reported a position
	CreatedAt time.Time
}

// HasRole reports whether the actor holds the given role.
func (a *Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
