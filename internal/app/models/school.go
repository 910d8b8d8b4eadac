package models

// School defines a school based on the 'schools' table. The registered
// coordinate is the reference point for check-in geofencing and must not
// change once attendance depends on it.
type School struct {
	ID        int64   `json:"id" db:"id" example:"1"`
	Name      string  `json:"name" db:"name" example:"San Martin School"`
	Address   string  `json:"address" db:"address" example:"Av. Libertad 742"`
	Latitude  float64 `json:"latitude" db:"latitude" example:"10.0"`
	Longitude float64 `json:"longitude" db:"longitude" example:"20.0"`
	// CheckinToken is the shared secret encoded in the school's QR poster.
	// Rotated per school, never per scan.
	CheckinToken string `json:"checkinToken,omitempty" db:"checkin_token"`
}
