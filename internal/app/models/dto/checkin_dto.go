package dto

// CheckInRequest is the payload a student submits after scanning the
// school's QR poster.
type CheckInRequest struct {
	Token     string  `json:"token" binding:"required" example:"ABC123"`
	Latitude  float64 `json:"latitude" binding:"required" example:"10.0005"`
	Longitude float64 `json:"longitude" binding:"required" example:"20.0005"`
}

// CheckInResponse reports the outcome of a check-in attempt.
type CheckInResponse struct {
	Status  string `json:"status" example:"created" enums:"created,already-registered,rejected"`
	Message string `json:"message" example:"attendance registered"`
}
