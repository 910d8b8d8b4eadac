package dto

// PredictionResponse carries the heuristic performance forecast for one
// student in one period.
type PredictionResponse struct {
	StudentID int64  `json:"studentId" example:"4"`
	Period    string `json:"period" example:"2024-T3"`

	Score          float64 `json:"score" example:"78.4"`
	Classification string  `json:"classification" example:"medium" enums:"high,medium,low"`

	PriorAverage         float64 `json:"priorAverage" example:"81.2"`
	AttendancePercent    float64 `json:"attendancePercent" example:"90.0"`
	ParticipationAverage float64 `json:"participationAverage" example:"4.0"`
}
