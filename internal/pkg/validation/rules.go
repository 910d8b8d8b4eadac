// Package validation holds the field-level rules shared by the services
package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
)

// periodPattern matches academic period labels like "2024-T1".
var periodPattern = regexp.MustCompile(`^\d{4}-T[1-4]$`)

// DateLayout is the wire format for plain dates.
const DateLayout = "2006-01-02"

// GradeValue checks a grade is within the 0-100 scale.
func GradeValue(value float64) error {
	if value < models.GradeMin || value > models.GradeMax {
		return apperrors.Newf(apperrors.ErrValidation,
			"grade value %.2f must be between %.0f and %.0f", value, models.GradeMin, models.GradeMax)
	}
	return nil
}

// ParticipationValue checks a participation score is within the 0-5 scale.
func ParticipationValue(value float64) error {
	if value < models.ParticipationMin || value > models.ParticipationMax {
		return apperrors.Newf(apperrors.ErrValidation,
			"participation value %.2f must be between %.0f and %.0f", value, models.ParticipationMin, models.ParticipationMax)
	}
	return nil
}

// ParticipationKind checks the kind against the known set.
func ParticipationKind(kind string) error {
	if !models.ValidParticipationKind(models.ParticipationKind(kind)) {
		return apperrors.Newf(apperrors.ErrValidation, "unknown participation kind %q", kind)
	}
	return nil
}

// Period checks an academic period label like "2024-T1".
func Period(period string) error {
	if !periodPattern.MatchString(period) {
		return apperrors.Newf(apperrors.ErrValidation, "period %q must match YYYY-Tn", period)
	}
	return nil
}

// Date parses a plain date in YYYY-MM-DD form.
func Date(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.New(apperrors.ErrValidation,
			fmt.Sprintf("date %q must be in YYYY-MM-DD form", value))
	}
	return t, nil
}

// CourseLevel checks the level against the known set.
func CourseLevel(level string) error {
	switch models.CourseLevel(level) {
	case models.LevelInitial, models.LevelPrimary, models.LevelSecondary:
		return nil
	}
	return apperrors.Newf(apperrors.ErrValidation, "unknown course level %q", level)
}
