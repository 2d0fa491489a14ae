package trips

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/nshahpazov/nyc-bikership-analysis/config"
)

// ============================================================================
// PREPROCESSOR — Typed categories and derived helper columns
// ============================================================================

// ErrInvalidBirthYear is returned when a birth year is not a whole number.
var ErrInvalidBirthYear = errors.New("birth year is not a whole number")

// Preprocess casts raw columns to their types and adds the derived columns.
func Preprocess(rows []DatedTrip, w config.RideWindow) ([]Trip, error) {
	typed, err := CastTypes(rows)
	if err != nil {
		return nil, err
	}
	return DeriveColumns(typed, w), nil
}

// CastTypes maps gender codes and user types onto their categories and
// narrows birth year to a nullable integer.
func CastTypes(rows []DatedTrip) ([]Trip, error) {
	out := make([]Trip, len(rows))
	for i, r := range rows {
		birth, err := castBirthYear(r.BirthYear)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = Trip{
			StartTime:    r.StartTime,
			StopTime:     r.StopTime,
			Duration:     r.Duration,
			StartStation: r.StartStation,
			StopStation:  r.StopStation,
			BirthYear:    birth,
			Gender:       GenderFromCode(r.Gender),
			UserType:     ParseUserType(r.UserType),
			Temperature:  r.Temperature,
		}
	}
	return out, nil
}

func castBirthYear(v float64) (sql.NullInt32, error) {
	if math.IsNaN(v) {
		return sql.NullInt32{}, nil
	}
	if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
		return sql.NullInt32{}, fmt.Errorf("%w: %v", ErrInvalidBirthYear, v)
	}
	return sql.NullInt32{Int32: int32(v), Valid: true}, nil
}

// age is refYear minus birth, null when birth is null or the difference
// leaves the int32 range.
func age(refYear int, birth sql.NullInt32) sql.NullInt32 {
	if !birth.Valid {
		return sql.NullInt32{}
	}
	a := int64(refYear) - int64(birth.Int32)
	if a > math.MaxInt32 || a < math.MinInt32 {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(a), Valid: true}
}

// DeriveColumns returns a copy of rows with calendar, age and duration
// helper columns filled in. Age is not validated.
func DeriveColumns(rows []Trip, w config.RideWindow) []Trip {
	out := make([]Trip, len(rows))
	for i, t := range rows {
		t.Derived = Derived{
			Month:           int(t.StartTime.Month()),
			Day:             t.StartTime.Day(),
			DayName:         t.StartTime.Weekday().String(),
			StartHour:       t.StartTime.Hour(),
			StartMinute:     t.StartTime.Minute(),
			StopHour:        t.StopTime.Hour(),
			StopMinute:      t.StopTime.Minute(),
			DurationMinutes: t.Duration / 60,
			DurationHours:   t.Duration / 3600,
		}
		t.Age = age(w.ReferenceYear, t.BirthYear)
		out[i] = t
	}
	return out
}
