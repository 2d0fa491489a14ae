package trips

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// RECORDS — Trip and weather rows at each pipeline stage
// ============================================================================
// RawTrip (as loaded) → DatedTrip (timestamps parsed) → Trip (typed and
// derived). Each stage returns new slices; inputs are never modified.
// Missing float values are NaN.
// ============================================================================

// TripFields are the trip columns untouched by date normalization.
type TripFields struct {
	Duration     float64 // seconds
	StartStation string
	StopStation  string
	BirthYear    float64 // NaN when missing
	Gender       int     // source code
	UserType     string
	Temperature  float64 // average temperature of the ride day, NaN when missing
}

// RawTrip is a trip row as loaded, start and stop still text.
type RawTrip struct {
	StartTime string
	StopTime  string
	TripFields
}

// DatedTrip is a trip row whose start and stop are parsed timestamps.
type DatedTrip struct {
	StartTime time.Time
	StopTime  time.Time
	TripFields
}

// Trip is a fully typed trip row.
type Trip struct {
	StartTime    time.Time
	StopTime     time.Time
	Duration     float64 // seconds
	StartStation string
	StopStation  string
	BirthYear    sql.NullInt32
	Gender       Gender
	UserType     UserType
	Temperature  float64
	Derived
}

// Derived holds helper columns computed once by DeriveColumns.
type Derived struct {
	Month           int
	Day             int
	DayName         string
	StartHour       int
	StartMinute     int
	StopHour        int
	StopMinute      int
	Age             sql.NullInt32
	DurationMinutes float64
	DurationHours   float64
}

// Weather is one day of observations.
type Weather struct {
	Date               time.Time
	MaxTemperature     float64
	MinTemperature     float64
	AverageTemperature float64
	Precipitation      float64
	SnowFall           float64
	SnowDepth          float64
}

// ============================================================================
// CATEGORIES
// ============================================================================

// Gender is the rider gender category. Codes other than 0, 1 and 2 are kept
// as-is and print as their number.
type Gender int

const (
	GenderUnknown Gender = 0
	GenderMale    Gender = 1
	GenderFemale  Gender = 2
)

// GenderFromCode maps a source gender code onto the category.
func GenderFromCode(code int) Gender { return Gender(code) }

func (g Gender) String() string {
	switch g {
	case GenderUnknown:
		return "unknown"
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return strconv.Itoa(int(g))
	}
}

// MarshalText renders the category name.
func (g Gender) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// UserType distinguishes annual subscribers from casual customers.
// Values other than the two known ones pass through unchanged.
type UserType string

const (
	UserSubscriber UserType = "Subscriber"
	UserCustomer   UserType = "Customer"
)

// ParseUserType matches the known user types case-insensitively.
func ParseUserType(s string) UserType {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, string(UserSubscriber)):
		return UserSubscriber
	case strings.EqualFold(s, string(UserCustomer)):
		return UserCustomer
	default:
		return UserType(s)
	}
}

func (u UserType) String() string { return string(u) }

// StationKind selects the start or stop station column.
type StationKind string

const (
	StationStart StationKind = "start"
	StationStop  StationKind = "stop"
)

// ============================================================================
// RESULT ROWS
// ============================================================================

// Result column names. One snake_case convention for every result table.
const (
	ColDay            = "day"
	ColRidesCount     = "rides_count"
	ColAvgDuration    = "avg_duration_minutes"
	ColTemperature    = "temperature"
	ColStationName    = "station_name"
	ColPercentage     = "percentage"
	ColType           = "type"
	ColTempRange      = "temp_range"
	ColRides          = "rides"
	ColObservations   = "observations"
	ColRidesPerSample = "rides_per_observation"
	ColDays           = "days"
	ColAverageCount   = "average_count"
)

// DayCount is the number of rides started on a day of the month.
type DayCount struct {
	Day        int `json:"day"`
	RidesCount int `json:"rides_count"`
}

// DayDuration is the mean ride duration on a day of the month.
type DayDuration struct {
	Day                int     `json:"day"`
	AvgDurationMinutes float64 `json:"avg_duration_minutes"`
}

// DayStats joins DayDuration and DayCount on Day.
type DayStats struct {
	Day                int     `json:"day"`
	AvgDurationMinutes float64 `json:"avg_duration_minutes"`
	RidesCount         int     `json:"rides_count"`
}

// TemperatureCount is the number of rides at a rounded temperature.
type TemperatureCount struct {
	Temperature float64 `json:"temperature"`
	RidesCount  int     `json:"rides_count"`
}

// StationShare is a station's share of all rides, in percent.
type StationShare struct {
	StationName string      `json:"station_name"`
	Percentage  float64     `json:"percentage"`
	Type        StationKind `json:"type"`
}

// TemperatureBin is one bar of the rides-by-temperature chart.
type TemperatureBin struct {
	Label        string  `json:"temp_range"`
	Low          float64 `json:"low"`
	High         float64 `json:"high"`
	Rides        int     `json:"rides"`
	Observations int     `json:"observations"`
	Value        float64 `json:"rides_per_observation"`
}

// WeekdayAverage is the mean number of rides on one weekday.
type WeekdayAverage struct {
	Day          string  `json:"day"`
	Rides        int     `json:"rides"`
	Days         int     `json:"days"`
	AverageCount float64 `json:"average_count"`
}
