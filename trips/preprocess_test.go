package trips

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datedTrip(birth float64, gender int, userType string) DatedTrip {
	return DatedTrip{
		StartTime: time.Date(2016, 2, 1, 8, 15, 0, 0, time.UTC),
		StopTime:  time.Date(2016, 2, 1, 9, 20, 30, 0, time.UTC),
		TripFields: TripFields{
			Duration:    3900,
			BirthYear:   birth,
			Gender:      gender,
			UserType:    userType,
			Temperature: math.NaN(),
		},
	}
}

func TestCastTypes(t *testing.T) {
	rows := []DatedTrip{
		datedTrip(1980, 0, "Subscriber"),
		datedTrip(1975, 1, "customer"),
		datedTrip(math.NaN(), 2, "Subscriber"),
		datedTrip(2001, 7, "Dependent"),
	}

	out, err := CastTypes(rows)
	require.NoError(t, err)
	require.Len(t, out, 4)

	assert.Equal(t, GenderUnknown, out[0].Gender)
	assert.Equal(t, "unknown", out[0].Gender.String())
	assert.Equal(t, "male", out[1].Gender.String())
	assert.Equal(t, "female", out[2].Gender.String())
	assert.Equal(t, Gender(7), out[3].Gender)
	assert.Equal(t, "7", out[3].Gender.String())

	assert.True(t, out[0].BirthYear.Valid)
	assert.Equal(t, int32(1980), out[0].BirthYear.Int32)
	assert.False(t, out[2].BirthYear.Valid)

	assert.Equal(t, UserSubscriber, out[0].UserType)
	assert.Equal(t, UserCustomer, out[1].UserType)
	assert.Equal(t, UserType("Dependent"), out[3].UserType)

	assert.Equal(t, rows[0].StartTime, out[0].StartTime)
	assert.Equal(t, 3900.0, out[0].Duration)
}

func TestCastTypesRejectsFractionalBirthYear(t *testing.T) {
	_, err := CastTypes([]DatedTrip{datedTrip(1980, 1, "Subscriber"), datedTrip(1980.5, 1, "Subscriber")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidBirthYear)
	assert.Contains(t, err.Error(), "row 1")
}

func TestDeriveColumns(t *testing.T) {
	typed, err := CastTypes([]DatedTrip{
		datedTrip(1980, 1, "Subscriber"),
		datedTrip(math.NaN(), 1, "Subscriber"),
		datedTrip(2020, 1, "Subscriber"),
	})
	require.NoError(t, err)

	out := DeriveColumns(typed, testWindow)
	require.Len(t, out, 3)

	d := out[0].Derived
	assert.Equal(t, 2, d.Month)
	assert.Equal(t, 1, d.Day)
	assert.Equal(t, "Monday", d.DayName)
	assert.Equal(t, 8, d.StartHour)
	assert.Equal(t, 15, d.StartMinute)
	assert.Equal(t, 9, d.StopHour)
	assert.Equal(t, 20, d.StopMinute)
	assert.Equal(t, 65.0, d.DurationMinutes)
	assert.InDelta(t, 3900.0/3600, d.DurationHours, 1e-12)
	assert.True(t, d.Age.Valid)
	assert.Equal(t, int32(36), d.Age.Int32)

	assert.False(t, out[1].Age.Valid, "null birth year gives null age")
	assert.Equal(t, int32(-4), out[2].Age.Int32, "age is not validated")

	// input untouched
	assert.Equal(t, Derived{}, typed[0].Derived)
}

func TestDeriveColumnsAgeOutOfRange(t *testing.T) {
	typed, err := CastTypes([]DatedTrip{
		datedTrip(math.MinInt32, 1, "Subscriber"),
		datedTrip(math.MaxInt32, 1, "Subscriber"),
	})
	require.NoError(t, err)
	require.True(t, typed[0].BirthYear.Valid)

	out := DeriveColumns(typed, testWindow)
	assert.False(t, out[0].Age.Valid, "2016 - MinInt32 does not fit")
	assert.True(t, out[1].Age.Valid)
	assert.Equal(t, int32(2016-math.MaxInt32), out[1].Age.Int32)
}

func TestPreprocess(t *testing.T) {
	out := prepare(t,
		rawTrip("2/6/2016 23:59:00", "2/7/2016 00:04:00", 300),
	)
	require.Len(t, out, 1)
	assert.Equal(t, "Saturday", out[0].DayName)
	assert.Equal(t, 6, out[0].Day)
	assert.Equal(t, 0, out[0].StopHour)
	assert.Equal(t, 5.0, out[0].DurationMinutes)
	assert.Equal(t, GenderMale, out[0].Gender)
}

func TestGenderMarshalText(t *testing.T) {
	b, err := GenderFemale.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "female", string(b))
}
