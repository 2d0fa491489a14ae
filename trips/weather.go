package trips

import (
	"math"
	"time"
)

// AttachWeather returns a copy of trips with Temperature set to the average
// temperature observed on each trip's start date. Trips whose date has no
// weather row, or whose row has no average, keep their current value.
// When dates repeat in weather the first row wins.
func AttachWeather(trips []Trip, weather []Weather) []Trip {
	byDate := make(map[time.Time]float64, len(weather))
	for _, w := range weather {
		if w.Date.IsZero() || math.IsNaN(w.AverageTemperature) {
			continue
		}
		key := civilDate(w.Date)
		if _, exists := byDate[key]; !exists {
			byDate[key] = w.AverageTemperature
		}
	}

	out := make([]Trip, len(trips))
	for i, t := range trips {
		if temp, ok := byDate[civilDate(t.StartTime)]; ok {
			t.Temperature = temp
		}
		out[i] = t
	}
	return out
}
