package engine

import "math"

// --- Test Fixtures ---

func rec(station, userType, day string, minutes float64) Record {
	m := map[string]float64{}
	if !math.IsNaN(minutes) {
		m["minutes"] = minutes
	}
	return Record{
		Dimensions: map[string]string{"station": station, "usertype": userType, "day": day},
		Measures:   m,
	}
}

func sampleView() RecordView {
	return NewSliceView([]Record{
		rec("A", "Subscriber", "1", 10),
		rec("B", "Customer", "1", 20),
		rec("A", "Subscriber", "2", 30),
		rec("C", "Subscriber", "10", 61),
		rec("A", "customer", "2", math.NaN()),
		rec("", "Subscriber", "2", 5),
	})
}

func groupKeys(groups []Group) []string {
	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	return keys
}
