// Package bikeshare computes ride statistics and chart configs from a
// bike-share trip dataset joined with daily weather observations.
//
// Usage:
//
//	import "github.com/nshahpazov/nyc-bikership-analysis/trips"
//
//	dated, err := trips.NewDateNormalizer(cfg.Columns, cfg.Window).Normalize(raw)
//	rides, err := trips.Preprocess(dated, cfg.Window)
//	view := trips.TripView(rides, cfg.Columns)
//	perDay, err := trips.CountPerDay(view, cfg.Columns)
//
// Aggregations run on the engine package, which reads typed records through
// a RecordView without copying them. Loading CSV files and exporting results
// lives in helpers; the bikestats command wires everything together.
// All computation is local and in-memory.
package bikeshare
