package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nshahpazov/nyc-bikership-analysis/config"
	"github.com/nshahpazov/nyc-bikership-analysis/engine"
	"github.com/nshahpazov/nyc-bikership-analysis/helpers"
	"github.com/nshahpazov/nyc-bikership-analysis/internal/logging"
	"github.com/nshahpazov/nyc-bikership-analysis/trips"
)

// ============================================================================
// BIKESTATS CLI — Ride statistics for a bike-share trip export
// ============================================================================

const appName = "bikestats"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type options struct {
	tripsPath   string
	weatherPath string
	configPath  string
	queryPath   string
	format      string
	outFile     string
	userType    string
	top         int
}

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	var opts options
	flag.StringVar(&opts.tripsPath, "trips", "", "Path to trip CSV file (required)")
	flag.StringVar(&opts.weatherPath, "weather", "", "Path to daily weather CSV file")
	flag.StringVar(&opts.configPath, "config", "", "Path to YAML config file")
	flag.StringVar(&opts.queryPath, "query", "", "Path to a JSON query to run instead of the report")
	flag.StringVar(&opts.format, "format", "json", "Output format: json, pretty, csv, xlsx")
	flag.StringVar(&opts.outFile, "out", "", "Write output to file instead of stdout")
	flag.StringVar(&opts.userType, "usertype", "", "User type for the weekly chart (overrides config)")
	flag.IntVar(&opts.top, "top", -1, "Number of popular stations to list, 0 for all (overrides config)")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `bikestats — ride statistics for bike-share trip exports

Usage:
  bikestats -trips 201602-citibike-tripdata.csv -format pretty
  bikestats -trips trips.csv -weather weather.csv -format xlsx -out report.xlsx
  bikestats -trips trips.csv -usertype Customer -top 5 -format csv
  bikestats -trips trips.csv -query by-usertype.json -format pretty

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  BIKESHARE_APP_ENV               dev (coloured logs) or prod (JSON logs)
  BIKESHARE_LOGGING_LEVEL         debug, info, warn, error
  BIKESHARE_WINDOW_YEAR/MONTH     calendar window of the trip export
  BIKESHARE_COLUMNS_<NAME>        column name overrides, e.g. BIKESHARE_COLUMNS_START_TIME

Formats:
  json      Full report as JSON (default)
  pretty    Indented JSON
  csv       Every result table, one after another
  xlsx      Workbook with one sheet per table and bar charts
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", appName, version)
		os.Exit(0)
	}

	if opts.tripsPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -trips is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	applyOverrides(cfg, opts)

	logger, err := logging.New(*cfg, version, appName)
	if err != nil {
		fatalf("Failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, *cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		if errors.Is(err, trips.ErrInvalidDateFormat) {
			fatalf("%v (expected %d/<day>/%d)", err, cfg.Window.Month, cfg.Window.Year)
		}
		fatalf("%v", err)
	}
}

func applyOverrides(cfg *config.Config, opts options) {
	if opts.userType != "" {
		cfg.Plot.WeeklyUserType = opts.userType
	}
	if opts.top >= 0 {
		cfg.Plot.TopStations = opts.top
	}
}

// run executes load → normalize → preprocess → report (or query) → render.
func run(ctx context.Context, opts options, cfg config.Config, logger *slog.Logger) error {
	switch opts.format {
	case "json", "pretty", "csv", "xlsx":
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	// ── Read data ─────────────────────────────────────────────────────────
	raw, err := loadFile(opts.tripsPath, func(r io.Reader) ([]trips.RawTrip, error) {
		return helpers.LoadTrips(r, cfg.Columns)
	})
	if err != nil {
		return fmt.Errorf("load trips: %w", err)
	}
	logger.Info("loaded trips", "path", opts.tripsPath, "rows", len(raw))

	var weather []trips.Weather
	if opts.weatherPath != "" {
		weather, err = loadFile(opts.weatherPath, func(r io.Reader) ([]trips.Weather, error) {
			return helpers.LoadWeather(r, cfg.Columns)
		})
		if err != nil {
			return fmt.Errorf("load weather: %w", err)
		}
		logger.Info("loaded weather", "path", opts.weatherPath, "rows", len(weather))
	}

	// ── Pipeline ──────────────────────────────────────────────────────────
	dated, err := trips.NewDateNormalizer(cfg.Columns, cfg.Window).Normalize(raw)
	if err != nil {
		return err
	}
	rides, err := trips.Preprocess(dated, cfg.Window)
	if err != nil {
		return fmt.Errorf("preprocess: %w", err)
	}

	var out renderer
	if opts.queryPath != "" {
		out, err = runQuery(opts.queryPath, rides, weather, cfg, logger)
	} else {
		out, err = trips.BuildReport(ctx, rides, weather, cfg, logger)
	}
	if err != nil {
		return err
	}

	// ── Output writer ─────────────────────────────────────────────────────
	var w io.Writer = os.Stdout
	if opts.outFile != "" {
		f, err := os.Create(opts.outFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := render(w, opts.format, out); err != nil {
		return err
	}
	if opts.outFile != "" {
		logger.Info("output written", "path", opts.outFile, "format", opts.format)
	}
	return nil
}

// renderer is satisfied by *trips.Report and *queryOutput.
type renderer interface {
	Tables() []*engine.TableData
	Charts() []*engine.ChartConfig
}

func render(w io.Writer, format string, out renderer) error {
	switch format {
	case "csv":
		return helpers.WriteTablesCSV(w, out.Tables())
	case "xlsx":
		return helpers.WriteXLSX(w, out.Tables(), out.Charts())
	default:
		return helpers.WriteJSON(w, out, format == "pretty")
	}
}

// ── Ad-hoc query ──────────────────────────────────────────────────────────

// queryOutput carries rendered results only; raw group values may be NaN,
// which JSON cannot encode.
type queryOutput struct {
	Query engine.Query        `json:"query"`
	Type  string              `json:"type"`
	Title string              `json:"title"`
	Chart *engine.ChartConfig `json:"chart,omitempty"`
	Table *engine.TableData   `json:"table"`
}

func (o *queryOutput) Tables() []*engine.TableData { return []*engine.TableData{o.Table} }

func (o *queryOutput) Charts() []*engine.ChartConfig {
	if o.Chart == nil {
		return nil
	}
	return []*engine.ChartConfig{o.Chart}
}

func runQuery(path string, rides []trips.Trip, weather []trips.Weather, cfg config.Config, logger *slog.Logger) (*queryOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read query: %w", err)
	}
	q, err := engine.ParseQuery(data)
	if err != nil {
		return nil, err
	}
	if len(weather) > 0 {
		rides = trips.AttachWeather(rides, weather)
	}

	res, err := engine.Execute(q, trips.TripView(rides, cfg.Columns),
		engine.WithDefaultMeasure(cfg.Columns.DurationMinutes),
		engine.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}
	logger.Info("query executed", "path", path, "groups", len(res.Groups))

	out := &queryOutput{Query: q, Type: res.Type, Title: res.Title, Chart: res.ChartConfig, Table: res.TableData}
	if out.Table == nil {
		out.Table = engine.BuildTable(q, res.Groups)
	}
	return out, nil
}

func loadFile[T any](path string, load func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return load(f)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
