package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BIKESHARE"

// Config is the complete configuration, resolved once at startup and passed
// explicitly to every component.
type Config struct {
	AppEnv  string        `yaml:"app_env" envconfig:"APP_ENV" validate:"oneof=dev prod"`
	Columns Columns       `yaml:"columns" envconfig:"COLUMNS"`
	Window  RideWindow    `yaml:"window" envconfig:"WINDOW"`
	Plot    PlotConfig    `yaml:"plot" envconfig:"PLOT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// Columns names the source and derived columns of the trip and weather tables.
type Columns struct {
	// trip table
	StartTime    string `yaml:"start_time" envconfig:"START_TIME" validate:"required"`
	StopTime     string `yaml:"stop_time" envconfig:"STOP_TIME" validate:"required"`
	TripDuration string `yaml:"trip_duration" envconfig:"TRIP_DURATION" validate:"required"`
	StartStation string `yaml:"start_station" envconfig:"START_STATION" validate:"required"`
	StopStation  string `yaml:"stop_station" envconfig:"STOP_STATION" validate:"required"`
	BirthYear    string `yaml:"birth_year" envconfig:"BIRTH_YEAR" validate:"required"`
	Gender       string `yaml:"gender" envconfig:"GENDER" validate:"required"`
	UserType     string `yaml:"user_type" envconfig:"USER_TYPE" validate:"required"`

	// shared by both tables
	Temperature string `yaml:"temperature" envconfig:"TEMPERATURE" validate:"required"`

	// weather table
	WeatherDate    string `yaml:"weather_date" envconfig:"WEATHER_DATE" validate:"required"`
	MaxTemperature string `yaml:"max_temperature" envconfig:"MAX_TEMPERATURE" validate:"required"`
	MinTemperature string `yaml:"min_temperature" envconfig:"MIN_TEMPERATURE" validate:"required"`
	Precipitation  string `yaml:"precipitation" envconfig:"PRECIPITATION" validate:"required"`
	SnowFall       string `yaml:"snow_fall" envconfig:"SNOW_FALL" validate:"required"`
	SnowDepth      string `yaml:"snow_depth" envconfig:"SNOW_DEPTH" validate:"required"`

	// derived
	Month           string `yaml:"month" envconfig:"MONTH" validate:"required"`
	Day             string `yaml:"day" envconfig:"DAY" validate:"required"`
	DayName         string `yaml:"day_name" envconfig:"DAY_NAME" validate:"required"`
	StartHour       string `yaml:"start_hour" envconfig:"START_HOUR" validate:"required"`
	StartMinute     string `yaml:"start_minute" envconfig:"START_MINUTE" validate:"required"`
	StopHour        string `yaml:"stop_hour" envconfig:"STOP_HOUR" validate:"required"`
	StopMinute      string `yaml:"stop_minute" envconfig:"STOP_MINUTE" validate:"required"`
	Age             string `yaml:"age" envconfig:"AGE" validate:"required"`
	DurationMinutes string `yaml:"duration_minutes" envconfig:"DURATION_MINUTES" validate:"required"`
	DurationHours   string `yaml:"duration_hours" envconfig:"DURATION_HOURS" validate:"required"`

	// CountReference is the column whose non-null values are counted per day.
	CountReference string `yaml:"count_reference" envconfig:"COUNT_REFERENCE" validate:"required"`
}

// RideWindow pins the calendar window the trip data is expected to cover.
type RideWindow struct {
	Year  int `yaml:"year" envconfig:"YEAR" validate:"min=1900,max=2100"`
	Month int `yaml:"month" envconfig:"MONTH" validate:"min=1,max=12"`

	// ReferenceYear is subtracted from birth year to compute age.
	ReferenceYear int `yaml:"reference_year" envconfig:"REFERENCE_YEAR" validate:"min=1900,max=2100"`

	// WeekStart and WeekEnd bound the half-open range used to count weekdays.
	WeekStart Date `yaml:"week_start" envconfig:"WEEK_START"`
	WeekEnd   Date `yaml:"week_end" envconfig:"WEEK_END"`
}

// NextMonth returns the month and year following the window month.
func (w RideWindow) NextMonth() (month, year int) {
	if w.Month == 12 {
		return 1, w.Year + 1
	}
	return w.Month + 1, w.Year
}

// PlotConfig holds chart settings.
type PlotConfig struct {
	Bins            int     `yaml:"bins" envconfig:"BINS" validate:"min=2"`
	BarWidth        float64 `yaml:"bar_width" envconfig:"BAR_WIDTH" validate:"gt=0"`
	TemperatureFill string  `yaml:"temperature_fill" envconfig:"TEMPERATURE_FILL" validate:"required,hexcolor"`
	WeeklyFill      string  `yaml:"weekly_fill" envconfig:"WEEKLY_FILL" validate:"required,hexcolor"`
	Opacity         float64 `yaml:"opacity" envconfig:"OPACITY" validate:"gt=0,lte=1"`
	TopStations     int     `yaml:"top_stations" envconfig:"TOP_STATIONS" validate:"min=0"`
	WeeklyUserType  string  `yaml:"weekly_user_type" envconfig:"WEEKLY_USER_TYPE" validate:"required"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
}

// Default returns the configuration for the February 2016 Citi Bike export.
func Default() Config {
	return Config{
		AppEnv: "dev",
		Columns: Columns{
			StartTime:    "starttime",
			StopTime:     "stoptime",
			TripDuration: "tripduration",
			StartStation: "start station name",
			StopStation:  "end station name",
			BirthYear:    "birth year",
			Gender:       "gender",
			UserType:     "usertype",

			Temperature: "average temperature",

			WeatherDate:    "date",
			MaxTemperature: "maximum temperature",
			MinTemperature: "minimum temperature",
			Precipitation:  "precipitation",
			SnowFall:       "snow fall",
			SnowDepth:      "snow depth",

			Month:           "month",
			Day:             "day",
			DayName:         "day_name",
			StartHour:       "start_hour",
			StartMinute:     "start_minute",
			StopHour:        "stop_hour",
			StopMinute:      "stop_minute",
			Age:             "age",
			DurationMinutes: "tripduration_minutes",
			DurationHours:   "tripduration_hours",

			CountReference: "tripduration",
		},
		Window: RideWindow{
			Year:          2016,
			Month:         2,
			ReferenceYear: 2016,
			WeekStart:     NewDate(2016, time.January, 31),
			WeekEnd:       NewDate(2016, time.March, 1),
		},
		Plot: PlotConfig{
			Bins:            5,
			BarWidth:        1,
			TemperatureFill: "#2a9d8f",
			WeeklyFill:      "#336600",
			Opacity:         0.6,
			TopStations:     10,
			WeeklyUserType:  "Subscriber",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load resolves configuration: defaults, then the YAML file at path (if
// path is non-empty), then BIKESHARE_* environment variables. The result is
// validated before it is returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays YAML values onto cfg. Keys absent from the file keep
// their current value.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks field constraints and that the weekday window is not empty.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// LogLevel parses Logging.Level into a slog level.
func (c Config) LogLevel() (slog.Level, error) {
	return ParseLogLevel(c.Logging.Level)
}

// ParseLogLevel maps debug/info/warn/error onto slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (allowed: debug, info, warn, error)", s)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateRideWindow, RideWindow{})
	return v
}

func validateRideWindow(sl validator.StructLevel) {
	w := sl.Current().Interface().(RideWindow)
	if w.WeekStart.IsZero() {
		sl.ReportError(w.WeekStart, "WeekStart", "WeekStart", "required", "")
	}
	if !w.WeekEnd.After(w.WeekStart.Time) {
		sl.ReportError(w.WeekEnd, "WeekEnd", "WeekEnd", "gtfield", "WeekStart")
	}
}
