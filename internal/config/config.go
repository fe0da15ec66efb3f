package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Moon phase modes.
const (
	MoonPhaseImaging   = "imaging"
	MoonPhasePhaseList = "phase-list"
)

type Config struct {
	ListenAddress string `mapstructure:"LISTEN_ADDRESS"`
	DatabaseDSN   string `mapstructure:"DB_DSN"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogFile       string `mapstructure:"LOG_FILE"`
	StaticDir     string `mapstructure:"STATIC_DIR"`
	CORSOrigins   string `mapstructure:"CORS_ORIGINS"`
	SeedData      bool   `mapstructure:"SEED_DATA"`

	NASAAPIKey         string  `mapstructure:"NASA_API_KEY"`
	AstronomyAPIID     string  `mapstructure:"ASTRONOMY_API_ID"`
	AstronomyAPISecret string  `mapstructure:"ASTRONOMY_API_SECRET"`
	MoonPhaseMode      string  `mapstructure:"MOON_PHASE_MODE"`
	ObserverLocation   string  `mapstructure:"OBSERVER_LOCATION"`
	ObserverLatitude   float64 `mapstructure:"OBSERVER_LATITUDE"`
	ObserverLongitude  float64 `mapstructure:"OBSERVER_LONGITUDE"`
	PokemonMaxID       int     `mapstructure:"POKEMON_MAX_ID"`

	NASABaseURL         string `mapstructure:"NASA_BASE_URL"`
	PokeAPIBaseURL      string `mapstructure:"POKEAPI_BASE_URL"`
	HoroscopeBaseURL    string `mapstructure:"HOROSCOPE_BASE_URL"`
	AstronomyAPIBaseURL string `mapstructure:"ASTRONOMY_API_BASE_URL"`
	MoonPhaseBaseURL    string `mapstructure:"MOON_PHASE_BASE_URL"`
	OpenNotifyBaseURL   string `mapstructure:"OPEN_NOTIFY_BASE_URL"`
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"listen":    "LISTEN_ADDRESS",
	"db":        "DB_DSN",
	"log-level": "LOG_LEVEL",
	"log-file":  "LOG_FILE",
	"static":    "STATIC_DIR",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LISTEN_ADDRESS", ":5000")
	v.SetDefault("DB_DSN", "pikachu.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "console")
	v.SetDefault("STATIC_DIR", "static")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("SEED_DATA", true)

	v.SetDefault("NASA_API_KEY", "DEMO_KEY")
	v.SetDefault("ASTRONOMY_API_ID", "admin")
	v.SetDefault("ASTRONOMY_API_SECRET", "admin")
	v.SetDefault("MOON_PHASE_MODE", MoonPhaseImaging)
	v.SetDefault("OBSERVER_LOCATION", "Rio de Janeiro")
	v.SetDefault("OBSERVER_LATITUDE", -22.9068)
	v.SetDefault("OBSERVER_LONGITUDE", -43.1729)
	v.SetDefault("POKEMON_MAX_ID", 1010)

	v.SetDefault("NASA_BASE_URL", "https://api.nasa.gov")
	v.SetDefault("POKEAPI_BASE_URL", "https://pokeapi.co")
	v.SetDefault("HOROSCOPE_BASE_URL", "https://horoscope-app-api.vercel.app")
	v.SetDefault("ASTRONOMY_API_BASE_URL", "https://api.astronomyapi.com")
	v.SetDefault("MOON_PHASE_BASE_URL", "https://api.farmsense.net")
	v.SetDefault("OPEN_NOTIFY_BASE_URL", "http://api.open-notify.org")
}

// LoadConfig reads defaults, the optional config file, PIKACHU_* environment
// variables and, when flags is non-nil, command line overrides.
// An empty path falls back to ".env". A missing file is not an error; an
// unreadable or malformed one is.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PIKACHU")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// The NASA key keeps its historical, unprefixed name.
	if err := v.BindEnv("NASA_API_KEY", "NASA_API_KEY"); err != nil {
		return nil, err
	}

	if path == "" {
		path = ".env"
	}
	v.SetConfigFile(path)
	if strings.HasSuffix(path, ".env") {
		v.SetConfigType("env")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseDSN) == "" {
		return fmt.Errorf("database dsn is required")
	}
	switch c.MoonPhaseMode {
	case MoonPhaseImaging, MoonPhasePhaseList:
	default:
		return fmt.Errorf("unknown moon phase mode %q", c.MoonPhaseMode)
	}
	if c.PokemonMaxID < 1 {
		return fmt.Errorf("pokemon max id must be positive, got %d", c.PokemonMaxID)
	}
	return nil
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
