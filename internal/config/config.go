package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Sources   SourcesConfig   `yaml:"sources" envconfig:"SOURCES"`
	Elections ElectionsConfig `yaml:"elections" envconfig:"ELECTIONS"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"100"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/dashpulse.log"`
}

// SourcesConfig describes the three remote tabular data sources consumed by
// the indicators pipeline. The GDP source has a documented fallback and is
// the only one allowed to fail without aborting the load.
type SourcesConfig struct {
	CO2URL       string        `yaml:"co2_url" envconfig:"CO2_URL" default:"https://ourworldindata.org/grapher/co-emissions-per-capita.csv?v=1&csvType=full&useColumnShortNames=true"`
	EnergyURL    string        `yaml:"energy_url" envconfig:"ENERGY_URL" default:"https://nyc3.digitaloceanspaces.com/owid-public/data/energy/owid-energy-data.csv"`
	GDPURL       string        `yaml:"gdp_url" envconfig:"GDP_URL" default:"https://api.worldbank.org/v2/country/all/indicator/NY.GDP.PCAP.PP.KD"`
	GDPFromYear  int           `yaml:"gdp_from_year" envconfig:"GDP_FROM_YEAR" default:"1990"`
	GDPToYear    int           `yaml:"gdp_to_year" envconfig:"GDP_TO_YEAR" default:"2023"`
	GDPPageSize  int           `yaml:"gdp_page_size" envconfig:"GDP_PAGE_SIZE" default:"20000"`
	YearCutoff   int           `yaml:"year_cutoff" envconfig:"YEAR_CUTOFF" default:"1990"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT" default:"2m"`
	RateRPS      float64       `yaml:"rate_rps" envconfig:"RATE_RPS" default:"2"`
	RateBurst    int           `yaml:"rate_burst" envconfig:"RATE_BURST" default:"3"`
}

// ElectionsConfig configures the synthetic election-margin generator
type ElectionsConfig struct {
	Seed             int64    `yaml:"seed" envconfig:"SEED" default:"42"`
	CountiesPerParty int      `yaml:"counties_per_party" envconfig:"COUNTIES_PER_PARTY" default:"120"`
	States           []string `yaml:"states" envconfig:"STATES" default:"Texas,California,Florida,Pennsylvania,Ohio,Georgia,Michigan,Arizona"`
}

// ExportConfig contains file export configuration
type ExportConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" default:"exports"`
	BOM bool   `yaml:"bom" envconfig:"BOM" default:"false"`
}

// Load loads configuration from environment variables and an optional
// config file. Environment variables take precedence over file values.
func Load() (*Config, error) {
	return LoadFromFile(getConfigFilePath())
}

// LoadFromFile loads configuration using the given config file path.
func LoadFromFile(configFile string) (*Config, error) {
	var cfg Config

	// Defaults plus environment overrides
	if err := envconfig.Process("DASHPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileCfg, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileCfg, cfg)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs overlays file values onto the env-derived config. A file
// value applies only when the corresponding environment variable is not
// set, so the precedence is env over file over defaults.
func mergeConfigs(file, env Config) Config {
	out := env

	if file.Server.Port != 0 && !envKeySet("SERVER_PORT") {
		out.Server.Port = file.Server.Port
	}
	if file.Server.ReadTimeout != 0 && !envKeySet("SERVER_READ_TIMEOUT") {
		out.Server.ReadTimeout = file.Server.ReadTimeout
	}
	if file.Server.WriteTimeout != 0 && !envKeySet("SERVER_WRITE_TIMEOUT") {
		out.Server.WriteTimeout = file.Server.WriteTimeout
	}
	if file.Server.IdleTimeout != 0 && !envKeySet("SERVER_IDLE_TIMEOUT") {
		out.Server.IdleTimeout = file.Server.IdleTimeout
	}
	if file.Server.ShutdownTimeout != 0 && !envKeySet("SERVER_SHUTDOWN_TIMEOUT") {
		out.Server.ShutdownTimeout = file.Server.ShutdownTimeout
	}
	if file.Server.RateLimitRPS != 0 && !envKeySet("SERVER_RATE_LIMIT_RPS") {
		out.Server.RateLimitRPS = file.Server.RateLimitRPS
	}
	if file.Server.RateLimitBurst != 0 && !envKeySet("SERVER_RATE_LIMIT_BURST") {
		out.Server.RateLimitBurst = file.Server.RateLimitBurst
	}

	if file.Logging.Level != "" && !envKeySet("LOGGING_LEVEL") {
		out.Logging.Level = file.Logging.Level
	}
	if file.Logging.Format != "" && !envKeySet("LOGGING_FORMAT") {
		out.Logging.Format = file.Logging.Format
	}
	if file.Logging.Output != "" && !envKeySet("LOGGING_OUTPUT") {
		out.Logging.Output = file.Logging.Output
	}
	if file.Logging.FilePath != "" && !envKeySet("LOGGING_FILE_PATH") {
		out.Logging.FilePath = file.Logging.FilePath
	}

	if file.Sources.CO2URL != "" && !envKeySet("SOURCES_CO2_URL") {
		out.Sources.CO2URL = file.Sources.CO2URL
	}
	if file.Sources.EnergyURL != "" && !envKeySet("SOURCES_ENERGY_URL") {
		out.Sources.EnergyURL = file.Sources.EnergyURL
	}
	if file.Sources.GDPURL != "" && !envKeySet("SOURCES_GDP_URL") {
		out.Sources.GDPURL = file.Sources.GDPURL
	}
	if file.Sources.GDPFromYear != 0 && !envKeySet("SOURCES_GDP_FROM_YEAR") {
		out.Sources.GDPFromYear = file.Sources.GDPFromYear
	}
	if file.Sources.GDPToYear != 0 && !envKeySet("SOURCES_GDP_TO_YEAR") {
		out.Sources.GDPToYear = file.Sources.GDPToYear
	}
	if file.Sources.GDPPageSize != 0 && !envKeySet("SOURCES_GDP_PAGE_SIZE") {
		out.Sources.GDPPageSize = file.Sources.GDPPageSize
	}
	if file.Sources.YearCutoff != 0 && !envKeySet("SOURCES_YEAR_CUTOFF") {
		out.Sources.YearCutoff = file.Sources.YearCutoff
	}
	if file.Sources.FetchTimeout != 0 && !envKeySet("SOURCES_FETCH_TIMEOUT") {
		out.Sources.FetchTimeout = file.Sources.FetchTimeout
	}
	if file.Sources.RateRPS != 0 && !envKeySet("SOURCES_RATE_RPS") {
		out.Sources.RateRPS = file.Sources.RateRPS
	}
	if file.Sources.RateBurst != 0 && !envKeySet("SOURCES_RATE_BURST") {
		out.Sources.RateBurst = file.Sources.RateBurst
	}

	if file.Elections.Seed != 0 && !envKeySet("ELECTIONS_SEED") {
		out.Elections.Seed = file.Elections.Seed
	}
	if file.Elections.CountiesPerParty != 0 && !envKeySet("ELECTIONS_COUNTIES_PER_PARTY") {
		out.Elections.CountiesPerParty = file.Elections.CountiesPerParty
	}
	if len(file.Elections.States) > 0 && !envKeySet("ELECTIONS_STATES") {
		out.Elections.States = file.Elections.States
	}

	if file.Export.Dir != "" && !envKeySet("EXPORT_DIR") {
		out.Export.Dir = file.Export.Dir
	}

	return out
}

// envKeySet reports whether the prefixed environment variable is present.
// A present variable marks the field as an explicit override that the
// config file must not replace.
func envKeySet(key string) bool {
	_, ok := os.LookupEnv("DASHPULSE_" + key)
	return ok
}

// validate checks the configuration for invalid values
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Sources.CO2URL == "" || c.Sources.EnergyURL == "" || c.Sources.GDPURL == "" {
		return fmt.Errorf("all three source URLs must be configured")
	}
	if c.Sources.YearCutoff <= 0 {
		return fmt.Errorf("invalid year cutoff: %d", c.Sources.YearCutoff)
	}
	if c.Sources.GDPFromYear > c.Sources.GDPToYear {
		return fmt.Errorf("gdp year range inverted: %d..%d", c.Sources.GDPFromYear, c.Sources.GDPToYear)
	}

	if c.Elections.CountiesPerParty <= 0 {
		return fmt.Errorf("counties per party must be positive: %d", c.Elections.CountiesPerParty)
	}
	if len(c.Elections.States) == 0 {
		return fmt.Errorf("at least one state is required")
	}

	if c.Export.Dir == "" {
		return fmt.Errorf("export directory must be configured")
	}

	return nil
}

// getConfigFilePath returns the config file path, honoring the
// DASHPULSE_CONFIG override.
func getConfigFilePath() string {
	if path := os.Getenv("DASHPULSE_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}

// GetAddress returns the listen address for the HTTP server
func (c *ServerConfig) GetAddress() string {
	return fmt.Sprintf(":%d", c.Port)
}
