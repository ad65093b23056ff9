package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"sensitivity-calc.klederson.com/internal/calc"
)

const (
	// App
	AppName    = "SENS-CALC"
	AppVersion = "1.0"

	// Display
	SpinnerInterval = 120 * time.Millisecond // Activity spinner frame time
	HistorySize     = 8                      // Results kept per array
	ParamsWidth     = 64                     // Parameter table width in columns

	// Files
	ConfigName     = ".sens-calc"    // Looked up in the home directory
	DefaultLogFile = "sens-calc.log" // The terminal belongs to the UI
	EnvPrefix      = "SENSCALC"
)

// Keys of every setting, shared by viper, flags and the environment.
const (
	KeyServiceURL   = "service.url"
	KeyTimeout      = "service.timeout"
	KeyRetries      = "service.retries"
	KeyBandCacheTTL = "service.band_cache_ttl"
	KeyDemo         = "demo"
	KeySensUnits    = "units.sensitivity"
	KeyTimeUnits    = "units.time"
	KeyLogLevel     = "log.level"
	KeyLogFile      = "log.file"
	KeyMetricsAddr  = "metrics.addr"
)

type Config struct {
	Service ServiceConfig `mapstructure:"service"`
	// Demo answers every request in-process instead of calling the service.
	Demo    bool          `mapstructure:"demo"`
	Units   UnitsConfig   `mapstructure:"units"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type ServiceConfig struct {
	URL          string        `mapstructure:"url" validate:"omitempty,url"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Retries      uint          `mapstructure:"retries" validate:"min=1,max=10"`
	BandCacheTTL time.Duration `mapstructure:"band_cache_ttl" validate:"gte=0"`
}

// UnitsConfig holds the initial unit policies: "automatic" or "preserve".
type UnitsConfig struct {
	Sensitivity string `mapstructure:"sensitivity" validate:"oneof=automatic auto preserve manual"`
	Time        string `mapstructure:"time" validate:"oneof=automatic auto preserve manual"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=panic fatal error warn warning info debug trace"`
	File  string `mapstructure:"file"`
}

type MetricsConfig struct {
	// Addr serves /metrics when set.
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyServiceURL, "")
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyRetries, 3)
	v.SetDefault(KeyBandCacheTTL, 10*time.Minute)
	v.SetDefault(KeyDemo, false)
	v.SetDefault(KeySensUnits, "automatic")
	v.SetDefault(KeyTimeUnits, "automatic")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, DefaultLogFile)
	v.SetDefault(KeyMetricsAddr, "")
}

// Load reads cfgFile, or ~/.sens-calc.yaml when empty, then the
// environment, and returns the validated result. A missing default file is
// not an error.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return Config{}, errors.Wrap(err, "finding home directory")
		}
		v.AddConfigPath(home)
		v.SetConfigName(ConfigName)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || cfgFile != "" {
			return Config{}, errors.Wrap(err, "reading config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if !c.Demo && c.Service.URL == "" {
		return errors.Errorf("invalid config: %s is required unless %s is set", KeyServiceURL, KeyDemo)
	}
	return nil
}

// Session returns the settings a new calculator session starts from.
func (c Config) Session() calc.Defaults {
	d := calc.DefaultSettings()
	if p, ok := calc.ParseUnitPolicy(c.Units.Sensitivity); ok {
		d.SensitivityPolicy = p
	}
	if p, ok := calc.ParseUnitPolicy(c.Units.Time); ok {
		d.TimePolicy = p
	}
	return d
}
