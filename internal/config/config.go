// Package config loads settings from flags, the environment, .env files and
// an optional showcase.yaml.
package config

import (
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/lemmi/showcase/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultBookingURL is used until NEXT_PUBLIC_BOOKING_URL or bookingURL is
// set.
const DefaultBookingURL = "https://cal.com/PLACEHOLDER_CAL_LINK"

// EnvFiles are loaded in order. A variable already set wins, so earlier
// files take precedence over later ones.
var EnvFiles = []string{".env.local", ".env"}

type Config struct {
	Prefix      string         `mapstructure:"prefix"`
	ContentDir  string         `mapstructure:"contentDir"`
	BaseURL     string         `mapstructure:"baseURL"`
	SiteTitle   string         `mapstructure:"siteTitle"`
	BookingURL  string         `mapstructure:"bookingURL"`
	Bind        string         `mapstructure:"bind"`
	Net         string         `mapstructure:"net"`
	Git         bool           `mapstructure:"git"`
	Branch      string         `mapstructure:"branch"`
	Debug       bool           `mapstructure:"debug"`
	OutputDir   string         `mapstructure:"outputDir"`
	Recent      int            `mapstructure:"recent"`
	CORSOrigins []string       `mapstructure:"corsOrigins"`
	Log         logging.Config `mapstructure:"log"`
}

// New returns a viper instance with every default set and the environment
// bound. Flags are bound by the caller before Load.
func New() (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("prefix", ".")
	v.SetDefault("contentDir", "content/projects")
	v.SetDefault("baseURL", "http://localhost:8080")
	v.SetDefault("siteTitle", "Portfolio")
	v.SetDefault("bookingURL", DefaultBookingURL)
	v.SetDefault("bind", "localhost:8080")
	v.SetDefault("net", "tcp")
	v.SetDefault("git", false)
	v.SetDefault("branch", "master")
	v.SetDefault("debug", false)
	v.SetDefault("outputDir", "out")
	v.SetDefault("recent", 3)
	v.SetDefault("corsOrigins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetEnvPrefix("SHOWCASE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("bookingURL", "SHOWCASE_BOOKINGURL", "NEXT_PUBLIC_BOOKING_URL"); err != nil {
		return nil, errors.Wrap(err, "Cannot bind booking URL environment")
	}

	return v, nil
}

// LoadEnvFiles reads the .env files that exist. Missing files are skipped.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "Cannot load env file: %q", f)
		}
	}
	return nil
}

// Load reads cfgFile, or showcase.yaml from the working directory when
// cfgFile is empty, and decodes everything into a Config. Only an explicitly
// named config file has to exist.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("showcase")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return Config{}, errors.Wrap(err, "failed to read config file")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "unable to decode config into struct")
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Net, validation.Required, validation.In("tcp", "tcp4", "tcp6", "unix", "unixpacket")),
		validation.Field(&c.Bind, validation.Required),
		validation.Field(&c.Recent, validation.Min(0)),
	)
	return errors.Wrap(err, "invalid config")
}
