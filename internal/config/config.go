// Package config loads the site configuration.
//
// Sources, lowest precedence first: built-in defaults, an optional
// config.{yaml,yml,json,toml} in the working directory, a .env file, the
// process environment, and finally flags that were explicitly set.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/logging"
)

// EnvPrefix prefixes every environment variable, e.g. FOLIO_HTTP_PORT.
const EnvPrefix = "FOLIO"

// SMTPConfig is the outgoing mail server used for contact notifications.
type SMTPConfig struct {
	Host string `mapstructure:"smtp_host"`
	Port int    `mapstructure:"smtp_port"`
	User string `mapstructure:"smtp_user"`
	Pass string `mapstructure:"smtp_pass"`
	From string `mapstructure:"contact_from"`
}

// Config is everything the site needs to start.
type Config struct {
	Env      string `mapstructure:"env"`       // "dev" | "prod"
	LogLevel string `mapstructure:"log_level"` // debug, info, warn, error ...
	HTTPPort int    `mapstructure:"http_port"`

	// DBPath is the SQLite file for visits and the contact inbox. Empty
	// disables both.
	DBPath string `mapstructure:"db_path"`

	// ProjectsFile overrides the embedded project list.
	ProjectsFile string `mapstructure:"projects_file"`

	SiteTitle  string `mapstructure:"site_title"`
	OwnerEmail string `mapstructure:"owner_email"`
	OwnerPhone string `mapstructure:"owner_phone"`

	ResetOnAccept bool `mapstructure:"reset_on_accept"`

	EnableTracking   bool          `mapstructure:"enable_tracking"`
	VisitorRetention time.Duration `mapstructure:"visitor_retention"`

	SMTP      SMTPConfig `mapstructure:",squash"`
	ContactTo string     `mapstructure:"contact_to"`

	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
}

// MailEnabled reports whether accepted submissions should be emailed.
func (c Config) MailEnabled() bool {
	return strings.TrimSpace(c.SMTP.Host) != "" && strings.TrimSpace(c.ContactTo) != ""
}

// AdminEnabled reports whether the admin pages are mounted.
func (c Config) AdminEnabled() bool {
	return c.DBPath != "" && c.AdminPassword != ""
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// Dump returns the config as indented JSON with secrets redacted.
func (c Config) Dump() string {
	cp := c
	if cp.SMTP.Pass != "" {
		cp.SMTP.Pass = "REDACTED"
	}
	if cp.AdminPassword != "" {
		cp.AdminPassword = "REDACTED"
	}
	b, _ := json.MarshalIndent(cp, "", "  ")
	return string(b)
}

// legacyEnv maps keys onto the unprefixed variables older deployments used.
var legacyEnv = map[string]string{
	"http_port":      "PORT",
	"smtp_host":      "SMTP_HOST",
	"smtp_port":      "SMTP_PORT",
	"smtp_user":      "SMTP_USER",
	"smtp_pass":      "SMTP_PASS",
	"contact_to":     "TO_EMAIL",
	"admin_username": "ADMIN_USERNAME",
	"admin_password": "ADMIN_PASSWORD",
}

// Load builds a Config from args (usually os.Args[1:]) and the environment.
func Load(logger *zap.Logger, args []string) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded .env file")
	}

	fs := pflag.NewFlagSet("folio", pflag.ContinueOnError)
	fs.String("env", "dev", `Runtime environment "dev"|"prod"`)
	fs.String("log_level", "debug", "Log level")
	fs.Int("http_port", 8080, "HTTP port")
	fs.String("db_path", "", "SQLite file for visitor stats and the contact inbox (empty disables)")
	fs.String("projects_file", "", "JSON or YAML project list (empty uses the built-in list)")
	fs.String("site_title", "My Portfolio", "Title shown in the navigation bar")
	fs.String("owner_email", "", "Public email shown in the footer")
	fs.String("owner_phone", "", "Public phone number shown in the footer")
	fs.Bool("reset_on_accept", false, "Clear the contact form after an accepted submit")
	fs.Bool("enable_tracking", true, "Record privacy-preserving visit stats (needs db_path)")
	fs.String("visitor_retention", "8760h", "How long visit rows are kept")
	fs.String("smtp_host", "", "SMTP host for contact notifications")
	fs.Int("smtp_port", 587, "SMTP port")
	fs.String("smtp_user", "", "SMTP username")
	fs.String("smtp_pass", "", "SMTP password")
	fs.String("contact_from", "", "From address for notifications (defaults to smtp_user)")
	fs.String("contact_to", "", "Where contact notifications are delivered")
	fs.String("admin_username", "admin", "Admin login name")
	fs.String("admin_password", "", "Admin password (empty disables the admin pages)")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, k := range allKeys() {
		names := []string{k, EnvPrefix + "_" + strings.ToUpper(k)}
		if legacy, ok := legacyEnv[k]; ok {
			names = append(names, legacy)
		}
		_ = v.BindEnv(names...)
	}

	for _, ext := range [...]string{"yaml", "yml", "json", "toml"} {
		file := "config." + ext
		b, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		v.SetConfigType(ext)
		if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
			logger.Warn("cannot decode config file", zap.String("file", file), zap.Error(err))
			continue
		}
		logger.Info("Loaded config file", zap.String("file", file))
	}

	setDefaults(v)

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = v.BindPFlag(f.Name, f)
		}
	})

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unable to decode: %w", err)
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func allKeys() []string {
	return []string{
		"env", "log_level", "http_port",
		"db_path", "projects_file",
		"site_title", "owner_email", "owner_phone",
		"reset_on_accept",
		"enable_tracking", "visitor_retention",
		"smtp_host", "smtp_port", "smtp_user", "smtp_pass", "contact_from", "contact_to",
		"admin_username", "admin_password",
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "debug")
	v.SetDefault("http_port", 8080)
	v.SetDefault("db_path", "")
	v.SetDefault("projects_file", "")
	v.SetDefault("site_title", "My Portfolio")
	v.SetDefault("owner_email", "")
	v.SetDefault("owner_phone", "")
	v.SetDefault("reset_on_accept", false)
	v.SetDefault("enable_tracking", true)
	v.SetDefault("visitor_retention", "8760h")
	v.SetDefault("smtp_host", "")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_user", "")
	v.SetDefault("smtp_pass", "")
	v.SetDefault("contact_from", "")
	v.SetDefault("contact_to", "")
	v.SetDefault("admin_username", "admin")
	v.SetDefault("admin_password", "")
}

func validate(cfg Config) error {
	var invalid []string

	if cfg.Env != "dev" && cfg.Env != "prod" {
		invalid = append(invalid, `env must be "dev" or "prod"`)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		invalid = append(invalid, "log_level: "+err.Error())
	}
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		invalid = append(invalid, "http_port must be in 1..65535")
	}
	if cfg.VisitorRetention <= 0 {
		invalid = append(invalid, "visitor_retention must be > 0")
	}
	if cfg.MailEnabled() {
		if cfg.SMTP.Port <= 0 || cfg.SMTP.Port > 65535 {
			invalid = append(invalid, "smtp_port must be in 1..65535")
		}
		if cfg.SMTP.From == "" {
			invalid = append(invalid, "contact_from (or smtp_user) is required when smtp_host is set")
		}
	}
	if cfg.AdminPassword != "" && strings.TrimSpace(cfg.AdminUsername) == "" {
		invalid = append(invalid, "admin_username must not be empty when admin_password is set")
	}

	if len(invalid) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid: %s", strings.Join(invalid, ", "))
}
