package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every env override, e.g. SCANSDL_THREADS.
const EnvPrefix = "SCANSDL_"

var ErrInvalidConfig = errors.New("invalid config")

type Notify struct {
	Desktop    bool   `yaml:"desktop" env:"DESKTOP"`
	IconsDir   string `yaml:"icons_dir" env:"ICONS_DIR"`
	WebhookURL string `yaml:"webhook_url" env:"WEBHOOK_URL"`
}

type Config struct {
	Output  string `yaml:"output" env:"OUTPUT"`
	Lang    string `yaml:"lang" env:"LANG"`
	Threads int    `yaml:"threads" env:"THREADS"`

	// Site points the language variant at a mirror host.
	Site string `yaml:"site,omitempty" env:"SITE"`

	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
	RateLimit float64       `yaml:"rate_limit" env:"RATE_LIMIT"`
	RateBurst int           `yaml:"rate_burst" env:"RATE_BURST"`

	UserAgent        string `yaml:"user_agent" env:"USER_AGENT"`
	Cookie           string `yaml:"cookie" env:"COOKIE"`
	CookieFile       string `yaml:"cookie_file" env:"COOKIE_FILE"`
	CloudflareBypass bool   `yaml:"cloudflare_bypass" env:"CLOUDFLARE_BYPASS"`

	CBZ   bool `yaml:"cbz" env:"CBZ"`
	Debug bool `yaml:"debug" env:"DEBUG"`

	Notify Notify `yaml:"notify" envPrefix:"NOTIFY_"`
}

// Options are command line values. Zero values mean "not given".
type Options struct {
	IgnoreConfig bool

	Output           string
	Lang             string
	Threads          int
	Site             string
	Timeout          time.Duration
	RateLimit        float64
	UserAgent        string
	Cookie           string
	CookieFile       string
	CloudflareBypass bool
	CBZ              bool
	Debug            bool
	Notify           bool
	WebhookURL       string
}

func DefaultConfig() *Config {
	return &Config{
		Output:    ".",
		Lang:      "FR",
		Threads:   4,
		Timeout:   30 * time.Second,
		RateLimit: 0,
		RateBurst: 1,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// missing keys keep their defaults
	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadMerged layers defaults, the active profile, SCANSDL_* env vars and
// opts, in that order. The returned string says where the profile came from.
func (s Store) LoadMerged(opts Options) (*Config, string, error) {
	cfg, used, err := s.loadBase(opts.IgnoreConfig)
	if err != nil {
		return nil, "", err
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return cfg, used, nil
}

func (s Store) loadBase(ignore bool) (*Config, string, error) {
	if ignore {
		return DefaultConfig(), "(ignored config)", nil
	}

	activePath, err := s.ActiveConfigPath()
	if errors.Is(err, ErrNoConfig) {
		return DefaultConfig(), "(default config in memory)\nRun `scansdl config init` to create an actual config\n", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	return cfg, activePath, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Lang != "" {
		c.Lang = o.Lang
	}
	if o.Threads != 0 {
		c.Threads = o.Threads
	}
	if o.Site != "" {
		c.Site = o.Site
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if o.RateLimit != 0 {
		c.RateLimit = o.RateLimit
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.CloudflareBypass {
		c.CloudflareBypass = true
	}
	if o.CBZ {
		c.CBZ = true
	}
	if o.Debug {
		c.Debug = true
	}
	if o.Notify {
		c.Notify.Desktop = true
	}
	if o.WebhookURL != "" {
		c.Notify.WebhookURL = o.WebhookURL
	}
}

func normalizeDefaults(c *Config) {
	if c.Output == "" {
		c.Output = "."
	}
	if c.Lang == "" {
		c.Lang = "FR"
	}
	if c.Threads == 0 {
		c.Threads = 4
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RateBurst == 0 {
		c.RateBurst = 1
	}
}

func (c *Config) Validate() error {
	switch {
	case c.Threads < 1:
		return fmt.Errorf("%w: threads must be at least 1, got %d", ErrInvalidConfig, c.Threads)
	case c.Timeout < 0:
		return fmt.Errorf("%w: negative timeout %s", ErrInvalidConfig, c.Timeout)
	case c.RateLimit < 0:
		return fmt.Errorf("%w: negative rate_limit %g", ErrInvalidConfig, c.RateLimit)
	case c.RateBurst < 1:
		return fmt.Errorf("%w: rate_burst must be at least 1, got %d", ErrInvalidConfig, c.RateBurst)
	}
	return nil
}

func (c *Config) Print(w io.Writer) {
	fmt.Fprintf(w, " -output: %s\n", c.Output)
	fmt.Fprintf(w, " -lang: %s\n", c.Lang)
	fmt.Fprintf(w, " -threads: %d\n", c.Threads)
	if c.Site != "" {
		fmt.Fprintf(w, " -site: %s\n", c.Site)
	}
	fmt.Fprintf(w, " -timeout: %s\n", c.Timeout)
	if c.RateLimit > 0 {
		fmt.Fprintf(w, " -rate_limit: %g/s (burst %d)\n", c.RateLimit, c.RateBurst)
	}
	if c.UserAgent != "" {
		fmt.Fprintf(w, " -user_agent: %s\n", c.UserAgent)
	}
	if c.CookieFile != "" {
		fmt.Fprintf(w, " -cookie_file: %s\n", c.CookieFile)
	}
	if c.CloudflareBypass {
		fmt.Fprintf(w, " -cloudflare_bypass: %t\n", c.CloudflareBypass)
	}
	if c.CBZ {
		fmt.Fprintf(w, " -cbz: %t\n", c.CBZ)
	}
	if c.Debug {
		fmt.Fprintf(w, " -debug: %t\n", c.Debug)
	}
	if c.Notify.Desktop {
		fmt.Fprintf(w, " -notify.desktop: %t\n", c.Notify.Desktop)
	}
	if c.Notify.IconsDir != "" {
		fmt.Fprintf(w, " -notify.icons_dir: %s\n", c.Notify.IconsDir)
	}
	if c.Notify.WebhookURL != "" {
		fmt.Fprintf(w, " -notify.webhook_url: %s\n", c.Notify.WebhookURL)
	}
}
