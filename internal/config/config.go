package config

import (
	"os"
	"time"

	"decor-funnel/internal/domain"
	"decor-funnel/internal/ratelimit"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Redis struct {
		Addr      string `yaml:"addr"`
		Password  string `yaml:"password"`
		DB        int    `yaml:"db"`
		TTL       string `yaml:"ttl"`
		ResultTTL string `yaml:"result_ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL       string `yaml:"url"`
		CatalogID string `yaml:"catalog_id"`
	} `yaml:"postgres"`
	Content struct {
		Dir string `yaml:"dir"`
	} `yaml:"content"`
	Quiz struct {
		ID        string `yaml:"id"`
		TTL       string `yaml:"ttl"`
		Backtrack string `yaml:"backtrack"`
		IdleAfter string `yaml:"idle_after"`
	} `yaml:"quiz"`
	RateLimit struct {
		SweepEvery string                  `yaml:"sweep_every"`
		Retention  string                  `yaml:"retention"`
		Presets    map[string]PresetConfig `yaml:"presets"`
		Throttle   struct {
			RPS     float64 `yaml:"rps"`
			Burst   int     `yaml:"burst"`
			IdleTTL string  `yaml:"idle_ttl"`
		} `yaml:"throttle"`
	} `yaml:"ratelimit"`
	Delivery struct {
		BusinessEmail  string `yaml:"business_email"`
		WhatsAppNumber string `yaml:"whatsapp_number"`
		EmailJS        struct {
			Endpoint    string            `yaml:"endpoint"`
			ServiceID   string            `yaml:"service_id"`
			PublicKey   string            `yaml:"public_key"`
			AccessToken string            `yaml:"access_token"`
			Templates   map[string]string `yaml:"templates"`
			Timeout     string            `yaml:"timeout"`
		} `yaml:"emailjs"`
		AMQP struct {
			URL string `yaml:"url"`
		} `yaml:"amqp"`
	} `yaml:"delivery"`
	Pricing struct {
		Tiers []domain.PricingTier `yaml:"tiers"`
	} `yaml:"pricing"`
}

// PresetConfig overrides one rate limit preset.
type PresetConfig struct {
	MaxAttempts int    `yaml:"max_attempts"`
	Window      string `yaml:"window"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Presets returns the built-in presets with any configured overrides applied, keyed by
// preset key (contact-form, newsletter, quiz-submission).
func (c Config) Presets() ratelimit.Presets {
	p := ratelimit.DefaultPresets()
	p.Contact = c.preset(p.Contact)
	p.Newsletter = c.preset(p.Newsletter)
	p.Quiz = c.preset(p.Quiz)
	return p
}

func (c Config) preset(p ratelimit.Preset) ratelimit.Preset {
	o, ok := c.RateLimit.Presets[p.Key]
	if !ok {
		return p
	}
	if o.MaxAttempts > 0 {
		p.MaxAttempts = o.MaxAttempts
	}
	p.Window = TTLDuration(o.Window, p.Window)
	return p
}
