package validation

import (
	"fmt"
	"os"
	"time"
)

// Config holds scoring oracle connection parameters.
type Config struct {
	BaseURL     string `toml:"base_url"`
	APIKey      string `toml:"api_key"`
	TextModel   string `toml:"text_model"`
	VisionModel string `toml:"vision_model"`
	CallTimeout string `toml:"call_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL     string
	APIKey      string
	TextModel   string
	VisionModel string
	CallTimeout string
}

// CallTimeoutDuration returns CallTimeout as a time.Duration.
func (c *Config) CallTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.CallTimeout)
	return d
}

// Enabled reports whether an API key is configured. When false, the adapter
// resolves every request to ErrUnavailable instead of calling out.
func (c *Config) Enabled() bool {
	return c.APIKey != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.TextModel != "" {
		c.TextModel = overlay.TextModel
	}
	if overlay.VisionModel != "" {
		c.VisionModel = overlay.VisionModel
	}
	if overlay.CallTimeout != "" {
		c.CallTimeout = overlay.CallTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.groq.com/openai/v1"
	}
	if c.TextModel == "" {
		c.TextModel = "llama-3.3-70b-versatile"
	}
	if c.VisionModel == "" {
		c.VisionModel = "llama-3.2-90b-vision-preview"
	}
	if c.CallTimeout == "" {
		c.CallTimeout = "30s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.TextModel != "" {
		if v := os.Getenv(env.TextModel); v != "" {
			c.TextModel = v
		}
	}
	if env.VisionModel != "" {
		if v := os.Getenv(env.VisionModel); v != "" {
			c.VisionModel = v
		}
	}
	if env.CallTimeout != "" {
		if v := os.Getenv(env.CallTimeout); v != "" {
			c.CallTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if _, err := time.ParseDuration(c.CallTimeout); err != nil {
		return fmt.Errorf("invalid call_timeout: %w", err)
	}
	return nil
}
