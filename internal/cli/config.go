package cli

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/visualtopo/pkg/errors"
	"github.com/matzehuels/visualtopo/pkg/scene"
)

// Config holds defaults shared by all commands. Flags override it.
//
//	width = 1024
//	height = 768
//	background = "#ffffff"
//	blink_period = "1s"
//
//	[serve]
//	listen = ":8080"
//	session_ttl = "1h"
type Config struct {
	Width       float64  `toml:"width"`
	Height      float64  `toml:"height"`
	Background  string   `toml:"background"`
	BlinkPeriod duration `toml:"blink_period"`

	Serve ServeConfig `toml:"serve"`
}

// ServeConfig configures the HTTP host.
type ServeConfig struct {
	Listen     string   `toml:"listen"`
	SessionTTL duration `toml:"session_ttl"`
}

// duration decodes TOML strings such as "500ms" with time.ParseDuration.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

const (
	defaultListen     = "127.0.0.1:8080"
	defaultSessionTTL = 30 * time.Minute
)

func defaultConfig() Config {
	return Config{
		Width:       scene.DefaultWidth,
		Height:      scene.DefaultHeight,
		Background:  scene.DefaultBackground,
		BlinkPeriod: duration{scene.DefaultBlinkPeriod},
		Serve: ServeConfig{
			Listen:     defaultListen,
			SessionTTL: duration{defaultSessionTTL},
		},
	}
}

// loadConfig decodes the TOML file at path over the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys %v", path, undecoded)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if err := errors.ValidateViewport(c.Width, c.Height); err != nil {
		return err
	}
	if c.BlinkPeriod.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "blink_period must be positive")
	}
	if c.Serve.SessionTTL.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "serve.session_ttl must be positive")
	}
	return nil
}
