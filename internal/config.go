package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Site   SiteConfig        `yaml:"site"`
	Input  InputConfig       `yaml:"input"`
	Output OutputConfig      `yaml:"output"`
	Serve  ServeConfig       `yaml:"serve"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Input.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	return c.Serve.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// SiteConfig holds site presentation settings. Title, when non-empty, is
// appended to every generated page title.
type SiteConfig struct {
	Title string `yaml:"title"`
}

// InputConfig holds the path to the Markdown vault directory.
type InputConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the input configuration.
func (c *InputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// OutputConfig holds the path of the generated site directory. The directory
// is removed and recreated on every build.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ServeConfig holds development server configuration.
type ServeConfig struct {
	HTTP  HTTPConfig `yaml:"http"`
	Watch bool       `yaml:"watch"`
}

// Validate validates the serve configuration.
func (c *ServeConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Input: InputConfig{
			Path: "./content",
		},
		Output: OutputConfig{
			Path: "./site",
		},
		Serve: ServeConfig{
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
	}
}
