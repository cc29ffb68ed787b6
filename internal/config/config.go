package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Capture CaptureConfig `yaml:"capture"`
	Export  ExportConfig  `yaml:"export"`
	Paths   PathsConfig   `yaml:"paths"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type GeminiConfig struct {
	TranscribeModel string  `yaml:"transcribe_model"`
	SlidesModel     string  `yaml:"slides_model"`
	Temperature     float64 `yaml:"temperature"`
}

type CaptureConfig struct {
	Language      string `yaml:"language"`
	LiveSupported bool   `yaml:"live_supported"`
}

type ExportConfig struct {
	RendererCommand  string `yaml:"renderer_command"`
	AssemblerCommand string `yaml:"assembler_command"`
	PageWidth        int    `yaml:"page_width"`
	PageHeight       int    `yaml:"page_height"`
}

type PathsConfig struct {
	Inbox  string `yaml:"inbox"`
	Output string `yaml:"output"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Gemini.TranscribeModel == "" {
		c.Gemini.TranscribeModel = "gemini-2.5-flash"
	}
	if c.Gemini.SlidesModel == "" {
		c.Gemini.SlidesModel = "gemini-2.5-flash"
	}
	if c.Gemini.Temperature == 0 {
		c.Gemini.Temperature = 0.7
	}
	if c.Capture.Language == "" {
		c.Capture.Language = "en-US"
	}
	if c.Export.PageWidth == 0 {
		c.Export.PageWidth = 1280
	}
	if c.Export.PageHeight == 0 {
		c.Export.PageHeight = 720
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// APIKeys reads the required Gemini credential from the environment.
// GEMINI_API_KEY may hold a comma-separated list; keys are rotated on
// quota errors. An empty value is a fatal configuration error.
func APIKeys() ([]string, error) {
	raw := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if raw == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	return keys, nil
}
