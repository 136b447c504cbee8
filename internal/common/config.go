// Package common holds cross-cutting application configuration.
package common

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Extract  ExtractConfig  `yaml:"extract"`
	OCR      OCRConfig      `yaml:"ocr"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type ExtractConfig struct {
	// StrictTypes rejects extensions outside the pdf/docx/text
	// allow-list instead of decoding them as plain text.
	StrictTypes bool `yaml:"strict_types"`
}

type OCRConfig struct {
	Pdftoppm    string `yaml:"pdftoppm"`
	Tesseract   string `yaml:"tesseract"`
	Lang        string `yaml:"lang"`
	DPI         int    `yaml:"dpi"`
	MaxPages    int    `yaml:"max_pages"`
	Workers     int    `yaml:"workers"`
	TessdataDir string `yaml:"tessdata_dir"`
}

// Load builds configuration from defaults, an optional YAML file, and
// environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{DSN: "file:intake.db"},
		OCR:      OCRConfig{Lang: "eng", DPI: 300, Workers: 4},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Server.Addr = getEnv("ADDR", cfg.Server.Addr)
	cfg.Server.StaticDir = getEnv("STATIC_DIR", cfg.Server.StaticDir)
	cfg.Database.DSN = getEnv("DB_DSN", cfg.Database.DSN)
	cfg.Extract.StrictTypes = getEnvAsBool("EXTRACT_STRICT_TYPES", cfg.Extract.StrictTypes)
	cfg.OCR.Pdftoppm = getEnv("OCR_PDFTOPPM", cfg.OCR.Pdftoppm)
	cfg.OCR.Tesseract = getEnv("OCR_TESSERACT", cfg.OCR.Tesseract)
	cfg.OCR.Lang = getEnv("OCR_LANG", cfg.OCR.Lang)
	cfg.OCR.DPI = getEnvAsInt("OCR_DPI", cfg.OCR.DPI)
	cfg.OCR.MaxPages = getEnvAsInt("OCR_MAX_PAGES", cfg.OCR.MaxPages)
	cfg.OCR.Workers = getEnvAsInt("OCR_WORKERS", cfg.OCR.Workers)
	cfg.OCR.TessdataDir = getEnv("TESSDATA_PREFIX", cfg.OCR.TessdataDir)

	return cfg, nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server addr is required")
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("config: database dsn is required")
	}
	if c.OCR.DPI <= 0 {
		return fmt.Errorf("config: ocr dpi must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
