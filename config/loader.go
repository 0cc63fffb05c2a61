package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// Defaults follow the Bluebikes map: Boston / Cambridge, zoom 12 within [5,18].
const (
	DefaultPort              = 16181
	DefaultMaxRadius         = 25
	DefaultFilteredMinRadius = 3
	DefaultDomainPolicy      = "filtered"
	DefaultCenterLon         = -71.09415
	DefaultCenterLat         = 42.36027
	DefaultZoom              = 12
	DefaultMinZoom           = 5
	DefaultMaxZoom           = 18
	DefaultWidth             = 1024
	DefaultHeight            = 768
	DefaultIdleTimeoutSec    = 1800
	DefaultMaxSessions       = 256
	DefaultTripsTable        = "trips"
)

// ErrNoDataset is returned when neither a top-level dataset nor any system is configured
var ErrNoDataset = errors.New("config: no dataset or systems configured")

// LoadAppConfig loads and validates the application configuration from config.yml
func LoadAppConfig() error {
	paths := []string{"config.yml", "./config/config.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	return load(data)
}

// LoadAppConfigFrom loads and validates configuration from an explicit path
func LoadAppConfigFrom(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return load(data)
}

func load(data []byte) error {
	cfg, err := Parse(data)
	if err != nil {
		return err
	}
	Config = cfg
	return nil
}

// Parse decodes, defaults and validates a configuration document
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	ApplyDefaults(&cfg)
	ApplyEnv(&cfg, os.Getenv)
	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks struct tags on every section that is in use
func Validate(cfg AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg.Server); err != nil {
		return err
	}
	if err := v.Struct(cfg.View); err != nil {
		return err
	}
	if err := v.Struct(cfg.Map); err != nil {
		return err
	}
	if cfg.Map.MinZoom > cfg.Map.MaxZoom {
		return fmt.Errorf("config: map.minZoom %.1f exceeds map.maxZoom %.1f", cfg.Map.MinZoom, cfg.Map.MaxZoom)
	}
	if err := v.Struct(cfg.Sessions); err != nil {
		return err
	}
	// systems are optional; if present validate each, else the top-level dataset is required
	if len(cfg.Systems) == 0 {
		if cfg.Dataset.StationsPath == "" {
			return ErrNoDataset
		}
		return v.Struct(cfg.Dataset)
	}
	for _, s := range cfg.Systems {
		if err := v.Struct(s); err != nil {
			return err
		}
	}
	return nil
}

// ApplyDefaults fills zero values with the built-in defaults
func ApplyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.View.MaxRadius == 0 {
		cfg.View.MaxRadius = DefaultMaxRadius
	}
	if cfg.View.FilteredMinRadius == 0 {
		cfg.View.FilteredMinRadius = DefaultFilteredMinRadius
	}
	if cfg.View.DomainPolicy == "" {
		cfg.View.DomainPolicy = DefaultDomainPolicy
	}
	if cfg.Map.Center == [2]float64{} {
		cfg.Map.Center = [2]float64{DefaultCenterLon, DefaultCenterLat}
	}
	if cfg.Map.Zoom == 0 {
		cfg.Map.Zoom = DefaultZoom
	}
	if cfg.Map.MinZoom == 0 {
		cfg.Map.MinZoom = DefaultMinZoom
	}
	if cfg.Map.MaxZoom == 0 {
		cfg.Map.MaxZoom = DefaultMaxZoom
	}
	if cfg.Map.Width == 0 {
		cfg.Map.Width = DefaultWidth
	}
	if cfg.Map.Height == 0 {
		cfg.Map.Height = DefaultHeight
	}
	if cfg.Sessions.IdleTimeoutSec == 0 {
		cfg.Sessions.IdleTimeoutSec = DefaultIdleTimeoutSec
	}
	if cfg.Sessions.MaxSessions == 0 {
		cfg.Sessions.MaxSessions = DefaultMaxSessions
	}
	if cfg.Dataset.TripsTable == "" {
		cfg.Dataset.TripsTable = DefaultTripsTable
	}
	for i := range cfg.Systems {
		if cfg.Systems[i].Dataset.TripsTable == "" {
			cfg.Systems[i].Dataset.TripsTable = DefaultTripsTable
		}
	}
}

// ApplyEnv lets DATABASE_URL supply the connection string of every postgres
// dataset. It runs before validation so the variable can replace postgresURL.
func ApplyEnv(cfg *AppConfig, getenv func(string) string) {
	url := getenv("DATABASE_URL")
	if url == "" {
		return
	}
	if cfg.Dataset.TripsFormat == "postgres" {
		cfg.Dataset.PostgresURL = url
	}
	for i := range cfg.Systems {
		if cfg.Systems[i].Dataset.TripsFormat == "postgres" {
			cfg.Systems[i].Dataset.PostgresURL = url
		}
	}
}

// SelectSystem chooses a system by name; fallback to first; if none, use the top-level dataset.
func SelectSystem(name string) (string, DatasetConfig) {
	if name != "" {
		for _, s := range Config.Systems {
			if s.Name == name {
				return s.Name, s.Dataset
			}
		}
	}
	if len(Config.Systems) > 0 {
		return Config.Systems[0].Name, Config.Systems[0].Dataset
	}
	return "default", Config.Dataset
}
