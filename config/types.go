package config

// ServerConfig contains server configuration
type ServerConfig struct {
	Port           int      `yaml:"port" validate:"gte=0,lte=65535"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// LoggingConfig contains logger configuration
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// DatasetConfig locates the station feed and trip log of one system
type DatasetConfig struct {
	StationsPath string `yaml:"stationsPath" validate:"required"`
	TripsPath    string `yaml:"tripsPath" validate:"required_unless=TripsFormat postgres"`
	TripsFormat  string `yaml:"tripsFormat" validate:"omitempty,oneof=csv parquet sqlite postgres"` // inferred from extension when empty
	TripsTable   string `yaml:"tripsTable"`
	PostgresURL  string `yaml:"postgresURL" validate:"required_if=TripsFormat postgres"`
	CachePath    string `yaml:"cachePath"`
}

// ViewConfig contains radius scale settings
type ViewConfig struct {
	MaxRadius         float64 `yaml:"maxRadius" validate:"gte=0"`
	FilteredMinRadius float64 `yaml:"filteredMinRadius" validate:"gte=0,ltefield=MaxRadius"`
	DomainPolicy      string  `yaml:"domainPolicy" validate:"omitempty,oneof=filtered unfiltered"`
}

// MapConfig contains the default viewport used by the host projector
type MapConfig struct {
	Center  [2]float64 `yaml:"center"` // [lon, lat]
	Zoom    float64    `yaml:"zoom" validate:"gte=0"`
	MinZoom float64    `yaml:"minZoom" validate:"gte=0"`
	MaxZoom float64    `yaml:"maxZoom" validate:"gte=0"`
	Width   int        `yaml:"width" validate:"gte=0"`
	Height  int        `yaml:"height" validate:"gte=0"`
}

// SessionConfig contains session registry settings
type SessionConfig struct {
	IdleTimeoutSec int `yaml:"idleTimeoutSec" validate:"gte=0"`
	MaxSessions    int `yaml:"maxSessions" validate:"gte=0"`
}

// System represents a single named bike-share system
type System struct {
	Name    string        `yaml:"name" validate:"required"`
	Dataset DatasetConfig `yaml:"dataset" validate:"required"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server   ServerConfig  `yaml:"server" validate:"required"`
	Logging  LoggingConfig `yaml:"logging"`
	Dataset  DatasetConfig `yaml:"dataset"`
	View     ViewConfig    `yaml:"view"`
	Map      MapConfig     `yaml:"map"`
	Sessions SessionConfig `yaml:"sessions"`
	Systems  []System      `yaml:"systems"`
}
