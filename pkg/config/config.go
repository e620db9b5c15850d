package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config carries every setting the record manager needs. It is built once at
// start-up and passed explicitly to the components that need it.
type Config struct {
	Env     string
	AppName string
	Version string
	Debug   bool

	Folders FolderConfig
	Limits  LimitsConfig
	Log     LogConfig
}

// FolderConfig names the flat-file directories.
type FolderConfig struct {
	Data   string
	Backup string
	Import string
	Export string
}

// LimitsConfig holds enrollment limits enforced by the orchestrator.
type LimitsConfig struct {
	MaxStudentsPerCourse int
	MaxCoursesPerStudent int
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

// Default returns the built-in defaults without consulting the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.AppName = v.GetString("APP_NAME")
	cfg.Version = v.GetString("APP_VERSION")
	cfg.Debug = v.GetBool("DEBUG")

	cfg.Folders = FolderConfig{
		Data:   v.GetString("DATA_FOLDER"),
		Backup: v.GetString("BACKUP_FOLDER"),
		Import: v.GetString("IMPORT_FOLDER"),
		Export: v.GetString("EXPORT_FOLDER"),
	}

	cfg.Limits = LimitsConfig{
		MaxStudentsPerCourse: positiveOr(v.GetInt("MAX_STUDENTS_PER_COURSE"), 50),
		MaxCoursesPerStudent: positiveOr(v.GetInt("MAX_COURSES_PER_STUDENT"), 8),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}
	if cfg.Debug {
		cfg.Log.Level = "debug"
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("APP_NAME", "Campus Course & Records Manager")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("DEBUG", false)

	v.SetDefault("DATA_FOLDER", "data")
	v.SetDefault("BACKUP_FOLDER", "backups")
	v.SetDefault("IMPORT_FOLDER", "imports")
	v.SetDefault("EXPORT_FOLDER", "exports")

	v.SetDefault("MAX_STUDENTS_PER_COURSE", 50)
	v.SetDefault("MAX_COURSES_PER_STUDENT", 8)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

// ImportPath joins filename onto the import folder.
func (c *Config) ImportPath(filename string) string {
	return filepath.Join(c.Folders.Import, filename)
}

// ExportPath joins filename onto the export folder.
func (c *Config) ExportPath(filename string) string {
	return filepath.Join(c.Folders.Export, filename)
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
