// Package config reads application configuration from a yaml file and the
// REFUGE_ environment, with sane defaults for local development.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	AppName string
	Server  *Server
	Logger  *Logger
	Data    *Data
}

// Server http server config struct
type Server struct {
	Host string
	Port int
}

// Logger logger config struct
type Logger struct {
	Level      string
	Format     string
	OutputFile string
}

// Data data config struct
type Data struct {
	MongoDB     *MongoDB
	Meilisearch *Meilisearch
}

// MongoDB mongodb config struct
type MongoDB struct {
	URI      string
	Database string
}

// Meilisearch meilisearch config struct
type Meilisearch struct {
	Host   string
	APIKey string
}

// Load reads configuration from the given file. When configPath is empty the
// usual locations are searched; a missing file is fine, env vars and defaults
// still apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("REFUGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/refuge")
		v.AddConfigPath("$HOME/.refuge")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	return FromViper(v), nil
}

// FromViper builds the configuration from an already-populated viper.
func FromViper(v *viper.Viper) *Config {
	setDefaults(v)
	return &Config{
		AppName: v.GetString("app_name"),
		Server:  getServerConfig(v),
		Logger:  getLoggerConfig(v),
		Data:    getDataConfig(v),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "refuge")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("data.mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("data.mongodb.database", "refuge")
	v.SetDefault("data.meilisearch.host", "http://localhost:7700")
}

func getServerConfig(v *viper.Viper) *Server {
	return &Server{
		Host: v.GetString("server.host"),
		Port: v.GetInt("server.port"),
	}
}

func getLoggerConfig(v *viper.Viper) *Logger {
	return &Logger{
		Level:      v.GetString("logger.level"),
		Format:     v.GetString("logger.format"),
		OutputFile: v.GetString("logger.output_file"),
	}
}

func getDataConfig(v *viper.Viper) *Data {
	return &Data{
		MongoDB:     getMongoDBConfigs(v),
		Meilisearch: getMeilisearchConfigs(v),
	}
}

func getMongoDBConfigs(v *viper.Viper) *MongoDB {
	return &MongoDB{
		URI:      v.GetString("data.mongodb.uri"),
		Database: v.GetString("data.mongodb.database"),
	}
}

func getMeilisearchConfigs(v *viper.Viper) *Meilisearch {
	return &Meilisearch{
		Host:   v.GetString("data.meilisearch.host"),
		APIKey: v.GetString("data.meilisearch.api_key"),
	}
}
