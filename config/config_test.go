package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestFromViper(t *testing.T) {
	v := viper.New()
	v.Set("app_name", "refuge-test")
	v.Set("server.port", 9090)
	v.Set("logger.level", "debug")
	v.Set("data.mongodb.uri", "mongodb://db:27017")
	v.Set("data.mongodb.database", "shelter")
	v.Set("data.meilisearch.host", "http://search:7700")
	v.Set("data.meilisearch.api_key", "masterKey")

	cfg := FromViper(v)

	if cfg.AppName != "refuge-test" {
		t.Errorf("AppName = %q", cfg.AppName)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q", cfg.Logger.Level)
	}
	if cfg.Data.MongoDB.URI != "mongodb://db:27017" || cfg.Data.MongoDB.Database != "shelter" {
		t.Errorf("MongoDB config = %+v", cfg.Data.MongoDB)
	}
	if cfg.Data.Meilisearch.Host != "http://search:7700" || cfg.Data.Meilisearch.APIKey != "masterKey" {
		t.Errorf("Meilisearch config = %+v", cfg.Data.Meilisearch)
	}
}

func TestFromViperDefaults(t *testing.T) {
	cfg := FromViper(viper.New())

	if cfg.AppName != "refuge" {
		t.Errorf("AppName = %q, want default", cfg.AppName)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8080 {
		t.Errorf("Server defaults = %+v", cfg.Server)
	}
	if cfg.Logger.Level != "info" || cfg.Logger.Format != "json" {
		t.Errorf("Logger defaults = %+v", cfg.Logger)
	}
	if cfg.Data.MongoDB.Database != "refuge" {
		t.Errorf("MongoDB database default = %q", cfg.Data.MongoDB.Database)
	}
}
