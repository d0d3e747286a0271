package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"riskradar/models"
)

const envPrefix = "RISKRADAR"

// Load reads configs/config.yaml (or the file at path when non-empty), merges
// config.<environment>.yaml on top and applies RISKRADAR_* overrides.
func Load(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading base config: %w", err)
			}
		}

		env := v.GetString("app.environment")
		v.SetConfigName(fmt.Sprintf("config.%s", env))
		_ = v.MergeInConfig() // the overlay is optional
	}

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "riskradar")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.port", 8090)
	v.SetDefault("server.mode", "release")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", string(models.DefaultModel))
	v.SetDefault("gemini.search_grounding", true)
	v.SetDefault("gemini.timeout", 90*time.Second)
	v.SetDefault("gemini.base_url", "")

	v.SetDefault("database.path", "riskradar.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("session.cookie_name", "riskradar_session")
	v.SetDefault("session.max_age", 7*24*3600)
}

// loadEnvFile loads the first .env found in the working directory or its parents.
func loadEnvFile() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		if expanded := os.ExpandEnv(strVal); expanded != strVal {
			v.Set(key, expanded)
		}
	}
}

// overrideEmptyConfig picks up the conventional key variables when no
// RISKRADAR_GEMINI_API_KEY was given.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Gemini.APIKey == "" {
		for _, name := range []string{"GEMINI_API_KEY", "API_KEY"} {
			if val := os.Getenv(name); val != "" {
				cfg.Gemini.APIKey = val
				break
			}
		}
	}
}
