package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// envOverrides maps the environment variables which take precedence over the
// config file. They carry secrets and addresses that differ per deployment.
var envOverrides = map[string]func(*Configs, string){
	"DB_HOST":      func(c *Configs, v string) { c.Database.Host = v },
	"DB_PORT":      func(c *Configs, v string) { c.Database.Port = v },
	"DB_USER":      func(c *Configs, v string) { c.Database.User = v },
	"DB_PASSWORD":  func(c *Configs, v string) { c.Database.Password = v },
	"DB_NAME":      func(c *Configs, v string) { c.Database.Database = v },
	"TOKEN_SECRET": func(c *Configs, v string) { c.Auth.TokenSecret = v },
	"INTERNAL_KEY": func(c *Configs, v string) { c.ApiServer.InternalKey = v },
	"REDIS_ADDR":   func(c *Configs, v string) { c.Redis.Addr = v },
	"KAFKA_ADDR":   func(c *Configs, v string) { c.Kafka.Addr = v },
	"API_PORT":     func(c *Configs, v string) { c.ApiServer.Port = v },
	"LOG_LEVEL":    func(c *Configs, v string) { c.Log.Level = v },
}

// Load decodes the TOML file at path over the default configs, then applies
// the environment overrides. An empty path only applies the overrides.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	for key, apply := range envOverrides {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			apply(&cfg, value)
		}
	}

	return cfg, nil
}
