// Package config loads server configuration from an optional TOML file
// with environment-variable overrides.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
)

// Config is the full server configuration.
type Config struct {
	Server  Server  `toml:"server"`
	Auth    Auth    `toml:"auth"`
	Mongo   Mongo   `toml:"mongo"`
	Redis   Redis   `toml:"redis"`
	Mistral Mistral `toml:"mistral"`
	Diagram Diagram `toml:"diagram"`
}

type Server struct {
	Addr string `toml:"addr"`
}

type Auth struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenTTLMin int    `toml:"token_ttl_minutes"`
}

type Mongo struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type Mistral struct {
	APIKey string `toml:"api_key"`
	URL    string `toml:"url"`
	Model  string `toml:"model"`
}

type Diagram struct {
	EditorBase     string `toml:"editor_base"`
	RenderProxyURL string `toml:"render_proxy_url"`
	RenderToken    string `toml:"render_token"`
	ArtifactTTLHrs int    `toml:"artifact_ttl_hours"`
}

// Default returns the configuration used when no file or overrides exist.
func Default() Config {
	return Config{
		Server:  Server{Addr: ":8000"},
		Auth:    Auth{TokenTTLMin: 60},
		Mongo:   Mongo{Database: "terraformcoder"},
		Mistral: Mistral{Model: "codestral-latest"},
		Diagram: Diagram{EditorBase: "https://mermaid.live", ArtifactTTLHrs: 24},
	}
}

// Load reads path (when non-empty), then applies TERRAFORMCODER_* env
// overrides on top. A missing file at an explicit path is an error; an
// empty path means env-and-defaults only.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading config file")
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing config file")
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Addr, "TERRAFORMCODER_ADDR")
	setString(&cfg.Auth.JWTSecret, "TERRAFORMCODER_JWT_SECRET")
	setInt(&cfg.Auth.TokenTTLMin, "TERRAFORMCODER_TOKEN_TTL_MINUTES")
	setString(&cfg.Mongo.URI, "TERRAFORMCODER_MONGO_URI")
	setString(&cfg.Mongo.Database, "TERRAFORMCODER_MONGO_DATABASE")
	setString(&cfg.Redis.Addr, "TERRAFORMCODER_REDIS_ADDR")
	setString(&cfg.Redis.Password, "TERRAFORMCODER_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "TERRAFORMCODER_REDIS_DB")
	setString(&cfg.Mistral.APIKey, "TERRAFORMCODER_MISTRAL_API_KEY")
	setString(&cfg.Mistral.URL, "TERRAFORMCODER_MISTRAL_URL")
	setString(&cfg.Mistral.Model, "TERRAFORMCODER_MISTRAL_MODEL")
	setString(&cfg.Diagram.EditorBase, "TERRAFORMCODER_EDITOR_BASE")
	setString(&cfg.Diagram.RenderProxyURL, "TERRAFORMCODER_RENDER_PROXY_URL")
	setString(&cfg.Diagram.RenderToken, "TERRAFORMCODER_RENDER_TOKEN")
	setInt(&cfg.Diagram.ArtifactTTLHrs, "TERRAFORMCODER_ARTIFACT_TTL_HOURS")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// TokenTTL returns the auth token lifetime as a duration.
func (a Auth) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMin) * time.Minute
}

// ArtifactTTL returns the render artifact cache lifetime as a duration.
func (d Diagram) ArtifactTTL() time.Duration {
	return time.Duration(d.ArtifactTTLHrs) * time.Hour
}
