package config

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	envAPIURL         = "FOLIO_API_URL"
	envListenAddr     = "FOLIO_LISTEN_ADDR"
	envCredentialPath = "FOLIO_CREDENTIAL_PATH"
)

type Config struct {
	Public Public
}

type Public struct {
	Api            Api      `yaml:"api"`
	ListenAddr     string   `yaml:"listen_addr"`
	CredentialPath string   `yaml:"credential_path"` // durable storage for the bearer credential
	AllowedOrigins []string `yaml:"allowed_origins"`
	Log            Log      `yaml:"log"`
	Demo           Demo     `yaml:"demo"`
}

type Api struct {
	BaseURL string `yaml:"base_url"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type Demo struct {
	BannerDelay time.Duration `yaml:"banner_delay"` // how long a demo session runs before the register banner shows
}

func Default() *Config {
	return &Config{Public: Public{
		Api:            Api{BaseURL: "http://localhost:8000"},
		ListenAddr:     ":8081",
		CredentialPath: "folio_token",
		AllowedOrigins: []string{"http://localhost:5173"},
		Log:            Log{Level: "info"},
		Demo:           Demo{BannerDelay: 45 * time.Second},
	}}
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Public.Api.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute url, got %q", c.Public.Api.BaseURL)
	}
	if c.Public.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if c.Public.CredentialPath == "" {
		return fmt.Errorf("credential_path is required")
	}
	if c.Public.Demo.BannerDelay < 0 {
		return fmt.Errorf("demo.banner_delay must not be negative")
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envAPIURL); v != "" {
		c.Public.Api.BaseURL = v
	}
	if v := os.Getenv(envListenAddr); v != "" {
		c.Public.ListenAddr = v
	}
	if v := os.Getenv(envCredentialPath); v != "" {
		c.Public.CredentialPath = v
	}
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

// MustLoad reads public.yaml from configFolder on top of Default, applies
// environment overrides and panics if the result is invalid.
func MustLoad(configFolder string) *Config {
	cfg := Default()
	mustLoadPath(path.Join(configFolder, "public.yaml"), &cfg.Public)
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}
