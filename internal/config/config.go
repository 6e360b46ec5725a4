// Package config handles configuration for both servers: defaults, an
// optional JSON file, a .env file plus ORNATE_* environment variables and
// finally command-line flags, each layer overriding the previous one.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/erazemk/ornate/internal/collection"
)

// Config holds runtime settings.
type Config struct {
	API API    `json:"api"`
	Web Web    `json:"web"`
	Log string `json:"log"`
}

// API configures the collection service.
type API struct {
	Addr      string `json:"addr"`
	DBPath    string `json:"db_path"`
	PublicURL string `json:"public_url"`
	ImageDir  string `json:"image_dir"`
	S3        S3     `json:"s3"`
}

// S3 configures bucket storage for uploaded photos. An empty bucket keeps
// photos in API.ImageDir.
type S3 struct {
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	PublicURL string `json:"public_url"`
}

// Web configures the front-end.
type Web struct {
	Addr            string   `json:"addr"`
	CollaboratorURL string   `json:"collaborator_url"`
	LocalDBPath     string   `json:"local_db_path"`
	FilterMode      string   `json:"filter_mode"`
	RequestTimeout  Duration `json:"request_timeout"`
}

// Defaults returns development defaults.
func Defaults() Config {
	return Config{
		API: API{
			Addr:      ":8000",
			DBPath:    "ornate.sqlite3",
			PublicURL: "http://localhost:8000",
			ImageDir:  "images",
			S3:        S3{Region: "us-east-1"},
		},
		Web: Web{
			Addr:            ":8080",
			CollaboratorURL: "http://localhost:8000",
			LocalDBPath:     "ornate-local.sqlite3",
			FilterMode:      "local",
			RequestTimeout:  Duration(10 * time.Second),
		},
	}
}

// Sources names the optional inputs to Load.
type Sources struct {
	// File is a JSON config file, skipped when empty.
	File string
	// EnvFile is a .env file, skipped when empty or missing. Variables
	// already present in the environment take precedence over it.
	EnvFile string
	// Flags are applied last; only flags the user set are considered.
	Flags *pflag.FlagSet
	// Getenv defaults to os.LookupEnv.
	Getenv func(string) (string, bool)
}

// Load builds a Config from defaults and the given sources.
func Load(src Sources) (Config, error) {
	cfg := Defaults()

	if src.File != "" {
		data, err := os.ReadFile(src.File)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", src.File, err)
		}
	}

	dotenv := map[string]string{}
	if src.EnvFile != "" {
		m, err := godotenv.Read(src.EnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("reading env file %s: %w", src.EnvFile, err)
		}
		if m != nil {
			dotenv = m
		}
	}
	getenv := src.Getenv
	if getenv == nil {
		getenv = os.LookupEnv
	}
	lookup := func(key string) (string, bool) {
		if v, ok := getenv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	for _, b := range cfg.bindings() {
		if v, ok := lookup(b.env); ok {
			if err := b.set(v); err != nil {
				return cfg, fmt.Errorf("%s: %w", b.env, err)
			}
		}
	}

	if src.Flags != nil {
		for _, b := range cfg.bindings() {
			f := src.Flags.Lookup(b.flag)
			if f == nil || !f.Changed {
				continue
			}
			if err := b.set(f.Value.String()); err != nil {
				return cfg, fmt.Errorf("--%s: %w", b.flag, err)
			}
		}
	}

	return cfg, cfg.Validate()
}

// Validate checks values that cannot be checked by type alone.
func (c *Config) Validate() error {
	if _, err := collection.ParseFilterMode(c.Web.FilterMode); err != nil {
		return err
	}
	if c.Web.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.Web.CollaboratorURL != "" &&
		!strings.HasPrefix(c.Web.CollaboratorURL, "http://") &&
		!strings.HasPrefix(c.Web.CollaboratorURL, "https://") {
		return fmt.Errorf("collaborator url %q must be http or https", c.Web.CollaboratorURL)
	}
	return nil
}

type binding struct {
	env  string
	flag string
	set  func(string) error
}

func str(p *string) func(string) error {
	return func(v string) error { *p = strings.TrimSpace(v); return nil }
}

func (c *Config) bindings() []binding {
	return []binding{
		{"ORNATE_LOG", "log", str(&c.Log)},

		{"ORNATE_API_ADDR", "api-addr", str(&c.API.Addr)},
		{"ORNATE_DB", "db", str(&c.API.DBPath)},
		{"ORNATE_PUBLIC_URL", "public-url", str(&c.API.PublicURL)},
		{"ORNATE_IMAGE_DIR", "image-dir", str(&c.API.ImageDir)},
		{"ORNATE_S3_BUCKET", "s3-bucket", str(&c.API.S3.Bucket)},
		{"ORNATE_S3_REGION", "s3-region", str(&c.API.S3.Region)},
		{"ORNATE_S3_ENDPOINT", "s3-endpoint", str(&c.API.S3.Endpoint)},
		{"ORNATE_S3_ACCESS_KEY", "s3-access-key", str(&c.API.S3.AccessKey)},
		{"ORNATE_S3_SECRET_KEY", "s3-secret-key", str(&c.API.S3.SecretKey)},
		{"ORNATE_S3_PUBLIC_URL", "s3-public-url", str(&c.API.S3.PublicURL)},

		{"ORNATE_WEB_ADDR", "web-addr", str(&c.Web.Addr)},
		{"ORNATE_API_URL", "api-url", str(&c.Web.CollaboratorURL)},
		{"ORNATE_LOCAL_DB", "local-db", str(&c.Web.LocalDBPath)},
		{"ORNATE_FILTER_MODE", "filter-mode", str(&c.Web.FilterMode)},
		{"ORNATE_REQUEST_TIMEOUT", "timeout", c.Web.RequestTimeout.set},
	}
}
