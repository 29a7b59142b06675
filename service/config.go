package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/docvault/chunker"
	"github.com/viant/docvault/extractor"
	"github.com/viant/docvault/retrieval"
	"github.com/viant/docvault/workbook"
	"github.com/viant/scy/cred/secret"
	"gopkg.in/yaml.v3"
)

// Config defines extraction, retrieval, storage and ingest settings.
type Config struct {
	Chunk     ChunkConfig          `yaml:"chunk"`
	Retrieval retrieval.Options    `yaml:"retrieval"`
	Workbook  workbook.Options     `yaml:"workbook"`
	PDF       extractor.PDFOptions `yaml:"pdf"`
	Store     StoreConfig          `yaml:"store"`
	Ingest    IngestConfig         `yaml:"ingest"`
	Workers   int                  `yaml:"workers"`
	MemoSize  int                  `yaml:"memoSize"`
}

// ChunkConfig defines chunking settings.
type ChunkConfig struct {
	Size int `yaml:"size"`
}

// StoreConfig defines document store settings.
type StoreConfig struct {
	DSN    string `yaml:"dsn"`
	Driver string `yaml:"driver"`
	Secret string `yaml:"secret,omitempty"`
}

// IngestConfig defines which documents an ingest run picks up.
type IngestConfig struct {
	Include      []string `yaml:"include"`
	Exclude      []string `yaml:"exclude"`
	MaxSizeBytes int64    `yaml:"maxSizeBytes"`
}

// DefaultConfig returns a config with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Init()
	return cfg
}

// Init fills unset fields with defaults.
func (c *Config) Init() {
	if c.Chunk.Size <= 0 {
		c.Chunk.Size = chunker.DefaultSize
	}
	c.Retrieval.Init()
	c.Workbook.Init()
	c.PDF.Init()
	if c.Store.Driver == "" {
		c.Store.Driver = "sqlite"
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.MemoSize <= 0 {
		c.MemoSize = 256
	}
}

// LoadConfig reads a YAML config, applies defaults and expands the store DSN.
func LoadConfig(path string) (*Config, error) {
	path, err := expandUserPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Init()
	if cfg.Store.DSN != "" {
		expanded, err := expandStoreDSN(cfg.Store.DSN, cfg.Store.Driver)
		if err != nil {
			return nil, err
		}
		cfg.Store.DSN = expanded
	}
	if cfg.Store.Secret != "" {
		expanded, err := ExpandDSNWithSecret(context.Background(), cfg.Store.DSN, cfg.Store.Secret)
		if err != nil {
			return nil, err
		}
		cfg.Store.DSN = expanded
	}
	return &cfg, nil
}

func expandUserPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || !strings.Contains(trimmed, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if trimmed == "~" {
		return home, nil
	}
	if strings.HasPrefix(trimmed, "~/") {
		return filepath.Join(home, trimmed[2:]), nil
	}
	if rest, ok := strings.CutPrefix(trimmed, "file:"); ok {
		rest = strings.TrimPrefix(rest, "//localhost")
		rest = strings.TrimLeft(rest, "/")
		if strings.HasPrefix(rest, "~") {
			return "file:" + filepath.ToSlash(filepath.Join(home, strings.TrimPrefix(rest, "~"))), nil
		}
		return path, nil
	}
	if trimmed[0] == '~' {
		return "", fmt.Errorf("config: unsupported ~user path: %s", path)
	}
	return path, nil
}

func expandStoreDSN(dsn, driver string) (string, error) {
	if dsn == "" {
		return dsn, nil
	}
	if driver == "sqlite" || dsn[0] == '~' || dsn[0] == '/' || strings.HasPrefix(dsn, "file:") {
		return expandUserPath(dsn)
	}
	return dsn, nil
}

// ExpandDSNWithSecret loads a secret and expands placeholders in the DSN.
func ExpandDSNWithSecret(ctx context.Context, dsn, secretRef string) (string, error) {
	secretRef = strings.TrimSpace(secretRef)
	if secretRef == "" {
		return dsn, nil
	}
	if strings.TrimSpace(dsn) == "" {
		return "", fmt.Errorf("secret %q provided but dsn is empty", secretRef)
	}
	svc := secret.New()
	sec, err := svc.Lookup(ctx, secret.Resource(secretRef))
	if err != nil {
		return "", err
	}
	return sec.Expand(dsn), nil
}
