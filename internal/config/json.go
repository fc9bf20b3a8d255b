package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// StructuredJSONConfig mirrors [StructuredConfig] with json tags for the
// optional configuration file. Kept as a separate type so the file format
// can evolve independently of the env/flag mapping.
type StructuredJSONConfig struct {
	Vault struct {
		Dir     string `env:"DIR" json:"dir"`
		Backend string `env:"BACKEND" json:"backend"`
	} `envPrefix:"VAULT_" json:"vault,omitempty"`

	Crypto struct {
		ArgonTime    uint32 `env:"ARGON_TIME" json:"argon_time"`
		ArgonMemory  uint32 `env:"ARGON_MEMORY" json:"argon_memory"`
		ArgonThreads uint8  `env:"ARGON_THREADS" json:"argon_threads"`
	} `envPrefix:"CRYPTO_" json:"crypto,omitempty"`

	Thumbnails struct {
		MaxEdge int `env:"MAX_EDGE" json:"max_edge"`
		Quality int `env:"QUALITY" json:"quality"`
	} `envPrefix:"THUMBNAILS_" json:"thumbnails,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error opening json config file: %w", err)
	}
	defer jsonFile.Close()

	jsonCfg := &StructuredJSONConfig{}
	if err := json.NewDecoder(jsonFile).Decode(jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json config file: %w", err)
	}

	cfg := &StructuredConfig{}
	cfg.Vault.Dir = jsonCfg.Vault.Dir
	cfg.Vault.Backend = jsonCfg.Vault.Backend
	cfg.Crypto.ArgonTime = jsonCfg.Crypto.ArgonTime
	cfg.Crypto.ArgonMemory = jsonCfg.Crypto.ArgonMemory
	cfg.Crypto.ArgonThreads = jsonCfg.Crypto.ArgonThreads
	cfg.Thumbnails.MaxEdge = jsonCfg.Thumbnails.MaxEdge
	cfg.Thumbnails.Quality = jsonCfg.Thumbnails.Quality

	return cfg, nil
}
