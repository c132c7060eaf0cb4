package node

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Config is the node configuration, stored as config.toml in the instance directory.
type Config struct {
	// Name refers the name of node's instance
	Name string `toml:"-" mapstructure:"-"`

	// Version should be set to the version number of the program.
	Version string `toml:"-" mapstructure:"-"`

	// DataDir is the root folder that store data and configs
	DataDir string `toml:"DataDir"`

	// ProgramID is the base58 id every vault address is derived from
	ProgramID string `toml:"ProgramID"`

	// ClaimPolicy decides who may trigger claims: "admin" or "open"
	ClaimPolicy string `toml:"ClaimPolicy"`

	// DBType selects the storage backend: "leveldb" or "memory"
	DBType string `toml:"DBType"`

	LogLevel string `toml:"LogLevel"`
	LogAge   uint32 `toml:"LogAge"`

	HTTP    HTTPConfig    `toml:"http"`
	Genesis GenesisConfig `toml:"genesis"`
	SQL     SQLConfig     `toml:"sql"`
}

type HTTPConfig struct {
	Listen string `toml:"Listen"`
}

// GenesisConfig describes the token ledger bootstrap done on first start.
type GenesisConfig struct {
	// base58 public key that owns the mint and receives the initial supply
	Admin string `toml:"Admin"`
	// initial supply in base units, 0 means constants.FirstTotalSupply
	Supply uint64 `toml:"Supply"`
}

// SQLConfig configures the operation log plugin.
type SQLConfig struct {
	Enabled bool   `toml:"Enabled"`
	Driver  string `toml:"Driver"`
	DSN     string `toml:"DSN"`
}

// HTTPEndpoint resolves the HTTP endpoint of the API server.
func (c *Config) HTTPEndpoint() string {
	return c.HTTP.Listen
}

func (c *Config) name() string {
	if c.Name == "" {
		panic("empty node name, set Config.Name")
	}
	return c.Name
}

// NodeName returns the node's complete name
func (c *Config) NodeName() string {
	name := c.name()
	if c.Version != "" {
		name += "/v" + c.Version
	}
	name += "/" + runtime.GOOS + "-" + runtime.GOARCH
	name += "/" + runtime.Version()
	return name
}

// ResolvePath resolves path in the instance directory.
func (c *Config) ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if c.DataDir == "" {
		return ""
	}
	return filepath.Join(c.instanceDir(), path)
}

func (c *Config) instanceDir() string {
	if c.DataDir == "" {
		return ""
	}
	return filepath.Join(c.DataDir, c.Name)
}

func (c *Config) String() string {
	return fmt.Sprintf("%s(data=%s, program=%s, db=%s)", c.Name, c.DataDir, c.ProgramID, c.DBType)
}
