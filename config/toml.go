package config

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/coschain/cosvault/auth"
	"github.com/coschain/cosvault/db/storage"
	"github.com/coschain/cosvault/node"
	"github.com/coschain/cosvault/vault"
	"github.com/go-sql-driver/mysql"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	ConfigName = "config"
	ConfigType = "toml"
	ConfigFile = ConfigName + "." + ConfigType
)

const configHeader = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

`

// WriteNodeConfigFile stores config as configDirPath/configName.
func WriteNodeConfigFile(configDirPath string, configName string, config node.Config, mode os.FileMode) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	var buffer bytes.Buffer
	buffer.WriteString(configHeader)
	buffer.Write(data)
	configPath := filepath.Join(configDirPath, configName)
	return ioutil.WriteFile(configPath, buffer.Bytes(), mode)
}

// LoadNodeConfig reads config.toml of the named instance in dataDir.
// Keys missing from the file keep their default values.
func LoadNodeConfig(dataDir string, name string) (node.Config, error) {
	cfg := DefaultNodeConfig()
	cfg.Name = name
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	v := viper.New()
	v.SetConfigName(ConfigName)
	v.SetConfigType(ConfigType)
	v.AddConfigPath(filepath.Join(cfg.DataDir, cfg.Name))
	if err := v.ReadInConfig(); err != nil {
		return cfg, errors.Wrap(err, "not initialized (do `init` first)")
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decode config")
	}
	cfg.Name = name
	if cfg.DataDir != "" {
		dir, err := filepath.Abs(cfg.DataDir)
		if err != nil {
			return cfg, errors.Wrap(err, "DataDir cannot be converted to absolute path")
		}
		cfg.DataDir = dir
	}
	return cfg, Validate(&cfg)
}

// Validate checks the values a node cannot start without.
func Validate(cfg *node.Config) error {
	if cfg.ProgramID != "" {
		if _, err := auth.ParseAddress(cfg.ProgramID); err != nil {
			return errors.Wrap(err, "ProgramID")
		}
	}
	if _, err := vault.ParseClaimPolicy(cfg.ClaimPolicy); err != nil {
		return err
	}
	switch cfg.DBType {
	case "", storage.KindLevelDB, storage.KindMemory:
	default:
		return errors.Errorf("unknown DBType %q", cfg.DBType)
	}
	if cfg.Genesis.Admin != "" {
		if _, err := auth.ParseAddress(cfg.Genesis.Admin); err != nil {
			return errors.Wrap(err, "genesis Admin")
		}
	}
	if cfg.SQL.Enabled {
		if cfg.SQL.Driver != DefaultSQLDriver {
			return errors.Errorf("unsupported sql driver %q", cfg.SQL.Driver)
		}
		if _, err := mysql.ParseDSN(cfg.SQL.DSN); err != nil {
			return errors.Wrap(err, "sql DSN")
		}
	}
	return nil
}
