package config

import (
	"path/filepath"

	"github.com/coschain/cosvault/common/constants"
	"github.com/coschain/cosvault/db/storage"
	"github.com/coschain/cosvault/mylog"
	"github.com/coschain/cosvault/node"
	"github.com/coschain/cosvault/vault"
	"github.com/mitchellh/go-homedir"
)

const (
	DefaultHTTPEndPoint = "localhost:8080"
	DefaultLogAge       = 7
	DefaultSQLDriver    = "mysql"
)

// DefaultNodeConfig contains reasonable default settings.
func DefaultNodeConfig() node.Config {
	return node.Config{
		Name:        constants.ClientName,
		DataDir:     DefaultDataDir(),
		ProgramID:   constants.ProgramID,
		ClaimPolicy: string(vault.ClaimPolicyAdmin),
		DBType:      storage.KindLevelDB,
		LogLevel:    mylog.InfoLevel,
		LogAge:      DefaultLogAge,
		HTTP: node.HTTPConfig{
			Listen: DefaultHTTPEndPoint,
		},
		Genesis: node.GenesisConfig{
			Supply: constants.FirstTotalSupply,
		},
		SQL: node.SQLConfig{
			Driver: DefaultSQLDriver,
		},
	}
}

// DefaultDataDir is ~/.cosvault, or empty if the home directory is unknown.
func DefaultDataDir() string {
	home, err := homedir.Dir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, "."+constants.VaultName)
}
