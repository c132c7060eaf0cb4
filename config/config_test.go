package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/coschain/cosvault/common/constants"
	"github.com/coschain/cosvault/db/storage"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndLoad(t *testing.T) {
	a := assert.New(t)
	dir, err := ioutil.TempDir("", "config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	admin := solana.NewWallet().PublicKey().String()
	cfg := DefaultNodeConfig()
	cfg.DataDir = dir
	cfg.DBType = storage.KindMemory
	cfg.ClaimPolicy = "open"
	cfg.HTTP.Listen = "127.0.0.1:9999"
	cfg.Genesis.Admin = admin
	cfg.LogAge = 3

	confdir := filepath.Join(dir, cfg.Name)
	require.NoError(t, os.MkdirAll(confdir, 0700))
	require.NoError(t, WriteNodeConfigFile(confdir, ConfigFile, cfg, 0600))

	loaded, err := LoadNodeConfig(dir, cfg.Name)
	a.NoError(err)
	a.Equal(constants.ClientName, loaded.Name)
	a.Equal(storage.KindMemory, loaded.DBType)
	a.Equal("open", loaded.ClaimPolicy)
	a.Equal("127.0.0.1:9999", loaded.HTTPEndpoint())
	a.Equal(admin, loaded.Genesis.Admin)
	a.Equal(constants.FirstTotalSupply, loaded.Genesis.Supply)
	a.Equal(uint32(3), loaded.LogAge)
	a.Equal(constants.ProgramID, loaded.ProgramID)
	a.False(loaded.SQL.Enabled)
}

func TestLoadMissing(t *testing.T) {
	dir, err := ioutil.TempDir("", "config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	_, err = LoadNodeConfig(dir, "nobody")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	a := assert.New(t)

	cfg := DefaultNodeConfig()
	a.NoError(Validate(&cfg))

	bad := cfg
	bad.ClaimPolicy = "anyone"
	a.Error(Validate(&bad))

	bad = cfg
	bad.DBType = "rocksdb"
	a.Error(Validate(&bad))

	bad = cfg
	bad.ProgramID = "not-an-address"
	a.Error(Validate(&bad))

	bad = cfg
	bad.Genesis.Admin = "nobody"
	a.Error(Validate(&bad))

	bad = cfg
	bad.SQL.Enabled = true
	bad.SQL.DSN = "no dsn at all"
	a.Error(Validate(&bad))

	good := cfg
	good.SQL.Enabled = true
	good.SQL.DSN = "vault:secret@tcp(127.0.0.1:3306)/cosvault?parseTime=true"
	a.NoError(Validate(&good))
}

func TestDefaultDataDir(t *testing.T) {
	dir := DefaultDataDir()
	if dir != "" {
		assert.Equal(t, "."+constants.VaultName, filepath.Base(dir))
	}
}
