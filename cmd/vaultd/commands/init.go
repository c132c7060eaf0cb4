package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/coschain/cobra"
	"github.com/coschain/cosvault/common"
	"github.com/coschain/cosvault/config"
)

var (
	genesisAdmin string
	claimPolicy  string
	dbType       string
	listen       string
)

func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration files",
		Run:   initConf,
	}
	cmd.Flags().StringVar(&genesisAdmin, "admin", "", "bootstrap the token ledger for this admin address")
	cmd.Flags().StringVar(&claimPolicy, "claim-policy", "", "who may trigger claims: admin or open")
	cmd.Flags().StringVar(&dbType, "db", "", "storage backend: leveldb or memory")
	cmd.Flags().StringVar(&listen, "listen", "", "http listen address")
	return cmd
}

func initConf(cmd *cobra.Command, args []string) {
	_, _ = cmd, args
	cfg := config.DefaultNodeConfig()
	cfg.Name = nodeName()
	cfg.DataDir = dataDir()
	if genesisAdmin != "" {
		cfg.Genesis.Admin = genesisAdmin
	}
	if claimPolicy != "" {
		cfg.ClaimPolicy = claimPolicy
	}
	if dbType != "" {
		cfg.DBType = dbType
	}
	if listen != "" {
		cfg.HTTP.Listen = listen
	}
	if err := config.Validate(&cfg); err != nil {
		common.Fatalf("invalid config: %v", err)
	}

	confdir := filepath.Join(cfg.DataDir, cfg.Name)
	if _, err := os.Stat(confdir); os.IsNotExist(err) {
		if err = os.MkdirAll(confdir, 0700); err != nil {
			common.Fatalf("create %s: %v", confdir, err)
		}
	}
	if err := config.WriteNodeConfigFile(confdir, config.ConfigFile, cfg, 0600); err != nil {
		common.Fatalf("write config: %v", err)
	}
	fmt.Printf("config written to %s\n", filepath.Join(confdir, config.ConfigFile))
}
