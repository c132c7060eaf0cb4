package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/coschain/cobra"
	"github.com/coschain/cosvault/common"
	"github.com/coschain/cosvault/db/storage"
	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/ledger"
	"github.com/coschain/cosvault/mylog"
	"github.com/coschain/cosvault/node"
	"github.com/coschain/cosvault/plugins"
	"github.com/coschain/cosvault/rpc"
	"github.com/coschain/cosvault/vault"
)

func StartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start vault node",
		Run:   startNode,
	}
	return cmd
}

func makeNode() (*node.Node, node.Config) {
	cfg, err := loadConfig()
	if err != nil {
		common.Fatalf("%v", err)
	}
	logger, err := mylog.Init(cfg.ResolvePath("logs"), cfg.LogLevel, cfg.LogAge)
	if err != nil {
		common.Fatalf("init logger: %v", err)
	}
	app, err := node.New(&cfg, logger)
	if err != nil {
		common.Fatalf("%v", err)
	}
	return app, cfg
}

func startNode(cmd *cobra.Command, args []string) {
	_, _ = cmd, args
	app, cfg := makeNode()

	_ = app.Register(iservices.DbServerName, func(ctx *node.ServiceContext) (node.Service, error) {
		return storage.New(ctx, "./db/", cfg.DBType)
	})
	_ = app.Register(iservices.LedgerServerName, func(ctx *node.ServiceContext) (node.Service, error) {
		return ledger.NewLedgerService(ctx, app.Log)
	})
	_ = app.Register(iservices.VaultServerName, func(ctx *node.ServiceContext) (node.Service, error) {
		return vault.NewVaultService(ctx, app.Log)
	})
	_ = app.Register(iservices.RpcServerName, func(ctx *node.ServiceContext) (node.Service, error) {
		return rpc.NewHTTPServer(ctx, app.Log)
	})
	plugins.RegisterSQLServices(app, &cfg)

	if err := app.Start(); err != nil {
		common.Fatalf("start node failed, err: %v", err)
	}

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		<-sigc
		app.Log.Info("Got interrupt, shutting down...")
		go app.Stop()
	}()

	app.Wait()
}
