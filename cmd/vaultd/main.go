package main

import (
	"fmt"
	"os"

	"github.com/coschain/cobra"
	"github.com/coschain/cosvault/cmd/vaultd/commands"
	"github.com/coschain/cosvault/common/constants"
)

// vaultd runs a vault node and talks to a running one.
var rootCmd = &cobra.Command{
	Use:   constants.ClientName,
	Short: "vaultd is a custodial token vault node",
}

func addCommands() {
	rootCmd.PersistentFlags().StringVarP(&commands.DataDir, "datadir", "d", "", "data directory (default is ~/.cosvault)")
	rootCmd.PersistentFlags().StringVarP(&commands.CfgName, "name", "n", "", "node name (default is vaultd)")
	rootCmd.PersistentFlags().StringVarP(&commands.Endpoint, "endpoint", "e", "", "http endpoint of a running node")

	rootCmd.AddCommand(commands.InitCmd())
	rootCmd.AddCommand(commands.StartCmd())
	rootCmd.AddCommand(commands.KeygenCmd())
	rootCmd.AddCommand(commands.AddressCmd())
	rootCmd.AddCommand(commands.StateCmd())
	rootCmd.AddCommand(commands.AccountCmd())
	rootCmd.AddCommand(commands.SendCmd())
}

func main() {
	addCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
