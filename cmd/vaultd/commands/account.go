package commands

import (
	"github.com/coschain/cobra"
	"github.com/coschain/cosvault/auth"
	"github.com/coschain/cosvault/common"
)

func AccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "query or create token accounts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <address>",
		Short: "show a token account",
		Args:  cobra.ExactArgs(1),
		Run:   getAccount,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "create <wallet>",
		Short: "create the token account of wallet for the vault mint",
		Args:  cobra.ExactArgs(1),
		Run:   createAccount,
	})
	return cmd
}

func getAccount(cmd *cobra.Command, args []string) {
	address, err := auth.ParseAddress(args[0])
	if err != nil {
		common.Fatalf("%v", err)
	}
	acc, err := newClient().TokenAccount(address)
	if err != nil {
		common.Fatalf("%v", err)
	}
	printJSON(acc)
}

func createAccount(cmd *cobra.Command, args []string) {
	wallet, err := auth.ParseAddress(args[0])
	if err != nil {
		common.Fatalf("%v", err)
	}
	acc, err := newClient().CreateTokenAccount(wallet)
	if err != nil {
		common.Fatalf("%v", err)
	}
	printJSON(acc)
}
