package commands

import (
	"fmt"

	"github.com/coschain/cobra"
	"github.com/coschain/cosvault/auth"
	"github.com/coschain/cosvault/common"
	"github.com/gagliardetto/solana-go"
)

var (
	programID string
	mintAddr  string
)

// AddressCmd prints the derived addresses of a deployment offline.
func AddressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "address [wallet]",
		Short:   "print the derived vault addresses",
		Long:    "print the derived vault addresses, and the token account of wallet when a mint is given",
		Example: "address --mint <mint> <wallet>",
		Args:    cobra.MaximumNArgs(1),
		Run:     address,
	}
	cmd.Flags().StringVar(&programID, "program", "", "program id (default from node config)")
	cmd.Flags().StringVar(&mintAddr, "mint", "", "token mint")
	return cmd
}

func address(cmd *cobra.Command, args []string) {
	program := auth.DefaultProgramID
	id := programID
	if id == "" {
		if cfg, err := loadConfig(); err == nil {
			id = cfg.ProgramID
		}
	}
	if id != "" {
		var err error
		if program, err = auth.ParseAddress(id); err != nil {
			common.Fatalf("%v", err)
		}
	}
	global, bump, err := auth.DeriveGlobalState(program)
	if err != nil {
		common.Fatalf("%v", err)
	}
	vaultAddr, _, err := auth.DeriveVaultAddress(program)
	if err != nil {
		common.Fatalf("%v", err)
	}
	fmt.Printf("program:      %s\n", program)
	fmt.Printf("global state: %s (bump %d)\n", global, bump)
	fmt.Printf("vault:        %s\n", vaultAddr)

	if mintAddr == "" {
		return
	}
	mint, err := auth.ParseAddress(mintAddr)
	if err != nil {
		common.Fatalf("%v", err)
	}
	custody, err := auth.AssociatedTokenAddress(global, mint)
	if err != nil {
		common.Fatalf("%v", err)
	}
	fmt.Printf("custody:      %s\n", custody)
	if len(args) == 1 {
		var wallet solana.PublicKey
		if wallet, err = auth.ParseAddress(args[0]); err != nil {
			common.Fatalf("%v", err)
		}
		account, err := auth.AssociatedTokenAddress(wallet, mint)
		if err != nil {
			common.Fatalf("%v", err)
		}
		fmt.Printf("account:      %s\n", account)
	}
}
