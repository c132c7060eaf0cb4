package commands

import (
	"fmt"

	"github.com/coschain/cobra"
	"github.com/coschain/cosvault/auth"
	"github.com/coschain/cosvault/common"
)

func KeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keygen <keyfile>",
		Short:   "create a new signing key, sealed under a passphrase",
		Example: "keygen ~/.cosvault/admin.json",
		Args:    cobra.ExactArgs(1),
		Run:     keygen,
	}
	return cmd
}

func keygen(cmd *cobra.Command, args []string) {
	pass, err := getPassphrase(true)
	if err != nil {
		common.Fatalf("%v", err)
	}
	key, err := auth.GenerateKeyFile(args[0], pass)
	if err != nil {
		common.Fatalf("%v", err)
	}
	fmt.Printf("key written to %s\naddress: %s\n", args[0], key.PublicKey())
}
