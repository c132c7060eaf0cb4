package commands

import (
	"fmt"

	"github.com/coschain/cobra"
	"github.com/coschain/cosvault/common"
)

func StateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "show the vault state of a running node",
		Run:   state,
	}
	return cmd
}

func state(cmd *cobra.Command, args []string) {
	resp, err := newClient().State()
	if err != nil {
		common.Fatalf("%v", err)
	}
	printJSON(resp)
	fmt.Printf("pool:    %s\n", formatTokens(resp.State.TotalTokens))
	fmt.Printf("custody: %s\n", formatTokens(resp.Audit.CustodyBalance))
	if !resp.Audit.Consistent {
		fmt.Println("WARNING: custody balance is below the tracked pool balance")
	}
}
