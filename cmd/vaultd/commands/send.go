package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/coschain/cobra"
	"github.com/coschain/cosvault/auth"
	"github.com/coschain/cosvault/common"
	"github.com/coschain/cosvault/common/constants"
	"github.com/coschain/cosvault/prototype"
	"github.com/coschain/cosvault/rpc"
	"github.com/gagliardetto/solana-go"
)

var (
	keyFile     string
	expireAfter time.Duration
	rawAmount   bool
	tokenAcct   string
)

func SendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "sign an operation and submit it to a running node",
	}
	cmd.PersistentFlags().StringVarP(&keyFile, "key", "k", "", "key file of the signer")
	cmd.PersistentFlags().DurationVar(&expireAfter, "expire", time.Minute, "operation lifetime, at most 30m")
	cmd.PersistentFlags().BoolVar(&rawAmount, "raw", false, "amounts are base units instead of decimal tokens")

	initCmd := &cobra.Command{
		Use:   "initialize <mint>",
		Short: "create the vault record for mint, the signer becomes admin",
		Args:  cobra.ExactArgs(1),
		Run:   sendInitialize,
	}
	depositCmd := &cobra.Command{
		Use:     "deposit <amount>",
		Short:   "move tokens from the admin token account into custody",
		Example: "send deposit -k admin.json 1000",
		Args:    cobra.ExactArgs(1),
		Run:     sendDeposit,
	}
	depositCmd.Flags().StringVar(&tokenAcct, "account", "", "admin token account (default is the associated account)")
	claimCmd := &cobra.Command{
		Use:     "claim <token account> <amount>",
		Short:   "pay tokens out of custody into a user token account",
		Example: "send claim -k admin.json <account> 2.5",
		Args:    cobra.ExactArgs(2),
		Run:     sendClaim,
	}
	withdrawCmd := &cobra.Command{
		Use:   "withdraw <amount>",
		Short: "move tokens from custody back to the admin token account",
		Args:  cobra.ExactArgs(1),
		Run:   sendWithdraw,
	}
	withdrawCmd.Flags().StringVar(&tokenAcct, "account", "", "admin token account (default is the associated account)")

	cmd.AddCommand(initCmd, depositCmd, claimCmd, withdrawCmd)
	return cmd
}

func signerKey() solana.PrivateKey {
	if keyFile == "" {
		common.Fatalf("a key file is required (--key)")
	}
	pass, err := getPassphrase(false)
	if err != nil {
		common.Fatalf("%v", err)
	}
	key, err := auth.LoadKeyFile(keyFile, pass)
	if err != nil {
		common.Fatalf("%v", err)
	}
	return key
}

func parseAmount(s string) uint64 {
	var (
		v   uint64
		err error
	)
	if rawAmount {
		v, err = strconv.ParseUint(s, 10, 64)
	} else {
		v, err = prototype.ParseAmount(s)
	}
	if err != nil {
		common.Fatalf("%v", err)
	}
	return v
}

// adminAccount returns --account, or the associated account of admin for the vault mint.
func adminAccount(client *rpc.Client, admin solana.PublicKey) solana.PublicKey {
	if tokenAcct != "" {
		account, err := auth.ParseAddress(tokenAcct)
		if err != nil {
			common.Fatalf("%v", err)
		}
		return account
	}
	resp, err := client.State()
	if err != nil {
		common.Fatalf("%v", err)
	}
	account, err := auth.AssociatedTokenAddress(admin, resp.State.Mint)
	if err != nil {
		common.Fatalf("%v", err)
	}
	return account
}

func submit(client *rpc.Client, key solana.PrivateKey, op prototype.Operation) {
	if expireAfter <= 0 || expireAfter > constants.OpMaxExpirationTime*time.Second {
		common.Fatalf("--expire must be within (0, %ds]", constants.OpMaxExpirationTime)
	}
	now := time.Now()
	sop, err := prototype.NewSignedOperation(op, now.Add(expireAfter), uint64(now.UnixNano()))
	if err != nil {
		common.Fatalf("%v", err)
	}
	if err = sop.Sign(key); err != nil {
		common.Fatalf("%v", err)
	}
	receipt, err := client.Submit(sop)
	if receipt != nil {
		printJSON(receipt)
	}
	if err != nil {
		common.Fatalf("%v", err)
	}
	fmt.Printf("%s applied, pool balance %s\n", receipt.Type, formatTokens(receipt.TotalTokens))
}

func sendInitialize(cmd *cobra.Command, args []string) {
	key := signerKey()
	mint, err := auth.ParseAddress(args[0])
	if err != nil {
		common.Fatalf("%v", err)
	}
	submit(newClient(), key, &prototype.InitializeOperation{Admin: key.PublicKey(), Mint: mint})
}

func sendDeposit(cmd *cobra.Command, args []string) {
	key := signerKey()
	amount := parseAmount(args[0])
	client := newClient()
	submit(client, key, &prototype.DepositOperation{
		Admin:             key.PublicKey(),
		AdminTokenAccount: adminAccount(client, key.PublicKey()),
		Amount:            amount,
	})
}

func sendClaim(cmd *cobra.Command, args []string) {
	key := signerKey()
	account, err := auth.ParseAddress(args[0])
	if err != nil {
		common.Fatalf("%v", err)
	}
	submit(newClient(), key, &prototype.ClaimToUserOperation{
		User:             key.PublicKey(),
		UserTokenAccount: account,
		Amount:           parseAmount(args[1]),
	})
}

func sendWithdraw(cmd *cobra.Command, args []string) {
	key := signerKey()
	amount := parseAmount(args[0])
	client := newClient()
	submit(client, key, &prototype.WithdrawOperation{
		Admin:             key.PublicKey(),
		AdminTokenAccount: adminAccount(client, key.PublicKey()),
		Amount:            amount,
	})
}
