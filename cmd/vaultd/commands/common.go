package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"syscall"

	"github.com/coschain/cosvault/common/constants"
	"github.com/coschain/cosvault/config"
	"github.com/coschain/cosvault/node"
	"github.com/coschain/cosvault/prototype"
	"github.com/coschain/cosvault/rpc"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh/terminal"
)

var (
	DataDir  string
	CfgName  string
	Endpoint string
)

func nodeName() string {
	if CfgName == "" {
		return constants.ClientName
	}
	return CfgName
}

func dataDir() string {
	if DataDir == "" {
		return config.DefaultDataDir()
	}
	return DataDir
}

func loadConfig() (node.Config, error) {
	return config.LoadNodeConfig(dataDir(), nodeName())
}

// newClient connects to --endpoint, or to the endpoint of the local node config.
func newClient() *rpc.Client {
	endpoint := Endpoint
	if endpoint == "" {
		endpoint = config.DefaultHTTPEndPoint
		if cfg, err := loadConfig(); err == nil && cfg.HTTPEndpoint() != "" {
			endpoint = cfg.HTTPEndpoint()
		}
	}
	return rpc.NewClient(endpoint)
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(data))
}

func formatTokens(v uint64) string {
	return prototype.FormatAmount(v) + " " + constants.CoinSymbol
}

func readPassphrase(prompt string) ([]byte, error) {
	fmt.Print(prompt)
	pass, err := terminal.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return nil, errors.Wrap(err, "read passphrase")
	}
	return pass, nil
}

// getPassphrase reads a passphrase from the terminal, asking twice when confirm is set.
func getPassphrase(confirm bool) ([]byte, error) {
	pass, err := readPassphrase("Enter passphrase > ")
	if err != nil {
		return nil, err
	}
	if !confirm {
		return pass, nil
	}
	again, err := readPassphrase("Repeat passphrase > ")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(pass, again) {
		return nil, errors.New("passphrases do not match")
	}
	return pass, nil
}
