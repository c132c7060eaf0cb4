package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/prototype"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// Client talks to the HTTP API of a running vault node.
type Client struct {
	base string
	http *http.Client
}

// APIError is a non-2xx answer of the API server.
type APIError struct {
	Status int
	Body   ErrorResponse
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Body.Error)
}

func NewClient(endpoint string) *Client {
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "http://" + endpoint
	}
	return &Client{
		base: strings.TrimRight(endpoint, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if out != nil {
		if err = json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, errors.Wrapf(err, "decode response of %s %s", method, path)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) get(path string, out interface{}) error {
	var failure ErrorResponse
	status, err := c.doChecked(http.MethodGet, path, nil, out, &failure)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &APIError{Status: status, Body: failure}
	}
	return nil
}

// doChecked decodes a 200 answer into out and anything else into failure.
func (c *Client) doChecked(method, path string, body, out interface{}, failure *ErrorResponse) (int, error) {
	var raw json.RawMessage
	status, err := c.do(method, path, body, &raw)
	if err != nil {
		return status, err
	}
	if status == http.StatusOK {
		return status, json.Unmarshal(raw, out)
	}
	_ = json.Unmarshal(raw, failure)
	return status, nil
}

func (c *Client) Health() error {
	var resp map[string]string
	return c.get("/health", &resp)
}

func (c *Client) State() (*StateResponse, error) {
	resp := new(StateResponse)
	if err := c.get("/v1/state", resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Addresses() (*iservices.VaultAddresses, error) {
	resp := new(iservices.VaultAddresses)
	if err := c.get("/v1/addresses", resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) TokenAccount(address solana.PublicKey) (*iservices.TokenAccount, error) {
	resp := new(iservices.TokenAccount)
	if err := c.get("/v1/accounts/"+address.String(), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) CreateTokenAccount(wallet solana.PublicKey) (*iservices.TokenAccount, error) {
	resp := new(iservices.TokenAccount)
	var failure ErrorResponse
	status, err := c.doChecked(http.MethodPost, "/v1/accounts", &CreateAccountRequest{Wallet: wallet.String()}, resp, &failure)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{Status: status, Body: failure}
	}
	return resp, nil
}

// Submit sends a signed operation. A failed operation returns its receipt together with the error.
func (c *Client) Submit(sop *prototype.SignedOperation) (*prototype.Receipt, error) {
	resp := new(ApplyResponse)
	status, err := c.do(http.MethodPost, "/v1/operations", sop, resp)
	if err != nil {
		return nil, err
	}
	if status == http.StatusOK {
		return resp.Receipt, nil
	}
	apiErr := &APIError{Status: status}
	if resp.Error != nil {
		apiErr.Body = *resp.Error
	}
	return resp.Receipt, apiErr
}
