package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coschain/cosvault/auth"
	"github.com/coschain/cosvault/db/storage"
	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/ledger"
	"github.com/coschain/cosvault/mylog"
	"github.com/coschain/cosvault/prototype"
	"github.com/coschain/cosvault/vault"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type APITester struct {
	router       *gin.Engine
	admin        solana.PrivateKey
	mint         solana.PublicKey
	adminAccount solana.PublicKey
	nonce        uint64
}

func newAPITester(t *testing.T) *APITester {
	db := storage.NewTrxMemoryDatabase(true)
	l := ledger.NewLedger(db, mylog.Discard())
	admin := solana.NewWallet().PrivateKey
	mint, err := l.Bootstrap(admin.PublicKey(), 10000)
	require.NoError(t, err)
	v, err := vault.NewVault(db, l, nil, mylog.Discard())
	require.NoError(t, err)
	adminAccount, err := auth.AssociatedTokenAddress(admin.PublicKey(), mint.Address)
	require.NoError(t, err)
	return &APITester{
		router:       NewRouter(NewAPIService(v, mylog.Discard())),
		admin:        admin,
		mint:         mint.Address,
		adminAccount: adminAccount,
	}
}

func (tester *APITester) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	tester.router.ServeHTTP(w, req)
	return w
}

func (tester *APITester) sign(t *testing.T, key solana.PrivateKey, op prototype.Operation) *prototype.SignedOperation {
	tester.nonce++
	sop, err := prototype.NewSignedOperation(op, time.Now().Add(time.Minute), tester.nonce)
	require.NoError(t, err)
	require.NoError(t, sop.Sign(key))
	return sop
}

func (tester *APITester) submit(t *testing.T, sop *prototype.SignedOperation) (int, *ApplyResponse) {
	w := tester.request(t, http.MethodPost, "/v1/operations", sop)
	resp := new(ApplyResponse)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), resp))
	return w.Code, resp
}

func (tester *APITester) initialize(t *testing.T) {
	code, resp := tester.submit(t, tester.sign(t, tester.admin, &prototype.InitializeOperation{Admin: tester.admin.PublicKey(), Mint: tester.mint}))
	require.Equal(t, http.StatusOK, code)
	require.True(t, resp.Receipt.Succeeded())
}

func TestAPI(t *testing.T) {
	t.Run("health", func(t *testing.T) {
		w := newAPITester(t).request(t, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})
	t.Run("state", func(t *testing.T) {
		newAPITester(t).state(t)
	})
	t.Run("operations", func(t *testing.T) {
		newAPITester(t).operations(t)
	})
	t.Run("rejected envelopes", func(t *testing.T) {
		newAPITester(t).rejected(t)
	})
	t.Run("accounts", func(t *testing.T) {
		newAPITester(t).accounts(t)
	})
}

func (tester *APITester) state(t *testing.T) {
	a := assert.New(t)
	w := tester.request(t, http.MethodGet, "/v1/state", nil)
	a.Equal(http.StatusNotFound, w.Code)
	failure := new(ErrorResponse)
	a.NoError(json.Unmarshal(w.Body.Bytes(), failure))
	a.Equal(prototype.ErrNotInitialized.Code, failure.Code)
	a.Equal("NotInitialized", failure.Name)

	tester.initialize(t)
	w = tester.request(t, http.MethodGet, "/v1/state", nil)
	a.Equal(http.StatusOK, w.Code)
	resp := new(StateResponse)
	a.NoError(json.Unmarshal(w.Body.Bytes(), resp))
	a.True(resp.State.Admin.Equals(tester.admin.PublicKey()))
	a.True(resp.State.Mint.Equals(tester.mint))
	a.Equal(uint64(0), resp.State.TotalTokens)
	a.True(resp.Audit.Consistent)
	a.True(resp.Addresses.GlobalState.Equals(resp.State.Address))

	w = tester.request(t, http.MethodGet, "/v1/addresses", nil)
	a.Equal(http.StatusOK, w.Code)
	addrs := new(iservices.VaultAddresses)
	a.NoError(json.Unmarshal(w.Body.Bytes(), addrs))
	a.True(addrs.Program.Equals(auth.DefaultProgramID))
}

func (tester *APITester) operations(t *testing.T) {
	a := assert.New(t)
	tester.initialize(t)

	code, resp := tester.submit(t, tester.sign(t, tester.admin, &prototype.DepositOperation{
		Admin: tester.admin.PublicKey(), AdminTokenAccount: tester.adminAccount, Amount: 1000,
	}))
	a.Equal(http.StatusOK, code)
	a.Nil(resp.Error)
	a.Equal(uint64(1000), resp.Receipt.TotalTokens)

	// an operation that runs and fails still returns its receipt
	code, resp = tester.submit(t, tester.sign(t, tester.admin, &prototype.WithdrawOperation{
		Admin: tester.admin.PublicKey(), AdminTokenAccount: tester.adminAccount, Amount: 5000,
	}))
	a.Equal(http.StatusUnprocessableEntity, code)
	a.NotNil(resp.Receipt)
	a.Equal(prototype.ErrInsufficientTokensInPool.Code, resp.Error.Code)
	a.Equal(prototype.ErrInsufficientTokensInPool.Code, resp.Receipt.ErrorCode)
	a.Equal(uint64(1000), resp.Receipt.TotalTokens)

	stranger := solana.NewWallet().PrivateKey
	code, resp = tester.submit(t, tester.sign(t, stranger, &prototype.ClaimToUserOperation{
		User: stranger.PublicKey(), UserTokenAccount: tester.adminAccount, Amount: 1,
	}))
	a.Equal(http.StatusUnprocessableEntity, code)
	a.Equal("PoolAdminMismatch", resp.Error.Name)
}

func (tester *APITester) rejected(t *testing.T) {
	a := assert.New(t)
	tester.initialize(t)

	sop := tester.sign(t, tester.admin, &prototype.DepositOperation{
		Admin: tester.admin.PublicKey(), AdminTokenAccount: tester.adminAccount, Amount: 10,
	})
	code, _ := tester.submit(t, sop)
	a.Equal(http.StatusOK, code)
	code, resp := tester.submit(t, sop)
	a.Equal(http.StatusConflict, code)
	a.Nil(resp.Receipt)
	a.Equal(prototype.ErrDuplicateOperation.Code, resp.Error.Code)

	forged := tester.sign(t, tester.admin, &prototype.DepositOperation{
		Admin: tester.admin.PublicKey(), AdminTokenAccount: tester.adminAccount, Amount: 10,
	})
	forged.Signature = solana.Signature{}.String()
	code, resp = tester.submit(t, forged)
	a.Equal(http.StatusUnauthorized, code)
	a.Equal("InvalidSignature", resp.Error.Name)

	expired, err := prototype.NewSignedOperation(&prototype.DepositOperation{
		Admin: tester.admin.PublicKey(), AdminTokenAccount: tester.adminAccount, Amount: 10,
	}, time.Now().Add(-time.Minute), 99)
	a.NoError(err)
	a.NoError(expired.Sign(tester.admin))
	code, resp = tester.submit(t, expired)
	a.Equal(http.StatusBadRequest, code)
	a.Equal("OperationExpired", resp.Error.Name)

	unknown := *expired
	unknown.Type = "mint_more"
	code, _ = tester.submit(t, &unknown)
	a.Equal(http.StatusBadRequest, code)

	garbled := *expired
	garbled.Payload = json.RawMessage(`{"amount":"lots"}`)
	code, resp = tester.submit(t, &garbled)
	a.Equal(http.StatusBadRequest, code)
	a.Contains(resp.Error.Error, "malformed operation payload")

	w := tester.request(t, http.MethodPost, "/v1/operations", "not an operation")
	a.Equal(http.StatusBadRequest, w.Code)
}

// brokenVault fails every operation before producing a receipt.
type brokenVault struct {
	iservices.IVault
	err error
}

func (v *brokenVault) Apply(*prototype.SignedOperation) (*prototype.Receipt, error) {
	return nil, v.err
}

func TestApplyServerFault(t *testing.T) {
	a := assert.New(t)
	tester := newAPITester(t)
	tester.router = NewRouter(NewAPIService(&brokenVault{err: errors.New("leveldb: closed")}, mylog.Discard()))

	code, resp := tester.submit(t, tester.sign(t, tester.admin, &prototype.DepositOperation{
		Admin: tester.admin.PublicKey(), AdminTokenAccount: tester.adminAccount, Amount: 1,
	}))
	a.Equal(http.StatusInternalServerError, code)
	a.Nil(resp.Receipt)
	a.Equal("leveldb: closed", resp.Error.Error)
}

func (tester *APITester) accounts(t *testing.T) {
	a := assert.New(t)
	wallet := solana.NewWallet().PublicKey()

	// creating accounts needs an initialized vault
	w := tester.request(t, http.MethodPost, "/v1/accounts", &CreateAccountRequest{Wallet: wallet.String()})
	a.Equal(http.StatusNotFound, w.Code)

	tester.initialize(t)
	w = tester.request(t, http.MethodPost, "/v1/accounts", &CreateAccountRequest{Wallet: wallet.String()})
	a.Equal(http.StatusOK, w.Code)
	acc := new(iservices.TokenAccount)
	a.NoError(json.Unmarshal(w.Body.Bytes(), acc))
	a.True(acc.Owner.Equals(wallet))
	a.True(acc.Mint.Equals(tester.mint))

	w = tester.request(t, http.MethodGet, "/v1/accounts/"+acc.Address.String(), nil)
	a.Equal(http.StatusOK, w.Code)

	w = tester.request(t, http.MethodGet, "/v1/accounts/"+solana.NewWallet().PublicKey().String(), nil)
	a.Equal(http.StatusNotFound, w.Code)

	w = tester.request(t, http.MethodGet, "/v1/accounts/not-base58!", nil)
	a.Equal(http.StatusBadRequest, w.Code)

	w = tester.request(t, http.MethodPost, "/v1/accounts", map[string]string{})
	a.Equal(http.StatusBadRequest, w.Code)
}

func TestClient(t *testing.T) {
	a := assert.New(t)
	tester := newAPITester(t)
	srv := httptest.NewServer(tester.router)
	defer srv.Close()

	client := NewClient(srv.URL)
	a.NoError(client.Health())

	_, err := client.State()
	apiErr, ok := err.(*APIError)
	a.True(ok)
	a.Equal(http.StatusNotFound, apiErr.Status)
	a.Equal("NotInitialized", apiErr.Body.Name)

	receipt, err := client.Submit(tester.sign(t, tester.admin, &prototype.InitializeOperation{Admin: tester.admin.PublicKey(), Mint: tester.mint}))
	a.NoError(err)
	a.True(receipt.Succeeded())

	receipt, err = client.Submit(tester.sign(t, tester.admin, &prototype.DepositOperation{
		Admin: tester.admin.PublicKey(), AdminTokenAccount: tester.adminAccount, Amount: 300,
	}))
	a.NoError(err)
	a.Equal(uint64(300), receipt.TotalTokens)

	receipt, err = client.Submit(tester.sign(t, tester.admin, &prototype.WithdrawOperation{
		Admin: tester.admin.PublicKey(), AdminTokenAccount: tester.adminAccount, Amount: 301,
	}))
	a.Error(err)
	a.NotNil(receipt)
	a.Equal(prototype.ErrInsufficientTokensInPool.Code, receipt.ErrorCode)

	state, err := client.State()
	a.NoError(err)
	a.Equal(uint64(300), state.State.TotalTokens)
	a.Equal(uint64(300), state.Audit.CustodyBalance)

	acc, err := client.CreateTokenAccount(solana.NewWallet().PublicKey())
	a.NoError(err)
	got, err := client.TokenAccount(acc.Address)
	a.NoError(err)
	a.True(got.Address.Equals(acc.Address))

	addrs, err := client.Addresses()
	a.NoError(err)
	a.True(addrs.Program.Equals(auth.DefaultProgramID))
}
