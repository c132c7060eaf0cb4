package rpc

import (
	"net/http"
	"time"

	"github.com/coschain/cosvault/auth"
	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/prototype"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  uint32 `json:"code,omitempty"`
	Name  string `json:"name,omitempty"`
}

// StateResponse is returned by GET /v1/state.
type StateResponse struct {
	State     *iservices.VaultState     `json:"state"`
	Audit     *iservices.AuditReport    `json:"audit"`
	Addresses *iservices.VaultAddresses `json:"addresses"`
}

// ApplyResponse is returned by POST /v1/operations.
// A failed operation still carries its receipt.
type ApplyResponse struct {
	Receipt *prototype.Receipt `json:"receipt,omitempty"`
	Error   *ErrorResponse     `json:"error,omitempty"`
}

type CreateAccountRequest struct {
	Wallet string `json:"wallet" binding:"required"`
}

type APIService struct {
	vault iservices.IVault
	log   *logrus.Logger
}

func NewAPIService(vault iservices.IVault, log *logrus.Logger) *APIService {
	if log == nil {
		log = logrus.New()
	}
	return &APIService{vault: vault, log: log}
}

// NewRouter builds the HTTP routes of api.
func NewRouter(api *APIService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(api.log))

	router.GET("/health", api.Health)
	v1 := router.Group("/v1")
	{
		v1.GET("/state", api.GetState)
		v1.GET("/addresses", api.GetAddresses)
		v1.GET("/accounts/:address", api.GetAccount)
		v1.POST("/accounts", api.CreateAccount)
		v1.POST("/operations", api.ApplyOperation)
	}
	return router
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		entry := log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     path,
			"status":   status,
			"duration": time.Since(start),
			"client":   c.ClientIP(),
		})
		switch {
		case status >= 500:
			entry.Error("http request")
		case status >= 400:
			entry.Warn("http request")
		default:
			entry.Debug("http request")
		}
	}
}

func errorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{Error: err.Error()}
	if ve, ok := prototype.AsVaultError(err); ok {
		resp.Code, resp.Name = ve.Code, ve.Name
	}
	return resp
}

// statusOf maps an error that was raised before or instead of an operation run to an HTTP status.
func statusOf(err error) int {
	switch errors.Cause(err) {
	case prototype.ErrInvalidSignature:
		return http.StatusUnauthorized
	case prototype.ErrDuplicateOperation:
		return http.StatusConflict
	case prototype.ErrNotInitialized, iservices.ErrAccountNotFound, iservices.ErrMintNotFound:
		return http.StatusNotFound
	case prototype.ErrOperationExpired, prototype.ErrUnknownOp, prototype.ErrBadPayload, prototype.ErrEmptyAddress, prototype.ErrNpe:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (api *APIService) abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
}

func (api *APIService) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (api *APIService) GetState(c *gin.Context) {
	state, err := api.vault.State()
	if err != nil {
		api.abort(c, err)
		return
	}
	audit, err := api.vault.Audit()
	if err != nil {
		api.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, &StateResponse{State: state, Audit: audit, Addresses: api.vault.Addresses()})
}

func (api *APIService) GetAddresses(c *gin.Context) {
	c.JSON(http.StatusOK, api.vault.Addresses())
}

func (api *APIService) GetAccount(c *gin.Context) {
	address, err := auth.ParseAddress(c.Param("address"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	acc, err := api.vault.TokenAccount(address)
	if err != nil {
		api.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

func (api *APIService) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	wallet, err := auth.ParseAddress(req.Wallet)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	acc, err := api.vault.CreateTokenAccount(wallet)
	if err != nil {
		api.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

func (api *APIService) ApplyOperation(c *gin.Context) {
	sop := new(prototype.SignedOperation)
	if err := c.ShouldBindJSON(sop); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	receipt, err := api.vault.Apply(sop)
	if receipt == nil {
		if err == nil {
			err = prototype.ErrNpe
		}
		c.AbortWithStatusJSON(statusOf(err), &ApplyResponse{Error: errorResponse(err)})
		return
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, &ApplyResponse{Receipt: receipt, Error: errorResponse(err)})
		return
	}
	c.JSON(http.StatusOK, &ApplyResponse{Receipt: receipt})
}
