package rpc

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/coschain/cosvault/config"
	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/node"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// HTTPServer serves the vault API inside a node.
type HTTPServer struct {
	ctx      *node.ServiceContext
	log      *logrus.Logger
	api      *APIService
	srv      *http.Server
	listener net.Listener
}

var _ iservices.IRPCServer = (*HTTPServer)(nil)

func NewHTTPServer(ctx *node.ServiceContext, logger *logrus.Logger) (*HTTPServer, error) {
	if logger == nil {
		logger = ctx.Logger()
	}
	return &HTTPServer{ctx: ctx, log: logger}, nil
}

func (s *HTTPServer) Start(node *node.Node) error {
	vaultSvc, err := s.ctx.Service(iservices.VaultServerName)
	if err != nil {
		return err
	}
	vault, ok := vaultSvc.(iservices.IVault)
	if !ok {
		return errors.New("vault service does not provide a vault")
	}
	s.api = NewAPIService(vault, s.log)

	gin.SetMode(gin.ReleaseMode)
	endpoint := s.ctx.Config().HTTPEndpoint()
	if endpoint == "" {
		endpoint = config.DefaultHTTPEndPoint
	}
	listener, err := net.Listen("tcp", endpoint)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", endpoint)
	}
	s.listener = listener
	s.srv = &http.Server{
		Handler:           NewRouter(s.api),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Error("http server stopped")
		}
	}()
	s.log.WithField("endpoint", listener.Addr().String()).Info("http server started")
	return nil
}

func (s *HTTPServer) Endpoint() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *HTTPServer) Stop() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.srv.Shutdown(ctx)
	s.log.Info("http server stopped")
	return err
}
