package ledger

import (
	"github.com/coschain/cosvault/auth"
	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/node"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LedgerService runs the token ledger inside a node and applies the genesis bootstrap.
type LedgerService struct {
	*Ledger
	ctx *node.ServiceContext
	log *logrus.Logger
}

func NewLedgerService(ctx *node.ServiceContext, logger *logrus.Logger) (*LedgerService, error) {
	if logger == nil {
		logger = ctx.Logger()
	}
	return &LedgerService{ctx: ctx, log: logger}, nil
}

func (s *LedgerService) Start(node *node.Node) error {
	svc, err := s.ctx.Service(iservices.DbServerName)
	if err != nil {
		return err
	}
	db, err := svc.(iservices.IDatabaseService).Database()
	if err != nil {
		return err
	}
	s.Ledger = NewLedger(db, s.log)

	genesis := s.ctx.Config().Genesis
	if genesis.Admin == "" {
		return nil
	}
	admin, err := auth.ParseAddress(genesis.Admin)
	if err != nil {
		return errors.Wrap(err, "genesis admin")
	}
	_, err = s.Bootstrap(admin, genesis.Supply)
	return err
}

func (s *LedgerService) Stop() error {
	if s.Ledger == nil {
		return nil
	}
	s.log.WithField("hit_rate", s.HitRate()).Debug("ledger stopped")
	return nil
}
