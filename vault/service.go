package vault

import (
	"github.com/coschain/cosvault/auth"
	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/node"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// VaultService runs the vault inside a node. It needs the database and ledger services.
type VaultService struct {
	*Vault
	ctx *node.ServiceContext
	log *logrus.Logger
}

func NewVaultService(ctx *node.ServiceContext, logger *logrus.Logger) (*VaultService, error) {
	if logger == nil {
		logger = ctx.Logger()
	}
	return &VaultService{ctx: ctx, log: logger}, nil
}

func (s *VaultService) Start(node *node.Node) error {
	dbSvc, err := s.ctx.Service(iservices.DbServerName)
	if err != nil {
		return err
	}
	db, err := dbSvc.(iservices.IDatabaseService).Database()
	if err != nil {
		return err
	}
	ledgerSvc, err := s.ctx.Service(iservices.LedgerServerName)
	if err != nil {
		return err
	}
	ledger, ok := ledgerSvc.(iservices.ITokenLedger)
	if !ok {
		return errors.New("ledger service does not provide a token ledger")
	}

	cfg := s.ctx.Config()
	var program solana.PublicKey
	if cfg.ProgramID != "" {
		if program, err = auth.ParseAddress(cfg.ProgramID); err != nil {
			return errors.Wrap(err, "program id")
		}
	}
	v, err := NewVault(db, ledger, &Config{
		ProgramID:   program,
		ClaimPolicy: ClaimPolicy(cfg.ClaimPolicy),
		Bus:         node.EvBus,
	}, s.log)
	if err != nil {
		return err
	}
	if _, err = v.PruneSignatures(); err != nil {
		return errors.Wrap(err, "prune operation signatures")
	}
	s.Vault = v

	addrs := v.Addresses()
	s.log.WithFields(logrus.Fields{
		"program":      addrs.Program,
		"global_state": addrs.GlobalState,
		"claim_policy": v.Policy(),
	}).Info("vault service started")
	return nil
}

func (s *VaultService) Stop() error {
	return nil
}
