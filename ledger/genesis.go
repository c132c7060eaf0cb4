package ledger

import (
	"github.com/coschain/cosvault/auth"
	"github.com/coschain/cosvault/common/constants"
	"github.com/coschain/cosvault/db/storage"
	"github.com/coschain/cosvault/iservices"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Bootstrap creates the genesis mint owned by admin and credits supply to the
// admin's associated token account. It does nothing if the mint already exists.
// The whole bootstrap runs in one storage transaction.
func (l *Ledger) Bootstrap(admin solana.PublicKey, supply uint64) (mint *iservices.TokenMint, err error) {
	address, err := auth.DeriveMintAddress(admin)
	if err != nil {
		return nil, errors.Wrap(err, "derive genesis mint")
	}
	if m, err := l.Mint(address); err == nil {
		return m, nil
	} else if errors.Cause(err) != iservices.ErrMintNotFound {
		return nil, err
	}
	if supply == 0 {
		supply = constants.FirstTotalSupply
	}

	var acc *iservices.TokenAccount
	err = storage.RunInTransaction(l.trx, func() (err error) {
		if _, err = l.CreateMint(address, admin, constants.Decimals); err != nil {
			return err
		}
		if acc, err = l.CreateAssociatedAccount(admin, address); err != nil {
			return err
		}
		return l.mintTo(address, acc.Address, supply)
	})
	if err != nil {
		return nil, err
	}
	if mint, err = l.Mint(address); err != nil {
		return nil, err
	}
	l.log.WithFields(logrus.Fields{
		"mint":    address,
		"admin":   admin,
		"account": acc.Address,
		"supply":  supply,
	}).Info("genesis bootstrap done")
	return mint, nil
}
