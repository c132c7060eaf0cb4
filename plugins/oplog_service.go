package plugins

import (
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/coschain/cosvault/common/constants"
	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/node"
	"github.com/coschain/cosvault/prototype"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// opLogWriter stores operation records.
type opLogWriter interface {
	Save(rec *iservices.OperationRecord) error
	Close() error
}

type gormOpLog struct {
	db *gorm.DB
}

func openGormOpLog(driver, dsn string) (*gormOpLog, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if !db.HasTable(&iservices.OperationRecord{}) {
		if err = db.CreateTable(&iservices.OperationRecord{}).Error; err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &gormOpLog{db: db}, nil
}

func (l *gormOpLog) Save(rec *iservices.OperationRecord) error {
	tx := l.db.Begin()
	if err := tx.Create(rec).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (l *gormOpLog) Close() error {
	return l.db.Close()
}

// OpLogService copies every vault receipt into an SQL table.
type OpLogService struct {
	node.Service
	config node.SQLConfig
	log    *logrus.Logger
	ctx    *node.ServiceContext
	ev     EventBus.Bus

	// handler is subscribed and unsubscribed as one func value; EventBus matches handlers by identity.
	handler func(*prototype.Receipt)
	lock    sync.Mutex
	writer  opLogWriter
}

func NewOpLogService(ctx *node.ServiceContext, config node.SQLConfig, log *logrus.Logger) (*OpLogService, error) {
	return &OpLogService{ctx: ctx, config: config, log: log}, nil
}

func (s *OpLogService) Start(node *node.Node) error {
	writer, err := openGormOpLog(s.config.Driver, s.config.DSN)
	if err != nil {
		return errors.Wrap(err, "invalid database")
	}
	s.start(node.EvBus, writer)
	return nil
}

func (s *OpLogService) start(ev EventBus.Bus, writer opLogWriter) {
	s.ev = ev
	s.writer = writer
	s.handler = s.handleReceipt
	s.hookEvent()
}

func (s *OpLogService) hookEvent() {
	_ = s.ev.SubscribeAsync(constants.NoticeOpApplied, s.handler, true)
	_ = s.ev.SubscribeAsync(constants.NoticeOpFailed, s.handler, true)
}

func (s *OpLogService) unhookEvent() {
	_ = s.ev.Unsubscribe(constants.NoticeOpApplied, s.handler)
	_ = s.ev.Unsubscribe(constants.NoticeOpFailed, s.handler)
}

func (s *OpLogService) handleReceipt(receipt *prototype.Receipt) {
	if receipt == nil {
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.writer == nil {
		s.log.WithField("receipt", receipt.ID).Warn("operation log stopped, receipt dropped")
		return
	}
	if err := s.writer.Save(recordOf(receipt)); err != nil {
		s.log.WithError(err).WithField("receipt", receipt.ID).Error("failed to save operation log")
	}
}

func recordOf(receipt *prototype.Receipt) *iservices.OperationRecord {
	return &iservices.OperationRecord{
		ReceiptId:   receipt.ID,
		OpType:      receipt.Type,
		Signer:      receipt.Signer,
		Signature:   receipt.Signature,
		Status:      receipt.Status,
		ErrorCode:   receipt.ErrorCode,
		ErrorInfo:   receipt.ErrorInfo,
		Amount:      receipt.Amount,
		TotalTokens: receipt.TotalTokens,
		AppliedAt:   receipt.AppliedAt,
	}
}

func (s *OpLogService) Stop() error {
	if s.ev == nil {
		return nil
	}
	s.unhookEvent()
	s.ev.WaitAsync()

	s.lock.Lock()
	defer s.lock.Unlock()
	err := s.writer.Close()
	s.ev, s.writer = nil, nil
	return err
}
