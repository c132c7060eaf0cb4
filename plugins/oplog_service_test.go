package plugins

import (
	"sync"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/coschain/cosvault/common/constants"
	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/mylog"
	"github.com/coschain/cosvault/node"
	"github.com/coschain/cosvault/prototype"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type memOpLog struct {
	sync.Mutex
	records []*iservices.OperationRecord
	fail    bool
	closed  bool
}

func (l *memOpLog) Save(rec *iservices.OperationRecord) error {
	l.Lock()
	defer l.Unlock()
	if l.fail {
		return errors.New("database is gone")
	}
	l.records = append(l.records, rec)
	return nil
}

func (l *memOpLog) Close() error {
	l.closed = true
	return nil
}

func TestOpLogService(t *testing.T) {
	a := assert.New(t)
	bus := EventBus.New()
	writer := &memOpLog{}
	s, err := NewOpLogService(nil, node.SQLConfig{Driver: "mysql"}, mylog.Discard())
	a.NoError(err)
	s.start(bus, writer)

	now := time.Now()
	bus.Publish(constants.NoticeOpApplied, &prototype.Receipt{
		ID: "r1", Type: prototype.OpDeposit, Status: prototype.StatusSuccess, Amount: 10, TotalTokens: 10, AppliedAt: now,
	})
	bus.Publish(constants.NoticeOpFailed, &prototype.Receipt{
		ID: "r2", Type: prototype.OpWithdraw, Status: prototype.StatusError,
		ErrorCode: prototype.ErrInsufficientTokensInPool.Code, ErrorInfo: "pool", Amount: 50, TotalTokens: 10, AppliedAt: now,
	})
	a.NoError(s.Stop())

	a.True(writer.closed)
	a.Len(writer.records, 2)
	a.Equal("r1", writer.records[0].ReceiptId)
	a.Equal(uint64(10), writer.records[0].TotalTokens)
	a.Equal("r2", writer.records[1].ReceiptId)
	a.Equal(uint32(6001), writer.records[1].ErrorCode)
	a.Equal(uint32(prototype.StatusError), writer.records[1].Status)

	// unsubscribed after stop
	a.False(bus.HasCallback(constants.NoticeOpApplied))
	a.False(bus.HasCallback(constants.NoticeOpFailed))
	bus.Publish(constants.NoticeOpApplied, &prototype.Receipt{ID: "r3"})
	bus.WaitAsync()
	a.Len(writer.records, 2)
}

func TestOpLogServiceLateReceipt(t *testing.T) {
	a := assert.New(t)
	bus := EventBus.New()
	writer := &memOpLog{}
	s, _ := NewOpLogService(nil, node.SQLConfig{Driver: "mysql"}, mylog.Discard())
	s.start(bus, writer)
	a.NoError(s.Stop())

	// a receipt delivered after shutdown is dropped, not written to a closed log
	s.handleReceipt(&prototype.Receipt{ID: "late"})
	a.Empty(writer.records)
}

func TestOpLogServiceWriteFailure(t *testing.T) {
	bus := EventBus.New()
	writer := &memOpLog{fail: true}
	s, _ := NewOpLogService(nil, node.SQLConfig{Driver: "mysql"}, mylog.Discard())
	s.start(bus, writer)
	bus.Publish(constants.NoticeOpApplied, &prototype.Receipt{ID: "r1"})
	assert.NoError(t, s.Stop())
	assert.Empty(t, writer.records)
}

func TestOperationRecordTable(t *testing.T) {
	assert.Equal(t, iservices.OpLogDBTableName, iservices.OperationRecord{}.TableName())
}
