package iservices

import "time"

const OpLogServiceName = "oplog_svc"
const OpLogDBTableName = "operation_logs"

// OperationRecord is one applied vault operation, as stored by the operation log plugin.
type OperationRecord struct {
	ID          uint64    `gorm:"primary_key;auto_increment"`
	ReceiptId   string    `gorm:"not null;unique_index"`
	OpType      string    `gorm:"not null;index"`
	Signer      string    `gorm:"not null;index"`
	Signature   string    `gorm:"not null"`
	Status      uint32    `gorm:"not null"`
	ErrorCode   uint32    `gorm:"not null"`
	ErrorInfo   string    `gorm:"type:text"`
	Amount      uint64    `gorm:"not null"`
	TotalTokens uint64    `gorm:"not null"`
	AppliedAt   time.Time `gorm:"not null;index"`
}

func (OperationRecord) TableName() string {
	return OpLogDBTableName
}
