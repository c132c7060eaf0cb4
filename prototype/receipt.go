package prototype

import "time"

const (
	StatusSuccess = 200
	StatusError   = 500
)

// Receipt reports the outcome of one applied operation.
type Receipt struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Signer      string    `json:"signer"`
	Signature   string    `json:"signature"`
	Status      uint32    `json:"status"`
	ErrorCode   uint32    `json:"error_code,omitempty"`
	ErrorInfo   string    `json:"error_info,omitempty"`
	Amount      uint64    `json:"amount"`
	TotalTokens uint64    `json:"total_tokens"`
	AppliedAt   time.Time `json:"applied_at"`
}

func (r *Receipt) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}
