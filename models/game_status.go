package models

// Game verification statuses. The table is static reference data seeded at
// startup; rows are looked up by title and never mutated by request flow.
const (
	StatusNotSend     = "NOT_SEND"
	StatusPending     = "PENDING"
	StatusApproved    = "APPROVED"
	StatusRejected    = "REJECTED"
	StatusUnpublished = "UNPUBLISHED"
)

// AllGameStatuses is the closed set of status titles, in seed order.
var AllGameStatuses = []string{
	StatusNotSend,
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusUnpublished,
}

type GameStatus struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Title string `json:"title" gorm:"uniqueIndex;not null"`
}
