package database

import "albastini/internal/shared"

// TimeLayout is the CreatedAt format. Its fixed width keeps text ordering
// of created_at chronological.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Snapshot is a saved deck order.
type Snapshot struct {
	ID        string        `json:"id"`
	CreatedAt string        `json:"created_at"`
	TableCode string        `json:"table_code"`
	Cards     []shared.Card `json:"-"`
}
