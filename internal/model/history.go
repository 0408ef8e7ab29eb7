package model

import "time"

// HistoryEntry is an append-only audit record of one quantity change.
// ItemName is a snapshot taken at the time of the change; it stays valid
// after the item is renamed or deleted. ChangeAmount is the delta that was
// actually applied after zero-flooring, not the delta the caller requested.
type HistoryEntry struct {
	ID           string    `json:"id"`
	ItemName     string    `json:"item_name"`
	ChangeAmount float64   `json:"change_amount"`
	Username     string    `json:"username"`
	Date         time.Time `json:"date"`
	CafeID       string    `json:"cafe_id,omitempty"`
}
