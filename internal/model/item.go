package model

import "time"

// InventoryItem represents a stocked item belonging to one café.
// Quantity is a non-negative real number (items are sold in fractional
// units, e.g. kilograms of beans).
type InventoryItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	QRCode      string    `json:"qr_code"`
	LastUpdated time.Time `json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
	CafeID      string    `json:"cafe_id,omitempty"`
}
