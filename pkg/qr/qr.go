// Package qr maps between an inventory item's persistent identifier and a
// scannable payload. Encoding produces a small JSON document; decoding is
// total: anything that does not parse as that document degrades to raw-text
// passthrough, so a lookup miss is reported by the store, never by the
// resolver.
package qr

import (
	"encoding/json"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// PayloadType tags the structured payload so foreign QR codes are not
// mistaken for item references.
const PayloadType = "inventory_item"

// payload is the wire form of a structured item reference.
type payload struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

// Kind discriminates the two decode outcomes.
type Kind int

const (
	// Structured means the payload parsed as an item reference.
	Structured Kind = iota
	// RawText means the payload is passed through as a literal identifier.
	RawText
)

// Decoded is the tagged result of decoding a scanned payload.
type Decoded struct {
	Kind Kind
	ID   string // set when Kind == Structured
	Name string // set when Kind == Structured, may be empty
	Raw  string // trimmed original payload
}

// ItemID returns the identifier to look up: the embedded id for a structured
// payload, the trimmed raw text otherwise.
func (d Decoded) ItemID() string {
	if d.Kind == Structured {
		return d.ID
	}
	return d.Raw
}

// Encode serializes an item reference into the scannable payload.
func Encode(id, name string) string {
	data, _ := json.Marshal(payload{
		ID:   id,
		Name: name,
		Type: PayloadType,
	})
	return string(data)
}

// Decode parses a scanned payload. It never fails: payloads that are not the
// structured JSON form (wrong shape, wrong type tag, missing id) come back as
// RawText with the trimmed input.
func Decode(raw string) Decoded {
	trimmed := strings.TrimSpace(raw)

	var p payload
	if err := json.Unmarshal([]byte(trimmed), &p); err == nil && p.Type == PayloadType && p.ID != "" {
		return Decoded{
			Kind: Structured,
			ID:   p.ID,
			Name: p.Name,
			Raw:  trimmed,
		}
	}

	return Decoded{
		Kind: RawText,
		Raw:  trimmed,
	}
}

// Image renders the structured payload for an item as a PNG QR code with the
// given edge length in pixels. Used for printable shelf labels.
func Image(id, name string, size int) ([]byte, error) {
	return qrcode.Encode(Encode(id, name), qrcode.Medium, size)
}
