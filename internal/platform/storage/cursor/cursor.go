// Package cursor provides opaque pagination token encoding/decoding.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Direction indicates the pagination direction.
type Direction string

const (
	// DirectionForward paginates forward (seq > cursor).
	DirectionForward Direction = "fwd"
	// DirectionBackward paginates backward (seq < cursor).
	DirectionBackward Direction = "bwd"
)

// Cursor represents the internal state of a pagination cursor.
type Cursor struct {
	// Seq is the sequence number to paginate from.
	Seq uint64 `json:"seq"`
	// Dir is the pagination direction (fwd = seq > cursor, bwd = seq < cursor).
	Dir Direction `json:"dir"`
}

// Encode encodes a cursor to an opaque base64 string.
func Encode(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// Decode decodes an opaque base64 string to a cursor.
// Returns an error if the token is invalid or malformed.
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, fmt.Errorf("empty token")
	}

	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode base64: %w", err)
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("unmarshal cursor: %w", err)
	}

	if c.Dir != DirectionForward && c.Dir != DirectionBackward {
		return Cursor{}, fmt.Errorf("invalid cursor direction: %q", c.Dir)
	}

	return c, nil
}

// NewForwardCursor creates a cursor for forward pagination from the given sequence.
func NewForwardCursor(seq uint64) Cursor {
	return Cursor{Seq: seq, Dir: DirectionForward}
}
