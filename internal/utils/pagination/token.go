package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// Cursor marks the last movement of a page. Movements are ordered by
// occurred_at desc, created_at desc, source_id desc, so all three fields are needed.
type Cursor struct {
	OccurredAt time.Time
	CreatedAt  time.Time
	SourceID   string
}

// EncodeToken creates a base64 encoded token from a movement cursor.
func EncodeToken(c Cursor) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", c.OccurredAt.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.SourceID)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	occurredAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (occurred_at parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return Cursor{OccurredAt: occurredAt, CreatedAt: createdAt, SourceID: parts[2]}, nil
}

// Before reports whether a row sorts after the cursor in newest-first order,
// i.e. whether it belongs to the next page.
func (c Cursor) Before(occurredAt, createdAt time.Time, sourceID string) bool {
	if !occurredAt.Equal(c.OccurredAt) {
		return occurredAt.Before(c.OccurredAt)
	}
	if !createdAt.Equal(c.CreatedAt) {
		return createdAt.Before(c.CreatedAt)
	}
	return sourceID < c.SourceID
}
