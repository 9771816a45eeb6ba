package service

import (
	"encoding/base64"
	"encoding/json"

	"ironlog/workout-app/internal/domain"
)

// encodeCursor serialises the resume point to an opaque token (JSON wrapped
// in URL-safe base64). Clients never interpret it; it only has to round-trip.
func encodeCursor(c *domain.HistoryCursor) string {
	if c == nil {
		return ""
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// decodeCursor parses an encoded cursor token. A malformed or tampered token
// yields nil, which callers treat as "no cursor": the query resumes from the
// start instead of failing.
func decodeCursor(token string) *domain.HistoryCursor {
	if token == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil
	}
	var c domain.HistoryCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil
	}
	if c.ID.IsZero() {
		return nil
	}
	return &c
}
