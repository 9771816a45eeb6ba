package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ironlog/workout-app/internal/domain"
)

func TestCursorRoundTrip(t *testing.T) {
	endedAt := time.Date(2026, 8, 29, 19, 30, 0, 0, time.UTC)
	rating := 4
	in := &domain.HistoryCursor{
		EndedAt: &endedAt,
		Rating:  &rating,
		ID:      primitive.NewObjectID(),
	}

	token := encodeCursor(in)
	require.NotEmpty(t, token)

	out := decodeCursor(token)
	require.NotNil(t, out)
	assert.True(t, out.EndedAt.Equal(endedAt))
	assert.Equal(t, rating, *out.Rating)
	assert.Equal(t, in.ID, out.ID)
}

func TestCursorRoundTripSparseFields(t *testing.T) {
	in := &domain.HistoryCursor{ID: primitive.NewObjectID()}
	out := decodeCursor(encodeCursor(in))
	require.NotNil(t, out)
	assert.Nil(t, out.EndedAt)
	assert.Nil(t, out.Rating)
	assert.Equal(t, in.ID, out.ID)
}

func TestDecodeCursorMalformed(t *testing.T) {
	for name, token := range map[string]string{
		"empty":           "",
		"not base64":      "%%%not-base64%%%",
		"not json":        "bm90LWpzb24", // "not-json"
		"wrong json type": "WzEsMiwzXQ",  // "[1,2,3]"
		"zero id":         "eyJpZCI6IjAwMDAwMDAwMDAwMDAwMDAwMDAwMDAwMCJ9", // {"id":"000...0"}
	} {
		assert.Nil(t, decodeCursor(token), name)
	}
}

func TestEncodeCursorNil(t *testing.T) {
	assert.Empty(t, encodeCursor(nil))
}
