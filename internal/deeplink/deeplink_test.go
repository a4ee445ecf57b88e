package deeplink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicIDRoundTrip(t *testing.T) {
	ids := []int64{
		-1_001_234_567_890,
		-1_000_000_000_001,
		-1_999_999_999_999,
	}
	for _, id := range ids {
		cid := PublicID(id)
		assert.Positive(t, cid)
		assert.Equal(t, id, InternalID(cid))
	}
}

func TestPublicIDKnownValue(t *testing.T) {
	// -100xxxxxxxxxx transport ids map to the bare xxxxxxxxxx public id.
	assert.Equal(t, int64(1_234_567_890), PublicID(-1_001_234_567_890))
}

func TestPostLink(t *testing.T) {
	assert.Equal(t, "t.me/c/1234567890/42", PostLink(1_234_567_890, 42))
}
