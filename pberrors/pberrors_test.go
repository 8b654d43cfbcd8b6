package pberrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWithMsgDoesNotMutateSentinel(t *testing.T) {
	err := NotFound.WithMsg("account not found")

	assert.Equal(t, "account not found (Code = 40410000)", err.Error())
	assert.Equal(t, "resource not found", NotFound.Message)
	assert.True(t, Is(err, NotFound))
}

func TestWithErrorKeepsRawOutOfBody(t *testing.T) {
	raw := errors.New("pq: connection reset")
	err := InternalServerError.WithError(raw)

	assert.Equal(t, raw, err.RawException())
	assert.NotContains(t, err.ExceptionBody(), "raw")
	assert.Equal(t, "internal server error occurred (Code = 50010000) : pq: connection reset", Format(err))
}

func TestIsMatchesByCode(t *testing.T) {
	assert.True(t, Is(UnknownTicker, UnknownTicker))
	assert.True(t, Is(UnknownTicker.WithMsg("no quote for ZZZZ"), UnknownTicker))
	assert.False(t, Is(UnknownTicker, PriceUnavailable))
	assert.False(t, Is(errors.New("plain"), NotFound))
	assert.False(t, Is(nil, NotFound))
}
