// Package price resolves ticker symbols to their current unit price.
// A deterministic in-memory seed table is consulted first; anything
// else falls through to the remote quote service.
package price

import (
	"strings"

	"github.com/paperstreet/paperbroker/pberrors"
	"github.com/shopspring/decimal"
)

type Oracle interface {
	Get(symbol string) (decimal.Decimal, error)
}

var seeds = map[string]decimal.Decimal{
	"STOK": decimal.RequireFromString("123.45"),
	"P2P":  decimal.RequireFromString("678.90"),
	"A33A": decimal.RequireFromString("98.76"),
}

type oracle struct {
	remote *RemoteClient
}

// NewOracle builds an oracle backed by the seed table and the remote
// quote client. remote may be nil, in which case unseeded symbols are
// simply unknown.
func NewOracle(remote *RemoteClient) Oracle {
	return &oracle{remote: remote}
}

// Get returns the current unit price for symbol. Unknown symbols yield
// pberrors.UnknownTicker; remote transport or credential failures yield
// pberrors.PriceUnavailable, never UnknownTicker.
func (o *oracle) Get(symbol string) (decimal.Decimal, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return decimal.Zero, pberrors.UnknownTicker
	}

	if price, ok := seeds[symbol]; ok {
		return price, nil
	}

	if o.remote == nil {
		return decimal.Zero, pberrors.UnknownTicker
	}

	return o.remote.Get(symbol)
}
