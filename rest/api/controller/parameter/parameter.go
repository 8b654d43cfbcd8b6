// Package parameter holds shared request parsing helpers for the
// API controllers.
package parameter

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/paperstreet/paperbroker/pberrors"
	"github.com/paperstreet/paperbroker/rest/api"
)

// GetSymbol reads the {symbol} path parameter.
func GetSymbol(ctx api.Context) (string, error) {
	symbol := ctx.Params().Get("symbol")
	if symbol == "" {
		return "", pberrors.InvalidRequestParam.WithMsg("symbol is required")
	}
	return symbol, nil
}

// GetParamAccountID reads the {account_id} path parameter.
func GetParamAccountID(ctx api.Context) (uint, error) {
	raw := ctx.Params().Get("account_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, pberrors.InvalidRequestParam.WithMsg("account_id must be an integer")
	}
	return uint(id), nil
}

// OrderRequest is the body of buy and sell requests.
type OrderRequest struct {
	Symbol string          `json:"symbol"`
	Volume decimal.Decimal `json:"volume"`
}

func ReadOrder(ctx api.Context) (*OrderRequest, error) {
	req := &OrderRequest{}
	if err := ctx.Read(req); err != nil {
		return nil, pberrors.RequestBodyLoadFailure.WithError(err)
	}
	if req.Symbol == "" {
		return nil, pberrors.InvalidRequestParam.WithMsg("symbol is required")
	}
	return req, nil
}
