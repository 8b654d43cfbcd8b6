package trade

import (
	"github.com/paperstreet/paperbroker/models"
	"github.com/paperstreet/paperbroker/rest/api"
)

// List returns the account's trade history, optionally filtered by the
// symbol query parameter.
func List(ctx api.Context) {
	srv := ctx.Services().Trade().WithTx(ctx.Tx())

	var (
		trades []models.Trade
		err    error
	)

	if symbol := ctx.URLParam("symbol"); symbol != "" {
		trades, err = srv.ListByTicker(ctx.Session().AccountID, symbol)
	} else {
		trades, err = srv.List(ctx.Session().AccountID)
	}

	if err != nil {
		ctx.RespondError(err)
	} else {
		ctx.Respond(trades)
	}
}
