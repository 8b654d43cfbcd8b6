package trading

import (
	"github.com/paperstreet/paperbroker/rest/api"
	"github.com/paperstreet/paperbroker/rest/api/controller/parameter"
)

func Buy(ctx api.Context) {
	req, err := parameter.ReadOrder(ctx)
	if err != nil {
		ctx.RespondError(err)
		return
	}

	srv := ctx.Services().Trading().WithTx(ctx.Tx())

	t, err := srv.Buy(ctx.Session().AccountID, req.Symbol, req.Volume)

	if err != nil {
		ctx.RespondError(err)
	} else {
		ctx.RespondWithStatus(t, 201)
	}
}

// Holdings lists every account's open positions valued at the current
// quote. Admin only.
func Holdings(ctx api.Context) {
	srv := ctx.Services().Trading().WithTx(ctx.Tx())

	holdings, err := srv.Holdings()

	if err != nil {
		ctx.RespondError(err)
	} else {
		ctx.Respond(holdings)
	}
}

func Sell(ctx api.Context) {
	req, err := parameter.ReadOrder(ctx)
	if err != nil {
		ctx.RespondError(err)
		return
	}

	srv := ctx.Services().Trading().WithTx(ctx.Tx())

	t, err := srv.Sell(ctx.Session().AccountID, req.Symbol, req.Volume)

	if err != nil {
		ctx.RespondError(err)
	} else {
		ctx.RespondWithStatus(t, 201)
	}
}
