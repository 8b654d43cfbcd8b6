package quote

import (
	"github.com/paperstreet/paperbroker/rest/api"
	"github.com/paperstreet/paperbroker/rest/api/controller/parameter"
)

type quoteResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

func Get(ctx api.Context) {
	symbol, err := parameter.GetSymbol(ctx)
	if err != nil {
		ctx.RespondError(err)
		return
	}

	srv := ctx.Services().Trading().WithTx(ctx.Tx())

	price, err := srv.Quote(symbol)

	if err != nil {
		ctx.RespondError(err)
	} else {
		ctx.Respond(quoteResponse{Symbol: symbol, Price: price.String()})
	}
}
