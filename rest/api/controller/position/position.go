package position

import (
	"github.com/paperstreet/paperbroker/rest/api"
)

func List(ctx api.Context) {
	srv := ctx.Services().Position().WithTx(ctx.Tx())

	positions, err := srv.List(ctx.Session().AccountID)

	if err != nil {
		ctx.RespondError(err)
	} else {
		ctx.Respond(positions)
	}
}
