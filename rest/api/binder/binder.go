package binder

import (
	"github.com/iris-contrib/middleware/cors"
	"github.com/kataras/iris"

	"github.com/paperstreet/paperbroker/rest/api"
	"github.com/paperstreet/paperbroker/rest/api/controller/account"
	"github.com/paperstreet/paperbroker/rest/api/controller/position"
	"github.com/paperstreet/paperbroker/rest/api/controller/quote"
	"github.com/paperstreet/paperbroker/rest/api/controller/trade"
	"github.com/paperstreet/paperbroker/rest/api/controller/trading"
	"github.com/paperstreet/paperbroker/rest/api/middleware/httplogger"
	"github.com/paperstreet/paperbroker/utils"
)

// V1 binds the brokerage API handlers to their endpoints.
func V1(api *api.API, r iris.Party) {
	r.Use(httplogger.New())

	// CORS
	{
		getOrigins := func() []string {
			if utils.Prod() {
				return []string{"https://app.paperstreet.io"}
			}
			return []string{"*"}
		}

		crs := cors.New(cors.Options{
			AllowedOrigins: getOrigins(),
			AllowedMethods: []string{
				iris.MethodGet,
				iris.MethodPost,
				iris.MethodPatch,
				iris.MethodDelete,
				iris.MethodOptions,
			},
			AllowedHeaders:     []string{"*"},
			AllowCredentials:   true,
			OptionsPassthrough: false,
		})

		r.Use(crs)
		r.AllowMethods(iris.MethodOptions) // <- important for the preflight.
	}

	// registration & login
	r.Post("/accounts", api.NoAuth(account.Create))
	r.Post("/login", api.NoAuth(account.Login))

	// account & cash
	r.Get("/account", api.Authenticate(account.Get))
	r.Post("/account/deposit", api.Authenticate(account.Deposit))

	// holdings & history
	r.Get("/positions", api.Authenticate(position.List))
	r.Get("/trades", api.Authenticate(trade.List))

	// quotes & orders
	r.Get("/quotes/{symbol}", api.Authenticate(quote.Get))
	r.Post("/buy", api.Authenticate(trading.Buy))
	r.Post("/sell", api.Authenticate(trading.Sell))

	// admin
	r.Get("/accounts", api.AuthenticateAdmin(account.List))
	r.Get("/holdings", api.AuthenticateAdmin(trading.Holdings))
	r.Patch("/accounts/{account_id}/admin", api.AuthenticateAdmin(account.SetAdmin))
}
