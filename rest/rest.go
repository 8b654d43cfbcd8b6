// Package rest defines paperbroker's RESTful API service
package rest

import (
	"context"

	"github.com/kataras/iris"

	"github.com/paperstreet/paperbroker/rest/api"
	"github.com/paperstreet/paperbroker/rest/api/binder"
	"github.com/paperstreet/paperbroker/service/registry"
	"github.com/paperstreet/paperbroker/utils"
)

var app *iris.Application

func Start(port string, services registry.Registry) error {
	return run((":" + port), services)
}

func Shutdown(ctx context.Context) error {
	if app != nil {
		return app.Shutdown(ctx)
	}
	return nil
}

func bindAPI(apis *api.API, bind func(*api.API, iris.Party)) func(iris.Party) {
	return func(r iris.Party) {
		bind(apis, r)
	}
}

func run(host string, services registry.Registry) error {
	app = iris.New()

	apis := api.New(api.NewAuthenticator(), services)

	// brokerage API (v1)
	app.PartyFunc("/api/v1", bindAPI(apis, binder.V1))

	// heartbeat
	app.HandleMany("GET HEAD", "/paperbroker/heartbeat", func(ctx iris.Context) {
		ctx.StatusCode(iris.StatusOK)
		ctx.JSON(struct {
			Status  string `json:"status"`
			Version string `json:"version"`
		}{
			"alive", utils.Version,
		})
	})

	return app.Run(
		iris.Addr(host),
		iris.WithConfiguration(iris.Configuration{
			// Disable it to re-fetch request body again for logging purpose.
			DisableBodyConsumptionOnUnmarshal: true,
			RemoteAddrHeaders: map[string]bool{
				"X-Forwarded-For": true,
			},
		}),
		iris.WithoutInterruptHandler,
	)
}
