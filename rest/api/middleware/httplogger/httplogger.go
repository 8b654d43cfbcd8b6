package httplogger

import (
	"io/ioutil"
	"time"

	"github.com/buger/jsonparser"
	"github.com/kataras/iris"
	"github.com/kataras/iris/context"

	"github.com/paperstreet/paperbroker/log"
)

func New() iris.Handler {
	h := &HTTPLogger{}
	return h.ServeHTTP
}

type HTTPLogger struct{}

var masks = []string{
	"password",
}

func (h *HTTPLogger) ServeHTTP(ctx context.Context) {
	start := time.Now()
	ctx.Next()
	elapsed := time.Since(start)

	var body []byte

	// mask the sensitive fields
	if body, _ = ioutil.ReadAll(ctx.Request().Body); len(body) > 0 {
		for _, mask := range masks {
			if _, _, _, err := jsonparser.Get(body, mask); err == nil {
				body, _ = jsonparser.Set(body, []byte(`"xxx"`), mask)
			}
		}
	}

	log.Info(
		"http request",
		"elapsed", elapsed.Seconds(),
		"status_code", ctx.GetStatusCode(),
		"ip", ctx.RemoteAddr(),
		"method", ctx.Method(),
		"path", ctx.Path(),
		"query", ctx.Request().URL.RawQuery,
		"acc_id", ctx.Values().GetString("account_id"),
		"body", string(body),
	)
}
