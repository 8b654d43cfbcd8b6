package api

import (
	"bytes"
	"sync/atomic"

	"github.com/jinzhu/gorm"
	"github.com/kataras/iris"
	irisCtx "github.com/kataras/iris/context"
	"github.com/vmihailenco/msgpack"

	"github.com/paperstreet/paperbroker/db"
	"github.com/paperstreet/paperbroker/log"
	"github.com/paperstreet/paperbroker/pberrors"
	"github.com/paperstreet/paperbroker/service/registry"
	"github.com/paperstreet/paperbroker/utils"
)

// MIME types
const (
	charsetUTF8 = "charset=utf-8"
)
const (
	MIMEApplicationJSON            = "application/json"
	MIMEApplicationJSONCharsetUTF8 = MIMEApplicationJSON + "; " + charsetUTF8
	MIMEApplicationMsgpack         = "application/msgpack"
)

type Session struct {
	AccountID uint
	Admin     bool
}

func (s *Session) Authorized(accountID uint) bool {
	return s.AccountID == accountID
}

type Context interface {
	iris.Context
	Authorize(accountID uint, admin bool)
	Session() *Session
	Services() registry.Registry
	Commit() error
	Rollback()
	Tx() *gorm.DB
	Respond(interface{})
	RespondWithStatus(interface{}, int)
	RespondError(error)
	Read(interface{}) error
	FormatResponse(interface{})
}

type context struct {
	iris.Context
	session  *Session
	services registry.Registry
	tx       *gorm.DB
	txClosed atomic.Value
}

func (ctx *context) Authorize(accountID uint, admin bool) {
	ctx.session = &Session{
		AccountID: accountID,
		Admin:     admin,
	}
}

func (ctx *context) Services() registry.Registry {
	return ctx.services
}

func (ctx *context) Session() *Session {
	return ctx.session
}

func (ctx *context) Commit() error {
	if !ctx.TxClosed() && ctx.tx != nil {
		ctx.txClosed.Store(true)
		log.Debug("api tx committed", "path", ctx.RequestPath(false))
		err := ctx.tx.Commit().Error
		ctx.tx = nil
		return err
	}
	return nil
}

func (ctx *context) Rollback() {
	if !ctx.TxClosed() && ctx.tx != nil {
		ctx.txClosed.Store(true)
		log.Debug("api tx rolled back", "path", ctx.RequestPath(false))
		ctx.tx.Rollback()
		ctx.tx = nil
	}
}

func (ctx *context) TxClosed() bool {
	if v := ctx.txClosed.Load(); v != nil && v.(bool) {
		return true
	}
	return false
}

// Tx returns the transaction scoped to this request, opening it on
// first use. Every service call in a request shares it, so a buy's
// position write and trade append commit or roll back together.
func (ctx *context) Tx() *gorm.DB {
	if ctx.tx == nil || ctx.TxClosed() {
		log.Debug("api tx opened", "path", ctx.RequestPath(false))
		ctx.tx = db.Begin()

		if ctx.tx.Error != nil {
			err := ctx.tx.Error
			ctx.tx = nil
			log.Panic("unrecoverable BEGIN failure", "error", err)
		}
		ctx.txClosed.Store(false)
	}

	return ctx.tx
}

func (ctx *context) Respond(body interface{}) {
	ctx.RespondWithStatus(body, iris.StatusOK)
}

func (ctx *context) RespondWithStatus(body interface{}, statusCode int) {
	if err := ctx.Commit(); err != nil {
		ctx.RespondError(pberrors.InternalServerError.WithError(err))
		return
	}

	ctx.StatusCode(statusCode)

	if body != nil {
		ctx.FormatResponse(body)
	}
}

func (ctx *context) RespondError(err error) {
	ctx.Rollback()

	if pberr, ok := err.(pberrors.IException); ok {
		ctx.StatusCode(pberr.ExceptionStatusCode())
		body := pberr.ExceptionBody()
		if !utils.Prod() {
			if pberr.RawException() != nil {
				body["debug"] = pberr.RawException().Error()
			}
		}
		ctx.FormatResponse(body)
	} else {
		ctx.StatusCode(pberrors.InternalServerError.ExceptionStatusCode())
		ctx.FormatResponse(pberrors.InternalServerError.ExceptionBody())
	}

	if ctx.GetStatusCode() != iris.StatusInternalServerError {
		return
	}

	log.Error(
		"http exception",
		"method", ctx.Request().Method,
		"url", ctx.Request().URL.String(),
		"error", pberrors.Format(err),
	)
}

func (ctx *context) Read(v interface{}) error {
	contentType := ctx.Request().Header.Get("Content-Type")
	var err error

	if v != nil {
		switch contentType {
		case MIMEApplicationMsgpack:
			err = ctx.UnmarshalBody(v, irisCtx.UnmarshalerFunc(func(data []byte, outPtr interface{}) error {
				dec := msgpack.NewDecoder(bytes.NewReader(data))
				dec.UseJSONTag(true)
				return dec.Decode(&outPtr)
			}))
		default:
			err = ctx.ReadJSON(v)
		}
	}

	return err
}

// FormatResponse formats a response based on the request Content-Type header
func (ctx *context) FormatResponse(body interface{}) {
	contentType := ctx.Request().Header.Get("Content-Type")

	if body == nil {
		return
	}

	switch contentType {
	case MIMEApplicationMsgpack:
		ctx.ContentType(contentType)
		var b bytes.Buffer
		enc := msgpack.NewEncoder(&b)
		enc.UseJSONTag(true)
		if err := enc.Encode(body); err != nil {
			log.Panic("failed to marshal response body (msgpack)", "error", err)
		}
		if _, err := ctx.Write(b.Bytes()); err != nil {
			log.Panic("failed to write response body (msgpack)", "error", err)
		}
	default:
		ctx.ContentType(MIMEApplicationJSON)
		ctx.JSON(body)
	}
}
