package account

import (
	"github.com/shopspring/decimal"

	"github.com/paperstreet/paperbroker/pberrors"
	"github.com/paperstreet/paperbroker/rest/api"
	"github.com/paperstreet/paperbroker/rest/api/controller/parameter"
	"github.com/paperstreet/paperbroker/service/account"
)

func Create(ctx api.Context) {
	req := &account.RegisterRequest{}
	if err := ctx.Read(req); err != nil {
		ctx.RespondError(pberrors.RequestBodyLoadFailure.WithError(err))
		return
	}

	srv := ctx.Services().Account().WithTx(ctx.Tx())

	acct, err := srv.Create(req)

	if err != nil {
		ctx.RespondError(err)
	} else {
		ctx.RespondWithStatus(acct, 201)
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Account uint   `json:"account_id"`
}

func Login(ctx api.Context) {
	req := &loginRequest{}
	if err := ctx.Read(req); err != nil {
		ctx.RespondError(pberrors.RequestBodyLoadFailure.WithError(err))
		return
	}

	srv := ctx.Services().Account().WithTx(ctx.Tx())

	acct, err := srv.Authenticate(req.Username, req.Password)
	if err != nil {
		ctx.RespondError(err)
		return
	}

	token, err := api.IssueToken(acct)
	if err != nil {
		ctx.RespondError(pberrors.InternalServerError.WithError(err))
		return
	}

	ctx.Respond(loginResponse{Token: token, Account: acct.ID})
}

func Get(ctx api.Context) {
	srv := ctx.Services().Account().WithTx(ctx.Tx())

	acct, err := srv.GetByID(ctx.Session().AccountID)

	if err != nil {
		ctx.RespondError(err)
	} else {
		ctx.Respond(acct)
	}
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func Deposit(ctx api.Context) {
	req := &depositRequest{}
	if err := ctx.Read(req); err != nil {
		ctx.RespondError(pberrors.RequestBodyLoadFailure.WithError(err))
		return
	}

	srv := ctx.Services().Account().WithTx(ctx.Tx())

	acct, err := srv.Deposit(ctx.Session().AccountID, req.Amount)

	if err != nil {
		ctx.RespondError(err)
	} else {
		ctx.Respond(acct)
	}
}

func List(ctx api.Context) {
	srv := ctx.Services().Account().WithTx(ctx.Tx())

	accts, err := srv.List()

	if err != nil {
		ctx.RespondError(err)
	} else {
		ctx.Respond(accts)
	}
}

type adminRequest struct {
	Admin bool `json:"admin"`
}

func SetAdmin(ctx api.Context) {
	accountID, err := parameter.GetParamAccountID(ctx)
	if err != nil {
		ctx.RespondError(err)
		return
	}

	req := &adminRequest{}
	if err := ctx.Read(req); err != nil {
		ctx.RespondError(pberrors.RequestBodyLoadFailure.WithError(err))
		return
	}

	srv := ctx.Services().Account().WithTx(ctx.Tx())

	acct, err := srv.SetAdmin(accountID, req.Admin)

	if err != nil {
		ctx.RespondError(err)
	} else {
		ctx.Respond(acct)
	}
}
