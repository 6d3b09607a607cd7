package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/osis-sub000/core"
	"github.com/osisproject0-hub/osis-sub000/core/finance"
	"github.com/osisproject0-hub/osis-sub000/core/member"
)

type financeApi struct {
	deps ServerDeps
}

func registerFinanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := financeApi{deps: deps}

	fg := g.Group("/finance", jwt)

	rg := fg.Group("/requests")
	rg.POST("", api.createRequest)
	rg.GET("", api.queryRequests, boardMiddleware())
	rg.GET("/:id", api.retrieveRequest)
	rg.POST("/:id/submit", api.submitRequest)
	rg.POST("/:id/decide", api.decideRequest, adminMiddleware(member.RoleAdminTreasurer))
	rg.POST("/:id/disburse", api.disburseRequest, adminMiddleware(member.RoleAdminTreasurer))

	fg.POST("/ledger", api.recordEntry, adminMiddleware(member.RoleAdminTreasurer))
	fg.GET("/report", api.report, boardMiddleware())
}

func (api *financeApi) createRequest(ctx echo.Context) error {
	var data finance.NewFundRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFundRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	req, err := api.deps.FinanceSvc.CreateRequest(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating fund request")
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *financeApi) queryRequests(ctx echo.Context) error {
	reqs, err := api.deps.FinanceSvc.QueryRequests(ctx.Request().Context(), ctx.QueryParam("division_id"))
	if err != nil {
		return errors.Wrap(err, "querying fund requests")
	}
	if reqs == nil {
		reqs = []finance.FundRequest{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *financeApi) retrieveRequest(ctx echo.Context) error {
	req, err := api.deps.FinanceSvc.GetRequest(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding fund request")
	}

	// requesters see their own; board and admin see all
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if req.RequesterID != claims.Subject && !(claims.IsBoard || claims.IsAdmin) {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *financeApi) submitRequest(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	req, err := api.deps.FinanceSvc.Submit(ctx.Request().Context(), ctx.Param("id"), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "submitting fund request")
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *financeApi) decideRequest(ctx echo.Context) error {
	var data finance.Decision
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Decision")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	req, err := api.deps.FinanceSvc.Decide(ctx.Request().Context(), ctx.Param("id"), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "deciding fund request")
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *financeApi) disburseRequest(ctx echo.Context) error {
	req, err := api.deps.FinanceSvc.Disburse(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "disbursing fund request")
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *financeApi) recordEntry(ctx echo.Context) error {
	var data finance.NewLedgerEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLedgerEntry")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	entry, err := api.deps.FinanceSvc.RecordEntry(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording ledger entry")
	}
	return ctx.JSON(http.StatusCreated, entry)
}

func (api *financeApi) report(ctx echo.Context) error {
	from, err := parseDateParam(ctx.QueryParam("from"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "from", Error: "invalid date, expected YYYY-MM-DD"})
	}
	to, err := parseDateParam(ctx.QueryParam("to"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "to", Error: "invalid date, expected YYYY-MM-DD"})
	}

	report, err := api.deps.FinanceSvc.Report(ctx.Request().Context(), from, to)
	if err != nil {
		return errors.Wrap(err, "building financial report")
	}
	return ctx.JSON(http.StatusOK, report)
}

func parseDateParam(val string) (time.Time, error) {
	if val == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", val)
}
