package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/osis-sub000/core"
)

type docgenApi struct {
	deps ServerDeps
}

func registerDocgenAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := docgenApi{deps: deps}

	dg := g.Group("/docs", jwt, boardMiddleware())
	dg.POST("/minutes", api.minutes)
	dg.POST("/letter", api.letter)
	dg.POST("/briefing", api.briefing)
}

func (api *docgenApi) minutes(ctx echo.Context) error {
	var data core.MinutesRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MinutesRequest")
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	doc, err := api.deps.DocGen.MeetingMinutes(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "generating meeting minutes")
	}
	return ctx.JSON(http.StatusOK, DocumentResponse{Document: doc})
}

func (api *docgenApi) letter(ctx echo.Context) error {
	var data core.LetterRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LetterRequest")
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	doc, err := api.deps.DocGen.OfficialLetter(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "generating official letter")
	}
	return ctx.JSON(http.StatusOK, DocumentResponse{Document: doc})
}

func (api *docgenApi) briefing(ctx echo.Context) error {
	var data core.BriefingRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BriefingRequest")
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	doc, err := api.deps.DocGen.DailyBriefing(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "generating daily briefing")
	}
	return ctx.JSON(http.StatusOK, DocumentResponse{Document: doc})
}
