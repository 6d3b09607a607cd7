package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/osis-sub000/core/election"
)

type electionApi struct {
	deps ServerDeps
}

func registerElectionAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := electionApi{deps: deps}

	eg := g.Group("/election")

	// public endpoints
	eg.GET("/candidates", api.queryCandidates)
	eg.GET("/candidates/:id", api.retrieveCandidate)
	eg.GET("/control", api.retrieveControl)

	// results stays public once balloting closes, but an admin may watch the
	// live tally; parse the token when one is supplied
	optJWTConfig := appJWTConfig
	optJWTConfig.Skipper = func(ctx echo.Context) bool {
		return ctx.Request().Header.Get(echo.HeaderAuthorization) == ""
	}
	eg.GET("/results", api.results, middleware.JWTWithConfig(optJWTConfig))

	// authed endpoints
	ag := eg.Group("", jwt)
	ag.POST("/candidates", api.createCandidate, adminMiddleware())
	ag.PUT("/candidates/:id", api.updateCandidate, adminMiddleware())
	ag.DELETE("/candidates", api.destroyCandidates, adminMiddleware())
	ag.PUT("/control", api.updateControl, adminMiddleware())
	ag.POST("/vote", api.vote)
	ag.GET("/vote", api.voteStatus)
}

func (api *electionApi) createCandidate(ctx echo.Context) error {
	var data election.NewCandidate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCandidate")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	cand, err := api.deps.ElectionSvc.CreateCandidate(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating candidate")
	}
	return ctx.JSON(http.StatusCreated, cand)
}

func (api *electionApi) queryCandidates(ctx echo.Context) error {
	candidates, err := api.deps.ElectionSvc.QueryCandidates(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying candidates")
	}
	if candidates == nil {
		candidates = []election.Candidate{}
	}
	return ctx.JSON(http.StatusOK, candidates)
}

func (api *electionApi) retrieveCandidate(ctx echo.Context) error {
	cand, err := api.deps.ElectionSvc.GetCandidate(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding candidate")
	}
	return ctx.JSON(http.StatusOK, cand)
}

func (api *electionApi) updateCandidate(ctx echo.Context) error {
	var data election.UpdateCandidate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCandidate")
	}

	orig, err := api.deps.ElectionSvc.GetCandidate(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding candidate")
	}
	if err := data.Validate(api.deps.Validate, orig); err != nil {
		return err
	}

	cand, err := api.deps.ElectionSvc.UpdateCandidate(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating candidate")
	}
	return ctx.JSON(http.StatusOK, cand)
}

func (api *electionApi) destroyCandidates(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.deps.ElectionSvc.DeleteCandidates(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting candidates")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *electionApi) retrieveControl(ctx echo.Context) error {
	ctl, err := api.deps.ElectionSvc.GetControl(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "finding election control")
	}
	return ctx.JSON(http.StatusOK, ctl)
}

func (api *electionApi) updateControl(ctx echo.Context) error {
	var data election.UpdateControl
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateControl")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ctl, err := api.deps.ElectionSvc.SetControl(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "updating election control")
	}
	return ctx.JSON(http.StatusOK, ctl)
}

// vote casts the authenticated member's ballot. The voter identity always
// comes from the token, never from the request body.
func (api *electionApi) vote(ctx echo.Context) error {
	var data VoteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VoteRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.deps.ElectionSvc.Cast(ctx.Request().Context(), claims.Subject, data.CandidateID); err != nil {
		return errors.Wrap(err, "casting ballot")
	}
	return ctx.JSON(http.StatusCreated, SuccessResponse{Success: "Your vote has been recorded."})
}

func (api *electionApi) voteStatus(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	voted, err := api.deps.ElectionSvc.HasVoted(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "checking vote status")
	}
	return ctx.JSON(http.StatusOK, VoteStatusResponse{HasVoted: voted})
}

// results is public once balloting has closed; while it is open only admins
// may watch the live tally.
func (api *electionApi) results(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	ctl, err := api.deps.ElectionSvc.GetControl(reqCtx)
	if err != nil {
		return errors.Wrap(err, "finding election control")
	}
	if ctl.IsOpen {
		if claims, cErr := getContextClaims(ctx); cErr != nil || !claims.IsAdmin {
			return errHttpForbidden
		}
	}

	results, err := api.deps.ElectionSvc.Results(reqCtx)
	if err != nil {
		return errors.Wrap(err, "computing results")
	}
	return ctx.JSON(http.StatusOK, results)
}
