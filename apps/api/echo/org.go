package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/osis-sub000/core/org"
)

type orgApi struct {
	deps ServerDeps
}

func registerOrgAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := orgApi{deps: deps}

	dg := g.Group("/divisions", jwt)
	dg.POST("", api.createDivision, adminMiddleware())
	dg.GET("", api.queryDivisions)
	dg.GET("/:id", api.retrieveDivision)
	dg.PUT("/:id", api.updateDivision, adminMiddleware())
	dg.DELETE("", api.destroyDivisions, adminMiddleware())

	pg := g.Group("/work-programs", jwt)
	pg.POST("", api.createProgram, boardMiddleware())
	pg.GET("", api.queryPrograms)
	pg.GET("/:id", api.retrieveProgram)
	pg.PUT("/:id", api.updateProgram, boardMiddleware())
	pg.DELETE("", api.destroyPrograms, boardMiddleware())
}

func (api *orgApi) createDivision(ctx echo.Context) error {
	var data org.NewDivision
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDivision")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	div, err := api.deps.OrgSvc.CreateDivision(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating division")
	}
	return ctx.JSON(http.StatusCreated, div)
}

func (api *orgApi) queryDivisions(ctx echo.Context) error {
	divs, err := api.deps.OrgSvc.QueryDivisions(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying divisions")
	}
	if divs == nil {
		divs = []org.Division{}
	}
	return ctx.JSON(http.StatusOK, divs)
}

func (api *orgApi) retrieveDivision(ctx echo.Context) error {
	div, err := api.deps.OrgSvc.GetDivision(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding division")
	}
	return ctx.JSON(http.StatusOK, div)
}

func (api *orgApi) updateDivision(ctx echo.Context) error {
	var data org.UpdateDivision
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateDivision")
	}

	orig, err := api.deps.OrgSvc.GetDivision(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding division")
	}
	if err := data.Validate(api.deps.Validate, orig); err != nil {
		return err
	}

	div, err := api.deps.OrgSvc.UpdateDivision(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating division")
	}
	return ctx.JSON(http.StatusOK, div)
}

func (api *orgApi) destroyDivisions(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.deps.OrgSvc.DeleteDivisions(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting divisions")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *orgApi) createProgram(ctx echo.Context) error {
	var data org.NewWorkProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewWorkProgram")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	prog, err := api.deps.OrgSvc.CreateWorkProgram(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating work program")
	}
	return ctx.JSON(http.StatusCreated, prog)
}

func (api *orgApi) queryPrograms(ctx echo.Context) error {
	progs, err := api.deps.OrgSvc.QueryWorkPrograms(ctx.Request().Context(), ctx.QueryParam("division_id"))
	if err != nil {
		return errors.Wrap(err, "querying work programs")
	}
	if progs == nil {
		progs = []org.WorkProgram{}
	}
	return ctx.JSON(http.StatusOK, progs)
}

func (api *orgApi) retrieveProgram(ctx echo.Context) error {
	prog, err := api.deps.OrgSvc.GetWorkProgram(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding work program")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *orgApi) updateProgram(ctx echo.Context) error {
	var data org.UpdateWorkProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateWorkProgram")
	}

	orig, err := api.deps.OrgSvc.GetWorkProgram(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding work program")
	}
	if err := data.Validate(api.deps.Validate, orig); err != nil {
		return err
	}

	prog, err := api.deps.OrgSvc.UpdateWorkProgram(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating work program")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *orgApi) destroyPrograms(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.deps.OrgSvc.DeleteWorkPrograms(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting work programs")
	}
	return ctx.NoContent(http.StatusNoContent)
}
