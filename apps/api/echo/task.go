package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/osis-sub000/core/task"
)

type taskApi struct {
	deps ServerDeps
}

func registerTaskAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := taskApi{deps: deps}

	tg := g.Group("/tasks", jwt)
	tg.POST("", api.create, boardMiddleware())
	tg.GET("", api.query)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update, boardMiddleware())
	tg.POST("/:id/status", api.changeStatus)
	tg.DELETE("", api.destroyMultiple, boardMiddleware())
}

func (api *taskApi) create(ctx echo.Context) error {
	var data task.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	tsk, err := api.deps.TaskSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, tsk)
}

func (api *taskApi) query(ctx echo.Context) error {
	filter := new(task.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []task.Task{})
	}

	var ord Ordering
	ord.Bind(ctx)
	filter.Ordering = ord.Orderings

	tasks, err := api.deps.TaskSvc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskApi) retrieve(ctx echo.Context) error {
	tsk, err := api.deps.TaskSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding task")
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskApi) update(ctx echo.Context) error {
	var data task.UpdateTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTask")
	}

	orig, err := api.deps.TaskSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding task")
	}
	if err := data.Validate(api.deps.Validate, orig); err != nil {
		return err
	}

	tsk, err := api.deps.TaskSvc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating task")
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskApi) changeStatus(ctx echo.Context) error {
	var data StatusChangeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusChangeRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	tsk, err := api.deps.TaskSvc.ChangeStatus(
		ctx.Request().Context(),
		ctx.Param("id"),
		data.Status,
		claims.Subject,
		claims.IsBoard || claims.IsAdmin,
	)
	if err != nil {
		return errors.Wrap(err, "changing task status")
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.deps.TaskSvc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting tasks")
	}
	return ctx.NoContent(http.StatusNoContent)
}
