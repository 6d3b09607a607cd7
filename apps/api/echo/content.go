package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/osis-sub000/core/content"
)

type contentApi struct {
	deps ServerDeps
}

func registerContentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := contentApi{deps: deps}

	// public endpoints
	g.GET("/news", api.queryPublishedNews)
	g.GET("/news/:id", api.retrieveNews)
	g.GET("/gallery", api.queryGallery)

	ng := g.Group("/news", jwt)
	ng.POST("", api.createNews, boardMiddleware())
	ng.GET("/drafts", api.queryAllNews, boardMiddleware())
	ng.PUT("/:id", api.updateNews, boardMiddleware())
	ng.POST("/:id/publish", api.publishNews, boardMiddleware())
	ng.POST("/:id/unpublish", api.unpublishNews, boardMiddleware())
	ng.DELETE("", api.destroyNews, boardMiddleware())

	gg := g.Group("/gallery", jwt)
	gg.POST("", api.addGalleryItem, boardMiddleware())
	gg.DELETE("", api.destroyGalleryItems, boardMiddleware())
}

func (api *contentApi) createNews(ctx echo.Context) error {
	var data content.NewNews
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNews")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	post, err := api.deps.ContentSvc.CreateNews(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating news post")
	}
	return ctx.JSON(http.StatusCreated, post)
}

func (api *contentApi) queryPublishedNews(ctx echo.Context) error {
	posts, err := api.deps.ContentSvc.QueryNews(ctx.Request().Context(), true)
	if err != nil {
		return errors.Wrap(err, "querying news")
	}
	if posts == nil {
		posts = []content.News{}
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *contentApi) queryAllNews(ctx echo.Context) error {
	posts, err := api.deps.ContentSvc.QueryNews(ctx.Request().Context(), false)
	if err != nil {
		return errors.Wrap(err, "querying news")
	}
	if posts == nil {
		posts = []content.News{}
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *contentApi) retrieveNews(ctx echo.Context) error {
	post, err := api.deps.ContentSvc.GetNews(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding news post")
	}
	if !post.Published {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, post)
}

func (api *contentApi) updateNews(ctx echo.Context) error {
	var data content.UpdateNews
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateNews")
	}

	orig, err := api.deps.ContentSvc.GetNews(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding news post")
	}
	if err := data.Validate(api.deps.Validate, orig); err != nil {
		return err
	}

	post, err := api.deps.ContentSvc.UpdateNews(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating news post")
	}
	return ctx.JSON(http.StatusOK, post)
}

func (api *contentApi) publishNews(ctx echo.Context) error {
	post, err := api.deps.ContentSvc.SetPublished(ctx.Request().Context(), ctx.Param("id"), true)
	if err != nil {
		return errors.Wrap(err, "publishing news post")
	}
	return ctx.JSON(http.StatusOK, post)
}

func (api *contentApi) unpublishNews(ctx echo.Context) error {
	post, err := api.deps.ContentSvc.SetPublished(ctx.Request().Context(), ctx.Param("id"), false)
	if err != nil {
		return errors.Wrap(err, "unpublishing news post")
	}
	return ctx.JSON(http.StatusOK, post)
}

func (api *contentApi) destroyNews(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.deps.ContentSvc.DeleteNews(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting news posts")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *contentApi) addGalleryItem(ctx echo.Context) error {
	var data content.NewGalleryItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGalleryItem")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	item, err := api.deps.ContentSvc.AddGalleryItem(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding gallery item")
	}
	return ctx.JSON(http.StatusCreated, item)
}

func (api *contentApi) queryGallery(ctx echo.Context) error {
	items, err := api.deps.ContentSvc.QueryGallery(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying gallery")
	}
	if items == nil {
		items = []content.GalleryItem{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *contentApi) destroyGalleryItems(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.deps.ContentSvc.DeleteGalleryItems(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting gallery items")
	}
	return ctx.NoContent(http.StatusNoContent)
}
