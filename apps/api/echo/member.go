package echoapi

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/osis-sub000/core"
	"github.com/osisproject0-hub/osis-sub000/core/member"
)

var (
	errMbrNotFoundInCtx  = errors.New("member object not found in echo.Context")
	errNoPermsToSetRoles = "not enough rights to set these roles"
)

type memberApi struct {
	deps ServerDeps
}

func registerMemberAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := memberApi{deps: deps}

	mg := g.Group("/members")

	// un-authed endpoints
	mg.POST("/login", api.login)
	mg.POST("/password-reset", api.resetPassword)
	mg.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	ag := mg.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)
	ag.POST("/register", api.create, adminMiddleware())
	ag.GET("", api.query, boardMiddleware())
	ag.DELETE("", api.destroyMultiple, adminMiddleware())
	ag.GET("/roles", api.queryRoles, adminMiddleware())

	// detail endpoints
	dg := ag.Group("/:id", ctxMemberOrAdminMiddleware(deps.MemberSvc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy, adminMiddleware())
}

// Handlers

func (api *memberApi) create(ctx echo.Context) error {
	var data member.NewMember
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMember")
	}
	if err := data.Validate(api.deps.Validate, api.deps.MemberSvc); err != nil {
		return err
	}

	// ctxMember cannot set a role > their own max role
	ctxMbr, err := getContextMember(ctx, api.deps.MemberSvc)
	if err != nil {
		return errors.Wrap(err, "getting context member")
	}
	if member.MaxRolePriority(data.Roles) > member.MaxRolePriority(ctxMbr.Roles) {
		return core.NewValidationError(nil, core.FieldError{Field: "roles", Error: errNoPermsToSetRoles})
	}

	mbr, err := api.deps.MemberSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating member")
	}

	return ctx.JSON(http.StatusCreated, mbr)
}

func (api *memberApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := authenticate(ctx, data.Username, data.Password, api.deps.MemberSvc)
	if err != nil {
		if errors.Cause(err) == member.ErrNotFound {
			return core.NewValidationError(errors.New("invalid credentials"))
		}
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *memberApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	if err := api.deps.MemberSvc.RequestPasswordReset(ctx.Request().Context(), data.Email); !(err == nil || errors.Cause(err) == member.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *memberApi) confirmPasswordReset(ctx echo.Context) error {
	var data member.ResetMemberPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetMemberPassword")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	if err := api.deps.MemberSvc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

func (api *memberApi) query(ctx echo.Context) error {
	filter := new(member.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []member.Member{})
	}
	filter.Clean()

	var ord Ordering
	ord.Bind(ctx)
	filter.Ordering = ord.Orderings

	members, err := api.deps.MemberSvc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying members")
	}
	if members == nil {
		members = []member.Member{}
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *memberApi) retrieve(ctx echo.Context) error {
	mbr, ok := ctx.Get("object").(member.Member)
	if !ok {
		return errors.Wrap(errMbrNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, mbr)
}

func (api *memberApi) update(ctx echo.Context) error {
	mbr, ok := ctx.Get("object").(member.Member)
	if !ok {
		return errors.Wrap(errMbrNotFoundInCtx, "retrieving object from context")
	}

	var data member.UpdateMember
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMember")
	}

	ctxMbr, err := getContextMember(ctx, api.deps.MemberSvc)
	if err != nil {
		return errors.Wrap(err, "getting context member")
	}
	if !ctxMbr.IsAdmin() {
		// `IsActive`, `Roles` and `Division` can only be changed by admin
		// `Username` and `Email` can only be changed by admin for now
		if data.IsActive != nil || data.Roles != nil || data.Division != "" || data.Username != "" || data.Email != "" {
			return errHttpForbidden
		}
	}
	if err := data.Validate(api.deps.Validate, api.deps.MemberSvc, mbr); err != nil {
		return err
	}

	// ctxMember cannot set a role > their own max role
	if member.MaxRolePriority(data.Roles) > member.MaxRolePriority(ctxMbr.Roles) {
		return core.NewValidationError(nil, core.FieldError{Field: "roles", Error: errNoPermsToSetRoles})
	}

	mbr, err = api.deps.MemberSvc.Update(ctx.Request().Context(), mbr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating member")
	}

	return ctx.JSON(http.StatusOK, mbr)
}

func (api *memberApi) destroy(ctx echo.Context) error {
	mbr, ok := ctx.Get("object").(member.Member)
	if !ok {
		return errors.Wrap(errMbrNotFoundInCtx, "retrieving object from context")
	}

	// ctxMember cannot delete themselves
	ctxMbr, err := getContextMember(ctx, api.deps.MemberSvc)
	if err != nil {
		return errors.Wrap(err, "getting context member")
	}
	if mbr.ID == ctxMbr.ID {
		return errHttpForbidden
	}

	if err := api.deps.MemberSvc.Delete(ctx.Request().Context(), mbr.ID); err != nil {
		return errors.Wrap(err, "deleting member")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *memberApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	// ctxMember cannot delete themselves
	ctxMbr, err := getContextMember(ctx, api.deps.MemberSvc)
	if err != nil {
		return errors.Wrap(err, "getting context member")
	}
	sort.Strings(query.IDs)
	if i := sort.SearchStrings(query.IDs, ctxMbr.ID); i < len(query.IDs) {
		if match := query.IDs[i]; ctxMbr.ID == match {
			return errHttpForbidden
		}
	}

	if err := api.deps.MemberSvc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting members")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *memberApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, member.Roles)
}

func (api *memberApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.deps.MemberSvc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func ctxMemberOrAdminMiddleware(svc *member.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxMbr, err := getContextMember(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context member")
			}

			if ctx.Param("id") == ctxMbr.ID || ctxMbr.IsAdmin() {
				if mbr, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err == nil {
					ctx.Set("object", mbr)
					return next(ctx)
				} else if errors.Cause(err) != member.ErrNotFound {
					return errors.Wrap(err, "finding member by ID")
				}
			}
			return errHttpNotFound
		}
	}
}
