package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/osis-sub000/core"
	"github.com/osisproject0-hub/osis-sub000/core/content"
	"github.com/osisproject0-hub/osis-sub000/core/election"
	"github.com/osisproject0-hub/osis-sub000/core/finance"
	"github.com/osisproject0-hub/osis-sub000/core/member"
	"github.com/osisproject0-hub/osis-sub000/core/org"
	"github.com/osisproject0-hub/osis-sub000/core/task"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "member not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// httpStatusFor maps domain errors to HTTP status codes. A zero return means
// the error is not a known domain error.
func httpStatusFor(err error) int {
	switch err {
	case member.ErrNotFound, task.ErrNotFound, finance.ErrNotFound,
		org.ErrDivisionNotFound, org.ErrProgramNotFound,
		content.ErrNewsNotFound, content.ErrGalleryNotFound,
		election.ErrCandidateNotFound, election.ErrBallotNotFound:
		return http.StatusNotFound
	case election.ErrAlreadyVoted, election.ErrBallotingClosed,
		task.ErrInvalidTransition, finance.ErrInvalidTransition:
		return http.StatusConflict
	case task.ErrNotAssignee, finance.ErrNotRequester:
		return http.StatusForbidden
	case election.ErrTransientConflict:
		return http.StatusServiceUnavailable
	case member.ErrEmailExists, member.ErrUsernameExists,
		org.ErrDivisionExists, election.ErrVoterRequired:
		return http.StatusBadRequest
	}
	return 0
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)

		if status := httpStatusFor(cause); status != 0 {
			code = status
			message = cause.Error()
		} else {
			switch origErr := cause.(type) {
			case *echo.HTTPError:
				if origErr == middleware.ErrJWTMissing {
					code = http.StatusUnauthorized
					message = origErr.Message
					break
				}
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				message = origErr.Message
			case validator.ValidationErrors:
				fldErrs := make(map[string]string, len(origErr))
				for _, vErr := range origErr {
					fldErrs[vErr.Field()] = vErr.Translate(translator)
				}
				code = http.StatusBadRequest
				message = fldErrs
			case *core.ValidationError:
				if origErr.Fields != nil {
					fldErrs := make(map[string]string, len(origErr.Fields))
					for _, fErr := range origErr.Fields {
						fldErrs[fErr.Field] = fErr.Error
					}
					message = fldErrs
				} else {
					message = origErr.Error()
				}
				code = http.StatusBadRequest
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				var mbr member.Member
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					mbr.ID = claims.Subject
					mbr.Username = claims.Username
					mbr.Email = claims.Email
				}
				logger.Error(msg, errors.Wrap(err, msg), mbr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
