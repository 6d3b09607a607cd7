package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/osisproject0-hub/osis-sub000/core"
	"github.com/osisproject0-hub/osis-sub000/core/content"
	"github.com/osisproject0-hub/osis-sub000/core/election"
	"github.com/osisproject0-hub/osis-sub000/core/finance"
	"github.com/osisproject0-hub/osis-sub000/core/member"
	"github.com/osisproject0-hub/osis-sub000/core/org"
	"github.com/osisproject0-hub/osis-sub000/core/task"
)

type (
	ServerDeps struct {
		Conf        *core.Config
		Logger      core.Logger
		MemberSvc   *member.Service
		OrgSvc      *org.Service
		TaskSvc     *task.Service
		FinanceSvc  *finance.Service
		ContentSvc  *content.Service
		ElectionSvc *election.Service
		DocGen      core.DocumentGenerator
		Validate    *validator.Validate
		Translator  ut.Translator

		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps  ServerDeps
		app   *echo.Echo
		errCh chan error
		sigCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	initAuth(deps.Conf)

	s := &server{
		deps:  deps,
		app:   echo.New(),
		errCh: make(chan error, 1),
		sigCh: make(chan os.Signal, 1),
	}
	signal.Notify(s.sigCh, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerMemberAPI(v1, jwt, s.deps)
	registerOrgAPI(v1, jwt, s.deps)
	registerTaskAPI(v1, jwt, s.deps)
	registerFinanceAPI(v1, jwt, s.deps)
	registerContentAPI(v1, jwt, s.deps)
	registerElectionAPI(v1, jwt, s.deps)
	registerDocgenAPI(v1, jwt, s.deps)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.errCh <- err
	}
}

func (s *server) Errors() <-chan error { return s.errCh }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.sigCh }

// signalShutdown lets the error handler request a graceful stop when an
// unrecoverable integrity error is caught.
func (s *server) signalShutdown() {
	s.sigCh <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Osiris API!")
}
