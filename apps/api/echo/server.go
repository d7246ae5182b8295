package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/edutrack/backend/core"
	"github.com/edutrack/backend/core/academic"
	"github.com/edutrack/backend/core/assignment"
	"github.com/edutrack/backend/core/course"
	"github.com/edutrack/backend/core/institution"
	"github.com/edutrack/backend/core/payment"
	"github.com/edutrack/backend/core/profile"
	"github.com/edutrack/backend/core/section"
	"github.com/edutrack/backend/core/user"
	filesvc "github.com/edutrack/backend/services/files"
)

type (
	// Deps are the services the API serves. Wired once in main.
	Deps struct {
		Logger         core.Logger
		UserSvc        *user.Service
		InstitutionSvc *institution.Service
		AcademicSvc    *academic.Service
		CourseSvc      *course.Service
		SectionSvc     *section.Service
		ProfileSvc     *profile.Service
		AssignmentSvc  *assignment.Service
		PaymentSvc     *payment.Service
		FileStorage    *filesvc.Storage
		Blacklist      user.TokenBlacklist
	}

	Options struct {
		Address        string
		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(ctx context.Context) error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		opts       *Options
		deps       *Deps
		app        *echo.Echo
		errCh      chan error
		shutdownCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options, deps *Deps) Server {
	s := &server{
		opts:       opts,
		deps:       deps,
		app:        echo.New(),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug && !core.Conf.TestMode
	s.app.HideBanner = true

	s.app.GET("/", home)
	if s.deps.FileStorage != nil {
		s.app.Static(filesvc.URLPrefix, s.deps.FileStorage.Root())
	}

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(appJWTConfig)
	authed := []echo.MiddlewareFunc{jwt, blacklistMiddleware(s.deps.Blacklist)}

	// one group per portal; the guard runs once at the group boundary
	admin := api.Group("/admin", append(authed, roleMiddleware(user.RoleAdmin, user.RoleSuperAdmin))...)
	instAdmin := api.Group("/institution-admin", append(authed, roleMiddleware(user.RoleInstitutionAdmin))...)
	teacher := api.Group("/teacher", append(authed, roleMiddleware(user.RoleTeacher))...)
	student := api.Group("/student", append(authed, roleMiddleware(user.RoleStudent))...)

	registerAuthAPI(api, authed, s.deps)
	registerUserAPI(admin, s.deps)
	registerInstitutionAPI(api, admin, s.deps)
	registerAcademicAPI(admin, instAdmin, s.deps)
	registerCourseAPI(admin, instAdmin, s.deps)
	registerSectionAPI(instAdmin, teacher, student, s.deps)
	registerProfileAPI(admin, instAdmin, teacher, student, s.deps)
	registerAssignmentAPI(teacher, student, s.deps)
	registerPaymentAPI(instAdmin, student, s.deps)
	registerDashboardAPI(admin, instAdmin, s.deps)
}

func (s *server) Start() {
	signal.Notify(s.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	if err := s.app.Start(s.opts.Address); err != nil && err != http.ErrServerClosed {
		s.errCh <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Errors() <-chan error { return s.errCh }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdownCh }

// signalShutdown requests a graceful stop; called when an integrity fault
// bubbles up to the error handler.
func (s *server) signalShutdown() {
	s.shutdownCh <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Edutrack API!")
}
