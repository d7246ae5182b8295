package tests

import (
	"fmt"
	"log"
	"os"
	"testing"

	. "github.com/edutrack/backend/apps/api/echo"
	"github.com/edutrack/backend/core"
	"github.com/edutrack/backend/core/academic"
	"github.com/edutrack/backend/core/assignment"
	"github.com/edutrack/backend/core/course"
	"github.com/edutrack/backend/core/institution"
	"github.com/edutrack/backend/core/payment"
	"github.com/edutrack/backend/core/profile"
	"github.com/edutrack/backend/core/section"
	"github.com/edutrack/backend/core/user"
	emailsvc "github.com/edutrack/backend/services/email"
	filesvc "github.com/edutrack/backend/services/files"
	logsvc "github.com/edutrack/backend/services/logger"
	inmemdb "github.com/edutrack/backend/storage/database/inmem"
)

var (
	db  *inmemdb.DB
	app Server

	usrRepo     user.Repository
	instRepo    institution.Repository
	academRepo  academic.Repository
	courseRepo  course.Repository
	sectionRepo section.Repository
	profileRepo profile.Repository
	asgRepo     assignment.Repository
	paymentRepo payment.Repository

	blacklist user.TokenBlacklist
)

func TestMain(m *testing.M) {
	var err error

	core.Conf.TestMode = true

	// set up DB & repos
	if db, err = inmemdb.Open(); err != nil {
		fmt.Printf("inmemdb.Open(): %v", err)
		os.Exit(1)
	}
	usrRepo = inmemdb.NewUserRepository(db)
	instRepo = inmemdb.NewInstitutionRepository(db)
	academRepo = inmemdb.NewAcademicRepository(db)
	courseRepo = inmemdb.NewCourseRepository(db)
	sectionRepo = inmemdb.NewSectionRepository(db)
	profileRepo = inmemdb.NewProfileRepository(db)
	asgRepo = inmemdb.NewAssignmentRepository(db)
	paymentRepo = inmemdb.NewPaymentRepository(db)
	blacklist = inmemdb.NewTokenBlacklist()

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), core.Conf)
	logger.Enable(false)

	mediaDir, err := os.MkdirTemp("", "edutrack-media")
	if err != nil {
		fmt.Printf("os.MkdirTemp(): %v", err)
		os.Exit(1)
	}
	defer os.RemoveAll(mediaDir)
	core.Conf.MediaRoot = mediaDir
	fileStorage, err := filesvc.NewLocalStorage(core.Conf)
	if err != nil {
		fmt.Printf("filesvc.NewLocalStorage(): %v", err)
		os.Exit(1)
	}

	// set up server
	app = NewServer(
		&Options{DisableReqLogs: true},
		&Deps{
			Logger:         logger,
			UserSvc:        user.NewService(usrRepo, mailSvc),
			InstitutionSvc: institution.NewService(instRepo),
			AcademicSvc:    academic.NewService(academRepo),
			CourseSvc:      course.NewService(courseRepo),
			SectionSvc:     section.NewService(sectionRepo),
			ProfileSvc:     profile.NewService(profileRepo),
			AssignmentSvc:  assignment.NewService(asgRepo),
			PaymentSvc:     payment.NewService(paymentRepo),
			FileStorage:    fileStorage,
			Blacklist:      blacklist,
		},
	)

	os.Exit(m.Run())
}
