package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/edutrack/backend/apps/api/echo"
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
	"github.com/edutrack/backend/storage/database"
	sqlxrepos "github.com/edutrack/backend/storage/database/sqlx"
	redisdb "github.com/edutrack/backend/storage/redis"
)

const shutdownTimeout = 20 * time.Second

func main() {
	conf := core.Conf

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("failed to close database", err)
		}
	}()
	sdb := sqlx.NewDb(db, conf.Database.Engine)

	// services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	fileStorage, err := filesvc.NewLocalStorage(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up file storage: %v", err), err)
	}

	rdb := redisdb.Open(conf)
	defer rdb.Close()

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		&echoapi.Options{Address: conf.Server.Address()},
		&echoapi.Deps{
			Logger:         logger,
			UserSvc:        user.NewService(sqlxrepos.NewUserRepository(sdb), mailSvc),
			InstitutionSvc: institution.NewService(sqlxrepos.NewInstitutionRepository(sdb)),
			AcademicSvc:    academic.NewService(sqlxrepos.NewAcademicRepository(sdb)),
			CourseSvc:      course.NewService(sqlxrepos.NewCourseRepository(sdb)),
			SectionSvc:     section.NewService(sqlxrepos.NewSectionRepository(sdb)),
			ProfileSvc:     profile.NewService(sqlxrepos.NewProfileRepository(sdb)),
			AssignmentSvc:  assignment.NewService(sqlxrepos.NewAssignmentRepository(sdb)),
			PaymentSvc:     payment.NewService(sqlxrepos.NewPaymentRepository(sdb)),
			FileStorage:    fileStorage,
			Blacklist:      redisdb.NewTokenBlacklist(rdb),
		},
	)

	go server.Start()

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
