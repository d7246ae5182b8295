package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/edutrack/backend/core"
	"github.com/edutrack/backend/core/session"
	"github.com/edutrack/backend/storage/database"
	sqlxrepos "github.com/edutrack/backend/storage/database/sqlx"
	"github.com/jmoiron/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	sessions := session.NewStore(session.DefaultPath())
	sessions.Initialize()

	// start CLI
	cli := commandLine{
		db:         db,
		usrRepo:    sqlxrepos.NewUserRepository(sqlx.NewDb(db, core.Conf.Database.Engine)),
		sessions:   sessions,
		apiBaseURL: "http://" + core.Conf.Server.Address(),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
