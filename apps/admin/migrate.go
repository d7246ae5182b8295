package main

import (
	"github.com/edutrack/backend/storage/database"
)

var migrateRunFunc = database.RunMigrationCommand // mockable

// migrate forwards the goose sub-command (args[0]) and any trailing
// arguments to the embedded migration runner.
func (cli *commandLine) migrate(args []string) error {
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	return migrateRunFunc(cli.db, args[0], rest...)
}
