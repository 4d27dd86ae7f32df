package main

import (
	"github.com/spf13/cobra"

	"github.com/rominswe/pg-progress-sub002/apps"
	"github.com/rominswe/pg-progress-sub002/storage/database"
)

var migrateFunc = database.Migrate // mockable

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate COMMAND [ARGS...]",
		Short: "Run a goose migration command (up, down, status, redo, reset, version, up-to N, down-to N)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return errHelp
			}
			if cli.db == nil {
				return apps.NewArgumentError("migrations need the postgres database engine")
			}
			return migrateFunc(cli.db, args[0], args[1:]...)
		},
	}
}
