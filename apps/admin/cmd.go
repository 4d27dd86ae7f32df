package main

import (
	"errors"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/rominswe/pg-progress-sub002/apps/shared"
	"github.com/rominswe/pg-progress-sub002/core"
	"github.com/rominswe/pg-progress-sub002/core/milestone"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf   *core.Config
	logger core.Logger
	db     *sqlx.DB // nil with the inmem engine
	svc    *milestone.Service
	out    io.Writer
}

func newCommandLine(deps *shared.Deps, out io.Writer) *commandLine {
	return &commandLine{
		conf:   deps.Conf,
		logger: deps.Logger,
		db:     deps.DB,
		svc:    deps.MilestoneSvc,
		out:    out,
	}
}

func (cli *commandLine) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "admin",
		Short:         "Milestone engine administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	cmd.SetOut(cli.out)
	cmd.SetErr(cli.out)

	cmd.AddCommand(
		cli.migrateCmd(),
		cli.templatesCmd(),
		cli.overridesCmd(),
		cli.feedCmd(),
		cli.tokenCmd(),
	)
	return cmd
}

// run executes args as given by os.Args, program name included.
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.Execute()
}
