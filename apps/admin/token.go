package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rominswe/pg-progress-sub002/apps"
	echoapi "github.com/rominswe/pg-progress-sub002/apps/api/echo"
	"github.com/rominswe/pg-progress-sub002/core"
)

func (cli *commandLine) tokenCmd() *cobra.Command {
	var (
		caller core.Caller
		name   string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed API token (for local use and smoke tests)",
		RunE: func(cmd *cobra.Command, args []string) error {
			caller.ID = core.CleanString(caller.ID)
			if caller.ID == "" {
				return apps.NewArgumentError("--subject is required")
			}
			if !core.ValidRole(caller.Role) {
				return apps.NewArgumentError(fmt.Sprintf("invalid --role %q (want one of %v)", caller.Role, core.Roles))
			}
			if name == "" {
				name = caller.ID
			}
			token, err := echoapi.GenerateToken(cli.conf.SecretKey, echoapi.NewClaims(cli.conf, caller, name))
			if err != nil {
				return err
			}
			fmt.Fprintln(cli.out, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&caller.ID, "subject", "", "user identifier carried as the token subject")
	cmd.Flags().StringVar(&caller.Role, "role", "", "caller role")
	cmd.Flags().StringVar(&caller.StudentID, "student", "", "student identifier, for student tokens")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}
