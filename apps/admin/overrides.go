package main

import (
	"context"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/rominswe/pg-progress-sub002/apps"
	"github.com/rominswe/pg-progress-sub002/core/milestone"
)

func (cli *commandLine) overridesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Manage per-student milestone deadlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}

	var (
		uo        milestone.UpsertOverride
		deadline  string
		leadDays  int
		studentID string
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Create or update a student's deadline for a milestone",
		RunE: func(cmd *cobra.Command, args []string) error {
			if deadline != "" {
				d, err := dateparse.ParseIn(deadline, time.UTC)
				if err != nil {
					return apps.NewArgumentError(fmt.Sprintf("invalid --deadline %q", deadline))
				}
				d = d.UTC()
				uo.DeadlineDate = &d
			}
			if cmd.Flags().Changed("alert-lead-days") {
				uo.AlertLeadDays = &leadDays
			}
			return cli.setOverride(cmd.Context(), uo)
		},
	}
	set.Flags().StringVar(&uo.StudentID, "student", "", "student identifier")
	set.Flags().StringVar(&uo.MilestoneName, "milestone", "", "milestone template name")
	set.Flags().StringVar(&deadline, "deadline", "", "new deadline (eg. 2025-06-01T17:00:00)")
	set.Flags().StringVar(&uo.Reason, "reason", "", "why the deadline moved")
	set.Flags().StringVar(&uo.UpdatedBy, "by", "", "staff identifier recorded as author")
	set.Flags().IntVar(&leadDays, "alert-lead-days", 0, "days before the deadline a reminder is due")

	list := &cobra.Command{
		Use:   "list",
		Short: "List overrides, soonest deadline first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.listOverrides(cmd.Context(), studentID)
		},
	}
	list.Flags().StringVar(&studentID, "student", "", "only this student's overrides")

	cmd.AddCommand(set, list)
	return cmd
}

func (cli *commandLine) setOverride(ctx context.Context, uo milestone.UpsertOverride) error {
	o, err := cli.svc.UpsertOverride(ctxOrBackground(ctx), uo)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "override %s: %s due %s (reminder %d days before)\n",
		o.ID, uo.MilestoneName, o.DeadlineDate.Format(time.RFC3339), *o.AlertLeadDays)
	return nil
}

func (cli *commandLine) listOverrides(ctx context.Context, studentID string) error {
	views, err := cli.svc.ListOverrides(ctxOrBackground(ctx), studentID)
	if err != nil {
		return err
	}
	w := newTable(cli.out, "DEADLINE", "STUDENT", "MILESTONE", "LEAD DAYS", "REASON", "BY")
	for _, v := range views {
		name := v.TemplateName
		if !v.TemplateActive {
			name += " (inactive)"
		}
		w.row(v.DeadlineDate.Format(time.RFC3339), v.StudentID, name, optInt(v.AlertLeadDays), v.Reason, v.UpdatedBy)
	}
	return w.flush()
}
