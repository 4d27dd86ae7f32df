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

func (cli *commandLine) feedCmd() *cobra.Command {
	var (
		studentID string
		refDate   string
		opts      milestone.FeedOptions
	)
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print a student's derived milestone timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if refDate != "" {
				d, err := dateparse.ParseIn(refDate, time.UTC)
				if err != nil {
					return apps.NewArgumentError(fmt.Sprintf("invalid --reference-date %q", refDate))
				}
				d = d.UTC()
				opts.ReferenceDate = &d
			}
			return cli.printFeed(cmd.Context(), studentID, opts)
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "student identifier")
	cmd.Flags().StringVar(&refDate, "reference-date", "", "anchor for template default due days")
	cmd.Flags().StringVar(&opts.Scope.ProgramID, "program", "", "student's program")
	cmd.Flags().StringVar(&opts.Scope.DepartmentID, "department", "", "student's department")
	return cmd
}

func (cli *commandLine) printFeed(ctx context.Context, studentID string, opts milestone.FeedOptions) error {
	feed, err := cli.svc.StudentFeed(ctxOrBackground(ctx), studentID, opts)
	if err != nil {
		return err
	}
	w := newTable(cli.out, "MILESTONE", "STATUS", "DOCUMENT", "DUE", "REMINDER", "")
	for _, e := range feed {
		doc := "-"
		if e.DocumentStatus != nil {
			doc = string(*e.DocumentStatus)
		}
		due := "-"
		if e.DueDate != nil {
			due = e.DueDate.Format("2006-01-02")
		}
		reminder := "-"
		if e.ReminderAt != nil {
			reminder = e.ReminderAt.Format("2006-01-02")
		}
		flag := ""
		if e.ReminderDue {
			flag = "reminder due"
		}
		w.row(e.Template.Name, string(e.Status), doc, due, reminder, flag)
	}
	return w.flush()
}
