package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rominswe/pg-progress-sub002/core"
	"github.com/rominswe/pg-progress-sub002/core/milestone"
	"github.com/rominswe/pg-progress-sub002/services/metrics"
)

// templateSeed is the layout of a template import file.
type templateSeed struct {
	Templates []milestone.NewTemplate `yaml:"templates"`
}

func (cli *commandLine) templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage the milestone template catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}

	var filter milestone.ScopeFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List active templates in stage order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.listTemplates(cmd.Context(), filter)
		},
	}
	list.Flags().StringVar(&filter.ProgramID, "program", "", "only templates visible to this program")
	list.Flags().StringVar(&filter.DepartmentID, "department", "", "only templates visible to this department")

	imp := &cobra.Command{
		Use:   "import FILE.yaml",
		Short: "Create or update templates, matched by name, from a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.importTemplates(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, imp)
	return cmd
}

func (cli *commandLine) listTemplates(ctx context.Context, filter milestone.ScopeFilter) error {
	templates, err := cli.svc.ListTemplates(ctxOrBackground(ctx), filter)
	if err != nil {
		return err
	}

	w := newTable(cli.out, "ORDER", "NAME", "DOCUMENT TYPE", "DUE DAYS", "LEAD DAYS", "SCOPE")
	for _, t := range templates {
		w.row(strconv.Itoa(t.SortOrder), t.Name, t.DocumentType, optInt(t.DefaultDueDays), optInt(t.AlertLeadDays), scope(t))
	}
	return w.flush()
}

func (cli *commandLine) importTemplates(ctx context.Context, path string) error {
	ctx = ctxOrBackground(ctx)
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading seed file")
	}
	var seed templateSeed
	if err = yaml.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parsing seed file")
	}

	var created, updated int
	for i, nt := range seed.Templates {
		existing, err := cli.svc.FindTemplateByName(ctx, nt.Name)
		switch {
		case err == nil:
			if _, err = cli.svc.UpdateTemplate(ctx, existing.ID, toUpdate(nt)); err != nil {
				return errors.Wrapf(err, "updating template #%d (%s)", i+1, nt.Name)
			}
			updated++
		case core.IsNotFound(err):
			if _, err = cli.svc.CreateTemplate(ctx, nt); err != nil {
				return errors.Wrapf(err, "creating template #%d (%s)", i+1, nt.Name)
			}
			created++
		default:
			return err
		}
		metrics.IncrementTemplateChange("import")
	}

	cli.logger.Info("templates imported", map[string]interface{}{"file": path, "created": created, "updated": updated})
	fmt.Fprintf(cli.out, "%d created, %d updated\n", created, updated)
	return nil
}

// toUpdate turns a seed entry into a full update of the matching template.
func toUpdate(nt milestone.NewTemplate) milestone.UpdateTemplate {
	active := true
	upd := milestone.UpdateTemplate{
		Description:    &nt.Description,
		Type:           &nt.Type,
		SortOrder:      nt.SortOrder,
		DefaultDueDays: nt.DefaultDueDays,
		AlertLeadDays:  nt.AlertLeadDays,
		IsActive:       &active,
		ProgramID:      nt.ProgramID,
		DepartmentID:   nt.DepartmentID,
	}
	if nt.DocumentType != "" {
		upd.DocumentType = &nt.DocumentType
	}
	return upd
}

func optInt(i *int) string {
	if i == nil {
		return "-"
	}
	return strconv.Itoa(*i)
}

func scope(t milestone.Template) string {
	if t.IsGlobal() {
		return "global"
	}
	s := ""
	if t.ProgramID != nil {
		s = "program=" + *t.ProgramID
	}
	if t.DepartmentID != nil {
		if s != "" {
			s += " "
		}
		s += "department=" + *t.DepartmentID
	}
	return s
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
