package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/rominswe/pg-progress-sub002/core"
	"github.com/rominswe/pg-progress-sub002/core/milestone"
	"github.com/rominswe/pg-progress-sub002/services/metrics"
)

type milestoneApi struct {
	svc    *milestone.Service
	logger core.Logger
}

func registerMilestoneAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *milestone.Service, logger core.Logger) {
	api := milestoneApi{svc: svc, logger: logger}

	mg := g.Group("/milestones", jwt)

	tg := mg.Group("/templates", roleMiddleware(staffRoles...))
	tg.GET("", api.queryTemplates)
	tg.POST("", api.createTemplate)
	tg.PATCH("/:id", api.updateTemplate)
	tg.PUT("/:id", api.updateTemplate)
	tg.DELETE("/:id", api.destroyTemplate)

	og := mg.Group("/overrides", roleMiddleware(staffRoles...))
	og.GET("", api.queryOverrides)
	og.POST("", api.upsertOverride)
	og.PUT("", api.upsertOverride)

	mg.GET("/feed", api.feed, roleMiddleware(feedRoles...))
}

func scopeFromQuery(ctx echo.Context) milestone.ScopeFilter {
	return milestone.ScopeFilter{
		ProgramID:    ctx.QueryParam("program_id"),
		DepartmentID: ctx.QueryParam("department_id"),
	}
}

// Templates

func (api *milestoneApi) queryTemplates(ctx echo.Context) error {
	templates, err := api.svc.ListTemplates(ctx.Request().Context(), scopeFromQuery(ctx))
	if err != nil {
		return errors.Wrap(err, "listing milestone templates")
	}
	return ctx.JSON(http.StatusOK, templates)
}

func (api *milestoneApi) createTemplate(ctx echo.Context) error {
	var data milestone.NewTemplate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTemplate")
	}

	tmpl, err := api.svc.CreateTemplate(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating milestone template")
	}
	metrics.IncrementTemplateChange("create")
	return ctx.JSON(http.StatusCreated, tmpl)
}

func (api *milestoneApi) updateTemplate(ctx echo.Context) error {
	var data milestone.UpdateTemplate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTemplate")
	}

	tmpl, err := api.svc.UpdateTemplate(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating milestone template")
	}
	metrics.IncrementTemplateChange("update")
	return ctx.JSON(http.StatusOK, tmpl)
}

func (api *milestoneApi) destroyTemplate(ctx echo.Context) error {
	tmpl, err := api.svc.DeleteTemplate(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "deleting milestone template")
	}
	metrics.IncrementTemplateChange("delete")
	return ctx.JSON(http.StatusOK, tmpl)
}

// Overrides

func (api *milestoneApi) queryOverrides(ctx echo.Context) error {
	views, err := api.svc.ListOverrides(ctx.Request().Context(), ctx.QueryParam("student_id"))
	if err != nil {
		return errors.Wrap(err, "listing milestone overrides")
	}
	resp := make([]StaffOverrideResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, newStaffOverrideResponse(v))
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *milestoneApi) upsertOverride(ctx echo.Context) error {
	caller, err := getContextCaller(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context caller")
	}

	var data UpsertOverrideRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpsertOverrideRequest")
	}
	uo, err := data.toUpsert(caller.ID)
	if err != nil {
		metrics.IncrementOverrideUpsert("invalid")
		return err
	}

	o, err := api.svc.UpsertOverride(ctx.Request().Context(), uo)
	if err != nil {
		switch {
		case core.IsValidation(err):
			metrics.IncrementOverrideUpsert("invalid")
		case core.IsNotFound(err):
			metrics.IncrementOverrideUpsert("not_found")
		default:
			metrics.IncrementOverrideUpsert("failed")
		}
		return errors.Wrap(err, "upserting milestone override")
	}
	metrics.IncrementOverrideUpsert("success")
	api.logger.Info("milestone override saved", caller, map[string]interface{}{
		"student_id":  o.StudentID,
		"template_id": o.TemplateID,
		"deadline":    o.DeadlineDate,
	})
	return ctx.JSON(http.StatusOK, o)
}

// Feed

// feed serves a student's milestone timeline. Students always get their own;
// reviewers name the student and get the audit-enriched shape.
func (api *milestoneApi) feed(ctx echo.Context) error {
	caller, err := getContextCaller(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context caller")
	}

	studentID := caller.StudentID
	if caller.IsStaff() {
		studentID = core.CleanString(ctx.QueryParam("student_id"))
	}
	if studentID == "" {
		return core.NewFieldError("student_id", "a student identifier is required")
	}

	refDate, err := parseDate("reference_date", ctx.QueryParam("reference_date"))
	if err != nil {
		return err
	}

	feed, err := api.svc.StudentFeed(ctx.Request().Context(), studentID, milestone.FeedOptions{
		Scope:         scopeFromQuery(ctx),
		ReferenceDate: refDate,
	})
	if err != nil {
		return errors.Wrap(err, "deriving milestone feed")
	}
	for _, e := range feed {
		metrics.IncrementFeedEntry(string(e.Status))
		if e.ReminderDue {
			metrics.IncrementReminderDue()
		}
	}

	if caller.IsStaff() {
		return ctx.JSON(http.StatusOK, newStaffFeedResponse(studentID, feed))
	}
	return ctx.JSON(http.StatusOK, newStudentFeedResponse(studentID, feed))
}
