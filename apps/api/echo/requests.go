package echoapi

import (
	"time"

	"github.com/araddon/dateparse"

	"github.com/rominswe/pg-progress-sub002/core"
	"github.com/rominswe/pg-progress-sub002/core/milestone"
)

// UpsertOverrideRequest accepts the portal's historical pg_student_id alias and loose date formats.
type UpsertOverrideRequest struct {
	MilestoneName string `json:"milestone_name"`
	StudentID     string `json:"student_id"`
	PgStudentID   string `json:"pg_student_id"`
	DeadlineDate  string `json:"deadline_date"`
	Reason        string `json:"reason"`
	AlertLeadDays *int   `json:"alert_lead_days"`
}

func (r UpsertOverrideRequest) toUpsert(updatedBy string) (milestone.UpsertOverride, error) {
	deadline, err := parseDate("deadline_date", r.DeadlineDate)
	if err != nil {
		return milestone.UpsertOverride{}, err
	}
	studentID := r.StudentID
	if core.CleanString(studentID) == "" {
		studentID = r.PgStudentID
	}
	return milestone.UpsertOverride{
		MilestoneName: r.MilestoneName,
		StudentID:     studentID,
		DeadlineDate:  deadline,
		Reason:        r.Reason,
		UpdatedBy:     updatedBy,
		AlertLeadDays: r.AlertLeadDays,
	}, nil
}

// parseDate reads a date in any common layout, zone-less values being UTC. Blank yields nil.
func parseDate(field, value string) (*time.Time, error) {
	value = core.CleanString(value)
	if value == "" {
		return nil, nil
	}
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return nil, core.NewFieldError(field, "invalid date: "+value)
	}
	t = t.UTC()
	return &t, nil
}
