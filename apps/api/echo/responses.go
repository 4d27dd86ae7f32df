package echoapi

import (
	"time"

	"github.com/rominswe/pg-progress-sub002/core/milestone"
)

// StaffOverrideResponse is an override row as shown in the staff audit table.
type StaffOverrideResponse struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"student_id"`
	StudentName    string    `json:"student_name"`
	TemplateID     string    `json:"template_id"`
	MilestoneName  string    `json:"milestone_name"`
	MilestoneType  string    `json:"milestone_type"`
	TemplateActive bool      `json:"template_active"`
	DeadlineDate   time.Time `json:"deadline_date"`
	Reason         string    `json:"reason"`
	AlertLeadDays  *int      `json:"alert_lead_days"`
	UpdatedBy      string    `json:"updated_by"`
	UpdatedByName  string    `json:"updated_by_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newStaffOverrideResponse(v milestone.OverrideView) StaffOverrideResponse {
	return StaffOverrideResponse{
		ID:             v.ID,
		StudentID:      v.StudentID,
		StudentName:    v.StudentName,
		TemplateID:     v.TemplateID,
		MilestoneName:  v.TemplateName,
		MilestoneType:  v.TemplateType,
		TemplateActive: v.TemplateActive,
		DeadlineDate:   v.DeadlineDate,
		Reason:         v.Reason,
		AlertLeadDays:  v.AlertLeadDays,
		UpdatedBy:      v.UpdatedBy,
		UpdatedByName:  v.UpdatedByName,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

// StudentMilestone is one feed entry as a student sees it: no audit fields.
type StudentMilestone struct {
	Name               string                    `json:"name"`
	Description        string                    `json:"description"`
	Type               string                    `json:"type"`
	DocumentType       string                    `json:"document_type"`
	SortOrder          int                       `json:"sort_order"`
	Status             milestone.Status          `json:"status"`
	DocumentStatus     *milestone.DocumentStatus `json:"document_status"`
	SubmittedAt        *time.Time                `json:"submitted_at"`
	DueDate            *time.Time                `json:"due_date"`
	DeadlineOverridden bool                      `json:"deadline_overridden"`
	AlertLeadDays      int                       `json:"alert_lead_days"`
	ReminderAt         *time.Time                `json:"reminder_at"`
	ReminderDue        bool                      `json:"reminder_due"`
}

type StudentFeedResponse struct {
	StudentID  string             `json:"student_id"`
	Milestones []StudentMilestone `json:"milestones"`
}

// OverrideAudit tells staff who moved a deadline and why.
type OverrideAudit struct {
	ID            string    `json:"id"`
	DeadlineDate  time.Time `json:"deadline_date"`
	Reason        string    `json:"reason"`
	AlertLeadDays *int      `json:"alert_lead_days"`
	UpdatedBy     string    `json:"updated_by"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type StaffMilestone struct {
	StudentMilestone
	TemplateID string         `json:"template_id"`
	Override   *OverrideAudit `json:"override"`
}

type StaffFeedResponse struct {
	StudentID  string           `json:"student_id"`
	Milestones []StaffMilestone `json:"milestones"`
}

func newStudentMilestone(e milestone.FeedEntry) StudentMilestone {
	return StudentMilestone{
		Name:               e.Template.Name,
		Description:        e.Template.Description,
		Type:               e.Template.Type,
		DocumentType:       e.Template.DocumentType,
		SortOrder:          e.Template.SortOrder,
		Status:             e.Status,
		DocumentStatus:     e.DocumentStatus,
		SubmittedAt:        e.SubmittedAt,
		DueDate:            e.DueDate,
		DeadlineOverridden: e.Override != nil,
		AlertLeadDays:      e.EffectiveAlertLeadDays,
		ReminderAt:         e.ReminderAt,
		ReminderDue:        e.ReminderDue,
	}
}

func newStudentFeedResponse(studentID string, feed []milestone.FeedEntry) StudentFeedResponse {
	resp := StudentFeedResponse{StudentID: studentID, Milestones: make([]StudentMilestone, 0, len(feed))}
	for _, e := range feed {
		resp.Milestones = append(resp.Milestones, newStudentMilestone(e))
	}
	return resp
}

func newStaffFeedResponse(studentID string, feed []milestone.FeedEntry) StaffFeedResponse {
	resp := StaffFeedResponse{StudentID: studentID, Milestones: make([]StaffMilestone, 0, len(feed))}
	for _, e := range feed {
		m := StaffMilestone{StudentMilestone: newStudentMilestone(e), TemplateID: e.Template.ID}
		if o := e.Override; o != nil {
			m.Override = &OverrideAudit{
				ID:            o.ID,
				DeadlineDate:  o.DeadlineDate,
				Reason:        o.Reason,
				AlertLeadDays: o.AlertLeadDays,
				UpdatedBy:     o.UpdatedBy,
				UpdatedAt:     o.UpdatedAt,
			}
		}
		resp.Milestones = append(resp.Milestones, m)
	}
	return resp
}
