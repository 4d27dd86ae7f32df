package milestone

import "time"

// EffectiveAlertLeadDays resolves how many days before a deadline a reminder is due:
// the override's value, else the template's, else FallbackAlertLeadDays.
func EffectiveAlertLeadDays(o *Override, t Template) int {
	return EffectiveAlertLeadDaysOr(o, t, FallbackAlertLeadDays)
}

// EffectiveAlertLeadDaysOr is EffectiveAlertLeadDays with a configurable last fallback.
func EffectiveAlertLeadDaysOr(o *Override, t Template, fallback int) int {
	if o != nil && o.AlertLeadDays != nil {
		return *o.AlertLeadDays
	}
	if t.AlertLeadDays != nil {
		return *t.AlertLeadDays
	}
	return fallback
}

// ReminderAt is the moment a reminder for deadline becomes due.
func ReminderAt(deadline time.Time, leadDays int) time.Time {
	return deadline.AddDate(0, 0, -leadDays)
}

// DueDate resolves a milestone's deadline: the override's deadline_date always wins,
// otherwise the template default counted from the reference date. nil when neither is known.
func DueDate(o *Override, t Template, referenceDate *time.Time) *time.Time {
	if o != nil {
		return timePtr(o.DeadlineDate)
	}
	if t.DefaultDueDays != nil && referenceDate != nil {
		return timePtr(referenceDate.AddDate(0, 0, *t.DefaultDueDays))
	}
	return nil
}
