package milestone

import (
	"sort"
	"time"
)

// DeriveOptions parameterise Derive. Zero values fall back to the package defaults.
type DeriveOptions struct {
	FinalThesisType       string
	FallbackAlertLeadDays int
	ReferenceDate         *time.Time
	// Now is used to flag due reminders; reminders are never flagged when it is zero.
	Now time.Time
}

func (opts DeriveOptions) finalThesisType() string {
	if opts.FinalThesisType == "" {
		return FinalThesisType
	}
	return opts.FinalThesisType
}

func (opts DeriveOptions) fallbackAlertLeadDays() int {
	if opts.FallbackAlertLeadDays <= 0 {
		return FallbackAlertLeadDays
	}
	return opts.FallbackAlertLeadDays
}

// DocumentGroups indexes a student's documents by GroupKey, most recent first.
type DocumentGroups map[string][]DocumentRecord

// GroupDocuments builds DocumentGroups. Records uploaded at the same instant are ordered by ID.
// Records whose status is not a known review state are skipped.
func GroupDocuments(docs []DocumentRecord) DocumentGroups {
	groups := make(DocumentGroups)
	for _, doc := range docs {
		if !doc.Status.Valid() {
			continue
		}
		key := doc.GroupKey()
		groups[key] = append(groups[key], doc)
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			if !group[i].UploadedAt.Equal(group[j].UploadedAt) {
				return group[i].UploadedAt.After(group[j].UploadedAt)
			}
			return group[i].ID < group[j].ID
		})
	}
	return groups
}

func (g DocumentGroups) forTemplate(t Template) []DocumentRecord {
	return g[templateKey(t)]
}

func templateKey(t Template) string {
	if t.DocumentType != "" {
		return t.DocumentType
	}
	return t.Name
}

func hasStatus(docs []DocumentRecord, statuses ...DocumentStatus) bool {
	for _, doc := range docs {
		for _, st := range statuses {
			if doc.Status == st {
				return true
			}
		}
	}
	return false
}

// SortTemplates orders templates by sort_order, ties broken by ID.
func SortTemplates(templates []Template) {
	sort.SliceStable(templates, func(i, j int) bool {
		if templates[i].SortOrder != templates[j].SortOrder {
			return templates[i].SortOrder < templates[j].SortOrder
		}
		return templates[i].ID < templates[j].ID
	})
}

// IsComplete is the completion test of a template against its matched documents.
// The final thesis needs a Completed document; any other milestone is done once Approved or Completed.
func IsComplete(t Template, docs []DocumentRecord, finalThesisType string) bool {
	if templateKey(t) == finalThesisType {
		return hasStatus(docs, DocumentCompleted)
	}
	return hasStatus(docs, DocumentApproved, DocumentCompleted)
}

// hasActivity flags work under way regardless of the template's position:
// a document awaiting review, or a final thesis approved but not yet completed.
func hasActivity(t Template, docs []DocumentRecord, finalThesisType string) bool {
	if hasStatus(docs, DocumentPending) {
		return true
	}
	return templateKey(t) == finalThesisType &&
		hasStatus(docs, DocumentApproved) && !hasStatus(docs, DocumentCompleted)
}

// NextActiveIndex returns the index of the first template failing its completion test,
// or len(templates) when every milestone is complete. templates must already be sorted.
func NextActiveIndex(templates []Template, groups DocumentGroups, finalThesisType string) int {
	for i, t := range templates {
		if !IsComplete(t, groups.forTemplate(t), finalThesisType) {
			return i
		}
	}
	return len(templates)
}

// Derive computes a student's milestone feed from the catalogue, their documents and their overrides.
// Inactive templates, and overrides pointing at them, are left out. The result is in template order.
func Derive(templates []Template, docs []DocumentRecord, overrides []Override, opts DeriveOptions) []FeedEntry {
	active := make([]Template, 0, len(templates))
	for _, t := range templates {
		if t.IsActive {
			active = append(active, t)
		}
	}
	SortTemplates(active)

	groups := GroupDocuments(docs)
	overridesByTemplate := make(map[string]Override, len(overrides))
	for _, o := range overrides {
		overridesByTemplate[o.TemplateID] = o
	}

	finalThesis := opts.finalThesisType()
	next := NextActiveIndex(active, groups, finalThesis)

	entries := make([]FeedEntry, 0, len(active))
	for i, t := range active {
		docs := groups.forTemplate(t)
		entry := FeedEntry{Template: t}

		switch {
		case i < next:
			entry.Status = StatusCompleted
		case i == next, hasActivity(t, docs, finalThesis):
			entry.Status = StatusInProgress
		default:
			entry.Status = StatusPending
		}

		if len(docs) > 0 {
			latest := docs[0]
			status := latest.Status
			entry.DocumentStatus = &status
			entry.SubmittedAt = timePtr(latest.UploadedAt)
		}

		if o, ok := overridesByTemplate[t.ID]; ok {
			o := o
			entry.Override = &o
		}

		entry.EffectiveAlertLeadDays = EffectiveAlertLeadDaysOr(entry.Override, t, opts.fallbackAlertLeadDays())
		entry.DueDate = DueDate(entry.Override, t, opts.ReferenceDate)
		if entry.DueDate != nil {
			entry.ReminderAt = timePtr(ReminderAt(*entry.DueDate, entry.EffectiveAlertLeadDays))
			entry.ReminderDue = entry.Status != StatusCompleted && !opts.Now.IsZero() && !opts.Now.Before(*entry.ReminderAt)
		}

		entries = append(entries, entry)
	}
	return entries
}
