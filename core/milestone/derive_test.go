package milestone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	day0      = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	proposal  = Template{ID: "t1", Name: "Proposal", DocumentType: "Proposal", SortOrder: 1, IsActive: true}
	review    = Template{ID: "t2", Name: "Review", DocumentType: "Review", SortOrder: 2, IsActive: true}
	thesis    = Template{ID: "t3", Name: "Final Thesis", DocumentType: "Final Thesis", SortOrder: 3, IsActive: true}
	catalogue = []Template{proposal, review, thesis}
)

func doc(id, docType string, status DocumentStatus, uploadedAt time.Time) DocumentRecord {
	return DocumentRecord{ID: id, StudentID: "s1", Name: docType, DocumentType: docType, Status: status, UploadedAt: uploadedAt}
}

func statuses(entries []FeedEntry) []Status {
	sts := make([]Status, 0, len(entries))
	for _, e := range entries {
		sts = append(sts, e.Status)
	}
	return sts
}

func TestDerive_statuses(t *testing.T) {
	tests := []struct {
		name      string
		templates []Template
		docs      []DocumentRecord
		want      []Status
	}{
		{
			name:      "no documents: first stage is next active",
			templates: []Template{proposal, review},
			want:      []Status{StatusInProgress, StatusPending},
		},
		{
			name:      "approved proposal moves progression on",
			templates: []Template{proposal, review},
			docs:      []DocumentRecord{doc("d1", "Proposal", DocumentApproved, day0)},
			want:      []Status{StatusCompleted, StatusInProgress},
		},
		{
			name:      "rejected document does not complete",
			templates: []Template{proposal, review},
			docs:      []DocumentRecord{doc("d1", "Proposal", DocumentRejected, day0)},
			want:      []Status{StatusInProgress, StatusPending},
		},
		{
			name: "pending document on a later stage is flagged in-progress",
			docs: []DocumentRecord{doc("d1", "Final Thesis", DocumentPending, day0)},
			want: []Status{StatusInProgress, StatusPending, StatusInProgress},
		},
		{
			name: "approved final thesis is not completed",
			docs: []DocumentRecord{
				doc("d1", "Proposal", DocumentApproved, day0),
				doc("d2", "Review", DocumentCompleted, day0),
				doc("d3", "Final Thesis", DocumentApproved, day0),
			},
			want: []Status{StatusCompleted, StatusCompleted, StatusInProgress},
		},
		{
			name: "out of order approved final thesis stays in-progress",
			docs: []DocumentRecord{doc("d3", "Final Thesis", DocumentApproved, day0)},
			want: []Status{StatusInProgress, StatusPending, StatusInProgress},
		},
		{
			name: "completed final thesis completes the programme",
			docs: []DocumentRecord{
				doc("d1", "Proposal", DocumentApproved, day0),
				doc("d2", "Review", DocumentApproved, day0),
				doc("d3", "Final Thesis", DocumentCompleted, day0),
			},
			want: []Status{StatusCompleted, StatusCompleted, StatusCompleted},
		},
		{
			name: "completed later stage does not complete past the first gap",
			docs: []DocumentRecord{doc("d2", "Review", DocumentApproved, day0)},
			want: []Status{StatusInProgress, StatusPending, StatusPending},
		},
		{
			name: "documents without a type fall back to their name",
			docs: []DocumentRecord{{ID: "d1", StudentID: "s1", Name: "Proposal", Status: DocumentApproved, UploadedAt: day0}},
			want: []Status{StatusCompleted, StatusInProgress, StatusPending},
		},
		{
			name:      "inactive templates are left out",
			templates: []Template{proposal, {ID: "t9", Name: "Old", SortOrder: 2, IsActive: false}, thesis},
			want:      []Status{StatusInProgress, StatusPending},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			templates := tt.templates
			if templates == nil {
				templates = catalogue
			}
			got := Derive(templates, tt.docs, nil, DeriveOptions{})
			assert.Equal(t, tt.want, statuses(got))
		})
	}
}

func TestDerive_ordering(t *testing.T) {
	a := Template{ID: "b", Name: "A", SortOrder: 5, IsActive: true}
	b := Template{ID: "a", Name: "B", SortOrder: 5, IsActive: true}
	c := Template{ID: "c", Name: "C", SortOrder: 1, IsActive: true}

	got := Derive([]Template{a, b, c}, nil, nil, DeriveOptions{})
	require.Len(t, got, 3)
	assert.Equal(t, "C", got[0].Template.Name)
	assert.Equal(t, "B", got[1].Template.Name) // tie broken by id
	assert.Equal(t, "A", got[2].Template.Name)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Template.SortOrder, got[i].Template.SortOrder)
	}
}

func TestDerive_deterministic(t *testing.T) {
	docs := []DocumentRecord{
		doc("d2", "Proposal", DocumentRejected, day0),
		doc("d1", "Proposal", DocumentApproved, day0),
		doc("d3", "Review", DocumentPending, day0.Add(time.Hour)),
	}
	overrides := []Override{{ID: "o1", StudentID: "s1", TemplateID: review.ID, DeadlineDate: day0.AddDate(0, 2, 0)}}

	first := Derive(catalogue, docs, overrides, DeriveOptions{Now: day0})
	for i := 0; i < 20; i++ {
		shuffled := []Template{thesis, proposal, review}
		revDocs := []DocumentRecord{docs[2], docs[1], docs[0]}
		assert.Equal(t, first, Derive(shuffled, revDocs, overrides, DeriveOptions{Now: day0}))
	}
}

func TestDerive_atMostOneNextActive(t *testing.T) {
	docs := []DocumentRecord{
		doc("d1", "Proposal", DocumentApproved, day0),
		doc("d3", "Final Thesis", DocumentPending, day0),
	}
	got := Derive(catalogue, docs, nil, DeriveOptions{})

	next := NextActiveIndex(catalogue, GroupDocuments(docs), FinalThesisType)
	assert.Equal(t, 1, next)
	for i, e := range got {
		if i > next {
			assert.NotEqual(t, StatusCompleted, e.Status, "entry %d after the first incomplete stage", i)
		}
		wantActive := i == next || hasActivity(e.Template, GroupDocuments(docs).forTemplate(e.Template), FinalThesisType)
		assert.Equal(t, wantActive, e.Status == StatusInProgress, "entry %d", i)
	}
}

func TestDerive_latestDocument(t *testing.T) {
	older := doc("d1", "Proposal", DocumentRejected, day0)
	newer := doc("d2", "Proposal", DocumentPending, day0.Add(48*time.Hour))

	got := Derive([]Template{proposal}, []DocumentRecord{older, newer}, nil, DeriveOptions{})
	require.Len(t, got, 1)
	require.NotNil(t, got[0].DocumentStatus)
	assert.Equal(t, DocumentPending, *got[0].DocumentStatus)
	assert.Equal(t, newer.UploadedAt, *got[0].SubmittedAt)
}

func TestDerive_overridesAndReminders(t *testing.T) {
	deadline := time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)
	withDefaults := review
	withDefaults.DefaultDueDays = intPtr(90)
	withDefaults.AlertLeadDays = intPtr(10)
	ref := day0

	t.Run("template default due date", func(t *testing.T) {
		got := Derive([]Template{proposal, withDefaults}, nil, nil, DeriveOptions{ReferenceDate: &ref, Now: day0})
		e := got[1]
		assert.Nil(t, e.Override)
		assert.Equal(t, 10, e.EffectiveAlertLeadDays)
		require.NotNil(t, e.DueDate)
		assert.Equal(t, day0.AddDate(0, 0, 90), *e.DueDate)
		assert.Equal(t, day0.AddDate(0, 0, 80), *e.ReminderAt)
		assert.False(t, e.ReminderDue)
	})

	t.Run("override deadline wins", func(t *testing.T) {
		o := Override{ID: "o1", StudentID: "s1", TemplateID: review.ID, DeadlineDate: deadline, AlertLeadDays: intPtr(14)}
		now := deadline.AddDate(0, 0, -3)
		got := Derive([]Template{proposal, withDefaults}, nil, []Override{o}, DeriveOptions{ReferenceDate: &ref, Now: now})
		e := got[1]
		require.NotNil(t, e.Override)
		assert.Equal(t, "o1", e.Override.ID)
		assert.Equal(t, 14, e.EffectiveAlertLeadDays)
		assert.Equal(t, deadline, *e.DueDate)
		assert.Equal(t, deadline.AddDate(0, 0, -14), *e.ReminderAt)
		assert.True(t, e.ReminderDue)
	})

	t.Run("no reminder for completed stages", func(t *testing.T) {
		o := Override{ID: "o1", StudentID: "s1", TemplateID: proposal.ID, DeadlineDate: deadline}
		docs := []DocumentRecord{doc("d1", "Proposal", DocumentApproved, day0)}
		got := Derive([]Template{proposal}, docs, []Override{o}, DeriveOptions{Now: deadline})
		assert.Equal(t, StatusCompleted, got[0].Status)
		assert.False(t, got[0].ReminderDue)
	})

	t.Run("no due date without a reference", func(t *testing.T) {
		got := Derive([]Template{withDefaults}, nil, nil, DeriveOptions{Now: day0})
		assert.Nil(t, got[0].DueDate)
		assert.Nil(t, got[0].ReminderAt)
		assert.False(t, got[0].ReminderDue)
	})

	t.Run("overrides of inactive templates are ignored", func(t *testing.T) {
		inactive := review
		inactive.IsActive = false
		o := Override{ID: "o1", StudentID: "s1", TemplateID: review.ID, DeadlineDate: deadline}
		got := Derive([]Template{proposal, inactive}, nil, []Override{o}, DeriveOptions{})
		require.Len(t, got, 1)
		assert.Nil(t, got[0].Override)
	})
}

func TestDerive_customFinalThesisType(t *testing.T) {
	dissertation := Template{ID: "t1", Name: "Dissertation", SortOrder: 1, IsActive: true}
	docs := []DocumentRecord{doc("d1", "Dissertation", DocumentApproved, day0)}

	got := Derive([]Template{dissertation}, docs, nil, DeriveOptions{FinalThesisType: "Dissertation"})
	assert.Equal(t, StatusInProgress, got[0].Status)

	got = Derive([]Template{dissertation}, docs, nil, DeriveOptions{})
	assert.Equal(t, StatusCompleted, got[0].Status)
}

func TestGroupDocuments_skipsUnknownStatuses(t *testing.T) {
	docs := []DocumentRecord{
		doc("d1", "Proposal", DocumentStatus("Archived"), day0.AddDate(0, 0, 2)),
		doc("d2", "Proposal", DocumentApproved, day0),
		doc("d3", "Review", DocumentStatus("approved"), day0),
	}
	groups := GroupDocuments(docs)
	require.Len(t, groups["Proposal"], 1)
	assert.Equal(t, "d2", groups["Proposal"][0].ID)
	assert.Empty(t, groups["Review"], "status matching is case-sensitive")

	feed := Derive([]Template{proposal, review}, docs, nil, DeriveOptions{})
	assert.Equal(t, []Status{StatusCompleted, StatusInProgress}, statuses(feed))
	require.NotNil(t, feed[0].DocumentStatus)
	assert.Equal(t, DocumentApproved, *feed[0].DocumentStatus, "unknown latest record does not shadow the approved one")
	assert.Nil(t, feed[1].DocumentStatus)
}
