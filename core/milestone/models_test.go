package milestone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplate_MatchesScope(t *testing.T) {
	phd, cs := "phd", "cs"
	global := Template{Name: "Proposal"}
	program := Template{Name: "Ethics", ProgramID: &phd}
	both := Template{Name: "Lab", ProgramID: &phd, DepartmentID: &cs}

	tests := []struct {
		name   string
		tmpl   Template
		filter ScopeFilter
		want   bool
	}{
		{name: "no filter sees global", tmpl: global, want: true},
		{name: "no filter sees scoped", tmpl: both, want: true},
		{name: "global matches any filter", tmpl: global, filter: ScopeFilter{ProgramID: "msc"}, want: true},
		{name: "program scope matches its program", tmpl: program, filter: ScopeFilter{ProgramID: phd}, want: true},
		{name: "program scope ignores filter department", tmpl: program, filter: ScopeFilter{ProgramID: phd, DepartmentID: "bio"}, want: true},
		{name: "program scope hidden from other program", tmpl: program, filter: ScopeFilter{ProgramID: "msc"}, want: false},
		{name: "both scopes match full filter", tmpl: both, filter: ScopeFilter{ProgramID: phd, DepartmentID: cs}, want: true},
		{name: "both scopes hidden from program-only filter", tmpl: both, filter: ScopeFilter{ProgramID: phd}, want: false},
		{name: "both scopes hidden from department-only filter", tmpl: both, filter: ScopeFilter{DepartmentID: cs}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tmpl.MatchesScope(tt.filter))
		})
	}
}

func TestDocumentStatus_Valid(t *testing.T) {
	for _, st := range DocumentStatuses {
		assert.True(t, st.Valid(), st)
	}
	assert.False(t, DocumentStatus("").Valid())
	assert.False(t, DocumentStatus("pending").Valid())
}
