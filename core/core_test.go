package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanString(t *testing.T) {
	tests := []struct {
		s     string
		lower bool
		want  string
	}{
		{s: "  Proposal \t", want: "Proposal"},
		{s: " Final Thesis ", lower: true, want: "final thesis"},
		{s: "   ", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanString(tt.s, tt.lower))
	}
}

func TestValidateStruct(t *testing.T) {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)

	type input struct {
		Name  string `json:"name" validate:"required,notblank"`
		Title string `json:"title" validate:"omitempty,notblank"`
		Lead  *int   `json:"lead" validate:"omitempty,min=0"`
	}
	neg := -1

	assert.NoError(t, ValidateStruct(validate, translator, input{Name: "Proposal"}))

	err := ValidateStruct(validate, translator, input{Title: "  ", Lead: &neg})
	require.True(t, IsValidation(err))
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.ElementsMatch(t, []FieldError{
		{Field: "name", Error: "this field is required"},
		{Field: "title", Error: "this field cannot be blank"},
		{Field: "lead", Error: "lead must be 0 or greater"},
	}, vErr.Fields)
}

func TestErrors(t *testing.T) {
	nf := NewNotFoundError("milestone template", "Viva", "Milestone template not found")
	assert.EqualError(t, nf, "Milestone template not found: Viva")
	assert.True(t, IsNotFound(errors.Wrap(nf, "upserting")))
	assert.False(t, IsValidation(nf))

	fe := NewFieldError("student_id", "this field is required")
	assert.EqualError(t, fe, "this field is required")
	assert.True(t, IsValidation(errors.Wrap(fe, "feed")))
}

func TestCaller(t *testing.T) {
	assert.True(t, Caller{Role: RoleSupervisor}.IsStaff())
	assert.False(t, Caller{Role: RoleStudent}.IsStaff())
	assert.True(t, ValidRole(RoleExaminer))
	assert.False(t, ValidRole("janitor"))
}

func TestNewConfig(t *testing.T) {
	t.Setenv("ENV", "qa")
	t.Setenv("QA_DATABASE_ENGINE", "inmem")
	t.Setenv("QA_MILESTONE_FINALTHESISTYPE", "Dissertation")

	conf, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "QA", conf.Env)
	assert.Equal(t, "inmem", conf.Database.Engine)
	assert.Equal(t, "Dissertation", conf.Milestone.FinalThesisType)
	assert.Equal(t, 7, conf.Milestone.DefaultAlertLeadDays)

	t.Setenv("QA_MILESTONE_DEFAULTALERTLEADDAYS", "0")
	_, err = NewConfig()
	assert.EqualError(t, err, "milestone.defaultAlertLeadDays must be positive (got 0)")
}
