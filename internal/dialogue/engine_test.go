package dialogue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexflow/backend/pkg/models"
)

var testNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func clock() time.Time { return testNow }

func salaryWorkflow() *models.Workflow {
	return &models.Workflow{
		ID:     "wf_1",
		Status: models.StatusInProgress,
		Stage:  models.StageExtract,
		Fields: []models.Field{
			{ID: "field_0", Placeholder: "salary", Label: "Annual Salary", Type: models.FieldTypeNumber,
				Suggestion: "120000", AdvisoryNote: "Ensure compliance with minimum wage laws"},
			{ID: "field_1", Placeholder: "date", Label: "Effective Date", Type: models.FieldTypeDate,
				Suggestion: "2024-01-02"},
		},
	}
}

func lastTurn(wf *models.Workflow) models.ConversationTurn {
	return wf.Conversation[len(wf.Conversation)-1]
}

func TestEngine_SalaryScenario(t *testing.T) {
	wf := salaryWorkflow()
	e := New(wf, WithClock(clock))

	require.NoError(t, e.Start())
	assert.Equal(t, models.StageDialogue, wf.Stage)
	assert.Equal(t, "field_0", wf.ActiveFieldID)
	assert.Equal(t, "field_0", lastTurn(wf).FieldID)
	assert.Contains(t, lastTurn(wf).Text, "Annual Salary")
	assert.Contains(t, lastTurn(wf).Text, "Would you like to use this suggestion")

	res, err := e.SubmitAnswer("abc")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrInvalidNumber)
	assert.Equal(t, "field_0", wf.ActiveFieldID)
	assert.Empty(t, wf.Fields[0].Value)
	assert.Equal(t, models.StageDialogue, wf.Stage)

	res, err = e.SubmitAnswer(" 95000 ")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, res.Outcome)
	assert.Equal(t, "95000", wf.Fields[0].Value)
	require.NotNil(t, res.Next)
	assert.Equal(t, "field_1", res.Next.ID)
	assert.Equal(t, "field_1", wf.ActiveFieldID)

	res, err = e.SubmitAnswer("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, res.Outcome)
	assert.Equal(t, "2024-01-01", wf.Fields[1].Value)
	assert.Equal(t, models.StageReview, wf.Stage)
	assert.Equal(t, models.StatusCompleted, wf.Status)
	require.NotNil(t, wf.CompletedAt)
	assert.Equal(t, testNow, *wf.CompletedAt)
	assert.Empty(t, wf.ActiveFieldID)
	assert.Contains(t, lastTurn(wf).Text, "Document Complete")
}

func TestEngine_ConversationTranscript(t *testing.T) {
	wf := salaryWorkflow()
	e := New(wf, WithClock(clock))
	require.NoError(t, e.Start())
	_, err := e.SubmitAnswer("95000")
	require.NoError(t, err)

	roles := make([]models.Role, 0, len(wf.Conversation))
	for _, turn := range wf.Conversation {
		roles = append(roles, turn.Role)
		assert.Equal(t, testNow, turn.Timestamp)
	}
	assert.Equal(t, []models.Role{
		models.RoleAssistant, // ask salary
		models.RoleUser,
		models.RoleAssistant, // confirmation
		models.RoleAssistant, // ask date
	}, roles)
	assert.Contains(t, wf.Conversation[2].Text, `Recorded "95000" for Annual Salary.`)
	assert.Contains(t, wf.Conversation[2].Text, "Legal compliance check: passed")
}

func TestEngine_SubmitWithoutActiveField(t *testing.T) {
	wf := salaryWorkflow()
	e := New(wf, WithClock(clock))

	res, err := e.SubmitAnswer("95000")
	require.NoError(t, err)
	assert.Equal(t, OutcomeIdle, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrNoActiveField)
	assert.Empty(t, wf.Conversation)
	assert.Empty(t, wf.Fields[0].Value)
	assert.Equal(t, models.StageExtract, wf.Stage)
}

func TestEngine_StaleCursorIsFatal(t *testing.T) {
	wf := salaryWorkflow()
	wf.ActiveFieldID = "field_9"

	_, err := New(wf).SubmitAnswer("x")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestEngine_StartWithoutFields(t *testing.T) {
	wf := &models.Workflow{ID: "wf_empty"}
	assert.ErrorIs(t, New(wf).Start(), ErrNoFields)
}

func TestEngine_StartSkipsFilledFields(t *testing.T) {
	wf := salaryWorkflow()
	wf.Fields[0].Value = "80000"

	require.NoError(t, New(wf, WithClock(clock)).Start())
	assert.Equal(t, "field_1", wf.ActiveFieldID)
}

func TestEngine_StartWithAllFilledCompletes(t *testing.T) {
	wf := salaryWorkflow()
	wf.Fields[0].Value = "80000"
	wf.Fields[1].Value = "2024-01-01"

	require.NoError(t, New(wf, WithClock(clock)).Start())
	assert.True(t, wf.IsComplete())
}

func TestEngine_StartIsIdempotent(t *testing.T) {
	wf := salaryWorkflow()
	e := New(wf, WithClock(clock))
	require.NoError(t, e.Start())
	require.NoError(t, e.Start())
	assert.Len(t, wf.Conversation, 1)
}

func TestEngine_EmailValidation(t *testing.T) {
	wf := &models.Workflow{Fields: []models.Field{
		{ID: "field_0", Label: "Email Address", Type: models.FieldTypeEmail},
	}}
	e := New(wf, WithClock(clock))
	require.NoError(t, e.Start())

	res, err := e.SubmitAnswer("not-an-email")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, res.Outcome)

	var verr *ValidationError
	require.ErrorAs(t, res.Err, &verr)
	assert.Equal(t, "field_0", verr.FieldID)
	assert.Contains(t, lastTurn(wf).Text, "Please provide a valid email address.")

	res, err = e.SubmitAnswer("someone@example.com")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, res.Outcome)
	assert.Equal(t, "someone@example.com", wf.Fields[0].Value)
}

func TestEngine_NeverReviewWithEmptyValues(t *testing.T) {
	wf := salaryWorkflow()
	e := New(wf, WithClock(clock))
	require.NoError(t, e.Start())

	for _, input := range []string{"", "  ", "-5", "0", "abc", "95000", "", "not a date"} {
		_, err := e.SubmitAnswer(input)
		require.NoError(t, err)
		if wf.Stage == models.StageReview {
			assert.Zero(t, wf.MissingFields())
		}
	}
	assert.Equal(t, models.StageDialogue, wf.Stage)
}

func TestEngine_Restart(t *testing.T) {
	wf := salaryWorkflow()
	e := New(wf, WithClock(clock))
	require.NoError(t, e.Start())
	_, _ = e.SubmitAnswer("95000")
	_, _ = e.SubmitAnswer("2024-01-01")
	require.True(t, wf.IsComplete())

	e.Restart()
	assert.Empty(t, wf.Fields[0].Value)
	assert.Empty(t, wf.Fields[1].Value)
	assert.Empty(t, wf.Conversation)
	assert.Nil(t, wf.CompletedAt)
	assert.Equal(t, models.StageExtract, wf.Stage)
	assert.Equal(t, models.StatusInProgress, wf.Status)

	require.NoError(t, e.Start())
	assert.Equal(t, "field_0", wf.ActiveFieldID)
}

func TestEngine_PromptWithoutSuggestion(t *testing.T) {
	wf := &models.Workflow{Fields: []models.Field{{ID: "field_0", Label: "Vesting", Type: models.FieldTypeText}}}
	require.NoError(t, New(wf).Start())

	text := lastTurn(wf).Text
	assert.Contains(t, text, "Please provide the value for this field.")
	assert.NotContains(t, text, "Suggestion")
	assert.NotContains(t, text, "Legal note")
}
