package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidationResultCreation tests creating a new result
func TestValidationResultCreation(t *testing.T) {
	result := NewResult()

	assert.NotNil(t, result)
	assert.Empty(t, result.Messages)
	assert.True(t, result.IsValid())
	assert.True(t, result.CanImport())
	assert.True(t, result.CanPromote())
}

// TestAddError tests adding error messages
func TestAddError(t *testing.T) {
	result := NewResult()

	result.AddError(CodeDoubleBooked, "employee already assigned to an overlapping shift on 2026-08-03")

	assert.Len(t, result.Messages, 1)
	assert.False(t, result.IsValid())
	assert.False(t, result.CanImport())
	assert.False(t, result.CanPromote())
	assert.Equal(t, 1, result.ErrorCount())
}

// TestAddWarning tests adding warning messages
func TestAddWarning(t *testing.T) {
	result := NewResult()

	result.AddWarning(CodeInsufficientRest, "less than 8 hours between shifts for employee")

	assert.Len(t, result.Messages, 1)
	assert.True(t, result.IsValid())   // Warnings don't make it invalid
	assert.True(t, result.CanImport()) // Can apply with warnings
	assert.False(t, result.CanPromote())
	assert.Equal(t, 1, result.WarningCount())
}

// TestAddInfo tests adding info messages
func TestAddInfo(t *testing.T) {
	result := NewResult()

	result.AddInfo("INFO_CODE", "This is informational")

	assert.Len(t, result.Messages, 1)
	assert.True(t, result.IsValid())
	assert.True(t, result.CanImport())
	assert.True(t, result.CanPromote())
	assert.Equal(t, 1, result.InfoCount())
}

// TestMultipleMessages tests collecting multiple messages
func TestMultipleMessages(t *testing.T) {
	result := NewResult()

	result.
		AddError(CodeEmployeeUnqualified, "employee lacks required qualification forklift").
		AddWarning(CodeInsufficientRest, "less than 8 hours between shifts").
		AddInfo("INFO_CODE", "processing completed with warnings")

	assert.Len(t, result.Messages, 3)
	assert.Equal(t, 1, result.ErrorCount())
	assert.Equal(t, 1, result.WarningCount())
	assert.Equal(t, 1, result.InfoCount())
	assert.False(t, result.IsValid())
	assert.False(t, result.CanImport())
	assert.False(t, result.CanPromote())
}

// TestMessagesByCode tests filtering messages by code
func TestMessagesByCode(t *testing.T) {
	result := NewResult()

	result.
		AddError(CodeDoubleBooked, "employee 1 is double booked").
		AddError(CodeDoubleBooked, "employee 2 is double booked")

	messages := result.MessagesByCode(CodeDoubleBooked)

	assert.Len(t, messages, 2)
	for _, msg := range messages {
		assert.Equal(t, CodeDoubleBooked, msg.Code)
	}
}

// TestMessagesBySeverity tests filtering messages by severity
func TestMessagesBySeverity(t *testing.T) {
	result := NewResult()

	result.
		AddError(CodeDoubleBooked, "Error 1").
		AddError(CodeDoubleBooked, "Error 2").
		AddWarning(CodeInsufficientRest, "Warning 1").
		AddInfo("CODE", "Info 1")

	errs := result.MessagesBySeverity(SeverityError)
	warnings := result.MessagesBySeverity(SeverityWarning)
	infos := result.MessagesBySeverity(SeverityInfo)

	assert.Len(t, errs, 2)
	assert.Len(t, warnings, 1)
	assert.Len(t, infos, 1)
}

// TestHasErrorsAndWarnings tests flag methods
func TestHasErrorsAndWarnings(t *testing.T) {
	resultClean := NewResult()
	assert.False(t, resultClean.HasErrors())
	assert.False(t, resultClean.HasWarnings())

	resultWithError := NewResult().AddError("CODE", "Error")
	assert.True(t, resultWithError.HasErrors())
	assert.False(t, resultWithError.HasWarnings())

	resultWithWarning := NewResult().AddWarning("CODE", "Warning")
	assert.False(t, resultWithWarning.HasErrors())
	assert.True(t, resultWithWarning.HasWarnings())

	resultWithBoth := NewResult().
		AddError("ERR", "Error").
		AddWarning("WARN", "Warning")
	assert.True(t, resultWithBoth.HasErrors())
	assert.True(t, resultWithBoth.HasWarnings())
}

// TestWithContext tests messages with additional context
func TestWithContext(t *testing.T) {
	result := NewResult()

	context := map[string]interface{}{
		"shift_id":    "c2f6b2b0-0000-0000-0000-000000000001",
		"employee_id": "c2f6b2b0-0000-0000-0000-000000000002",
	}

	result.AddErrorWithContext(CodeDoubleBooked, "employee already assigned to an overlapping shift", context)

	assert.Len(t, result.Messages, 1)
	msg := result.Messages[0]
	assert.Equal(t, context, msg.Context)
	assert.Equal(t, "c2f6b2b0-0000-0000-0000-000000000001", msg.Context["shift_id"])
}

// TestToJSON tests JSON serialization
func TestToJSON(t *testing.T) {
	result := NewResult()

	result.
		AddError(CodeDoubleBooked, "employee is double booked").
		AddWarning(CodeInsufficientRest, "insufficient rest")

	j, err := result.ToJSON()

	assert.NoError(t, err)
	assert.NotEmpty(t, j)
	assert.Contains(t, j, "DOUBLE_BOOKED")
	assert.Contains(t, j, "INSUFFICIENT_REST")
	assert.Contains(t, j, "ERROR")
	assert.Contains(t, j, "WARNING")
}

// TestFromJSON tests JSON deserialization
func TestFromJSON(t *testing.T) {
	original := NewResult()
	original.
		AddError(CodeDoubleBooked, "employee is double booked").
		AddWarning(CodeInsufficientRest, "insufficient rest")

	jsonStr, err := original.ToJSON()
	require.NoError(t, err)

	restored, err := FromJSON(jsonStr)
	require.NoError(t, err)

	assert.Len(t, restored.Messages, 2)
	assert.Equal(t, original.ErrorCount(), restored.ErrorCount())
	assert.Equal(t, original.WarningCount(), restored.WarningCount())
}

// TestSummary tests human-readable summary
func TestSummary(t *testing.T) {
	result := NewResult()
	result.
		AddError(CodeDoubleBooked, "employee is double booked").
		AddWarning(CodeInsufficientRest, "insufficient rest").
		AddInfo("INFO", "done")

	summary := result.Summary()

	assert.Contains(t, summary, "1 errors")
	assert.Contains(t, summary, "1 warnings")
	assert.Contains(t, summary, "1 info")
	assert.Contains(t, summary, "DOUBLE_BOOKED")
	assert.Contains(t, summary, "INSUFFICIENT_REST")
}

// TestChaining tests method chaining
func TestChaining(t *testing.T) {
	result := NewResult().
		AddError("CODE1", "Error 1").
		AddWarning("CODE2", "Warning 1").
		AddInfo("CODE3", "Info 1")

	assert.Len(t, result.Messages, 3)
	assert.Equal(t, 1, result.ErrorCount())
	assert.Equal(t, 1, result.WarningCount())
	assert.Equal(t, 1, result.InfoCount())
}

// TestBulkAssignmentScenario mirrors a partial-success bulk apply: some
// assignments succeed, some fail validation, one warning-level conflict.
func TestBulkAssignmentScenario(t *testing.T) {
	result := NewResult()

	result.AddErrorWithContext(
		CodeDoubleBooked,
		"employee already assigned to an overlapping shift",
		map[string]interface{}{
			"employee_id": "emp-1",
			"shift_id":    "shift-9",
		},
	)

	result.AddErrorWithContext(
		CodeEmployeeUnqualified,
		"employee lacks required qualification",
		map[string]interface{}{
			"employee_id":   "emp-2",
			"qualification": "forklift",
		},
	)

	result.AddWarning(
		CodeInsufficientRest,
		"less than 8 hours rest before next shift",
	)

	result.AddInfo(
		"ASSIGNMENTS_CREATED",
		"created 18 of 20 requested assignments",
	)

	assert.False(t, result.CanImport())
	assert.False(t, result.CanPromote())
	assert.True(t, result.HasErrors())
	assert.True(t, result.HasWarnings())
}
