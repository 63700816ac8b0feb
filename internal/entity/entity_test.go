package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(9*60+30), tod)
	assert.Equal(t, "09:30", tod.String())

	_, err = ParseTimeOfDay("25:99")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestAvailability_Covers(t *testing.T) {
	start, _ := ParseTimeOfDay("08:00")
	end, _ := ParseTimeOfDay("16:00")
	avail := Availability{
		Monday: {Available: true, Start: start, End: end},
	}

	reqStart, _ := ParseTimeOfDay("09:00")
	reqEnd, _ := ParseTimeOfDay("12:00")
	assert.True(t, avail.Covers(Monday, reqStart, reqEnd))
	assert.False(t, avail.Covers(Tuesday, reqStart, reqEnd))

	lateStart, _ := ParseTimeOfDay("15:00")
	lateEnd, _ := ParseTimeOfDay("18:00")
	assert.False(t, avail.Covers(Monday, lateStart, lateEnd))
}

func TestShift_Overlaps(t *testing.T) {
	day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	s1Start, _ := ParseTimeOfDay("08:00")
	s1End, _ := ParseTimeOfDay("16:00")
	s2Start, _ := ParseTimeOfDay("15:00")
	s2End, _ := ParseTimeOfDay("23:00")

	s1 := &Shift{Date: day, Start: s1Start, End: s1End}
	s2 := &Shift{Date: day, Start: s2Start, End: s2End}
	assert.True(t, s1.Overlaps(s2))

	s3Start, _ := ParseTimeOfDay("16:00")
	s3End, _ := ParseTimeOfDay("23:00")
	s3 := &Shift{Date: day, Start: s3Start, End: s3End}
	assert.False(t, s1.Overlaps(s3), "back-to-back shifts must not count as overlapping")

	otherDay := &Shift{Date: day.AddDate(0, 0, 1), Start: s1Start, End: s1End}
	assert.False(t, s1.Overlaps(otherDay))
}

func TestSchedule_ApprovePublishLifecycle(t *testing.T) {
	approver := uuid.New()
	sch := &Schedule{Status: ScheduleDraft}

	require.NoError(t, sch.Approve(approver))
	assert.Equal(t, ScheduleApproved, sch.Status)
	require.NotNil(t, sch.ApprovedBy)
	assert.Equal(t, approver, *sch.ApprovedBy)

	require.NoError(t, sch.Publish())
	assert.Equal(t, SchedulePublished, sch.Status)

	sch.Archive()
	assert.Equal(t, ScheduleArchived, sch.Status)
}

func TestSchedule_PublishRequiresApproval(t *testing.T) {
	sch := &Schedule{Status: ScheduleDraft}
	err := sch.Publish()
	assert.ErrorIs(t, err, ErrScheduleNotApproved)
}

func TestSchedule_NextVersion(t *testing.T) {
	creator := uuid.New()
	weekStart := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	sch := &Schedule{ID: uuid.New(), WeekStart: weekStart, WeekEnd: weekStart.AddDate(0, 0, 6), Version: 1}

	next := sch.NextVersion(creator)
	assert.Equal(t, 2, next.Version)
	require.NotNil(t, next.ParentID)
	assert.Equal(t, sch.ID, *next.ParentID)
	assert.Equal(t, ScheduleDraft, next.Status)
}

func TestAssignment_WithinConfirmWindow(t *testing.T) {
	a := &Assignment{AssignedAt: Now()}
	assert.True(t, a.WithinConfirmWindow(Now().Add(47*time.Hour)))
	assert.False(t, a.WithinConfirmWindow(Now().Add(49*time.Hour)))
}

func TestEmployee_HasQualifications(t *testing.T) {
	e := &Employee{Qualifications: map[string]struct{}{"forklift": {}, "first-aid": {}}}
	assert.True(t, e.HasQualifications(map[string]struct{}{"forklift": {}}))
	assert.False(t, e.HasQualifications(map[string]struct{}{"crane": {}}))
}
