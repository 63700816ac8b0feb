package helpers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shiftsync/scheduler/internal/entity"
)

// EmployeeBuilder builds Employee entities with a fluent interface.
type EmployeeBuilder struct {
	id             uuid.UUID
	email          string
	passwordHash   string
	role           entity.Role
	isActive       bool
	departmentID   *uuid.UUID
	firstName      string
	lastName       string
	hourlyRate     float64
	maxHoursPerWk  int
	qualifications map[string]struct{}
	availability   entity.Availability
	createdAt      time.Time
	updatedAt      time.Time
	deletedAt      *time.Time
}

// NewEmployeeBuilder creates an EmployeeBuilder with sensible defaults.
func NewEmployeeBuilder() *EmployeeBuilder {
	now := time.Now().UTC()
	return &EmployeeBuilder{
		id:            uuid.New(),
		email:         "employee@example.com",
		passwordHash:  "hashed_password_here",
		role:          entity.RoleEmployee,
		isActive:      true,
		firstName:     "Test",
		lastName:      "Employee",
		hourlyRate:    18.50,
		maxHoursPerWk: 40,
		qualifications: map[string]struct{}{},
		availability:  entity.Availability{},
		createdAt:     now,
		updatedAt:     now,
	}
}

func (b *EmployeeBuilder) WithID(id uuid.UUID) *EmployeeBuilder {
	b.id = id
	return b
}

func (b *EmployeeBuilder) WithEmail(email string) *EmployeeBuilder {
	b.email = email
	return b
}

func (b *EmployeeBuilder) WithRole(role entity.Role) *EmployeeBuilder {
	b.role = role
	return b
}

func (b *EmployeeBuilder) WithActive(active bool) *EmployeeBuilder {
	b.isActive = active
	return b
}

func (b *EmployeeBuilder) WithDepartmentID(id *uuid.UUID) *EmployeeBuilder {
	b.departmentID = id
	return b
}

func (b *EmployeeBuilder) WithName(first, last string) *EmployeeBuilder {
	b.firstName = first
	b.lastName = last
	return b
}

func (b *EmployeeBuilder) WithHourlyRate(rate float64) *EmployeeBuilder {
	b.hourlyRate = rate
	return b
}

func (b *EmployeeBuilder) WithMaxHoursPerWeek(hours int) *EmployeeBuilder {
	b.maxHoursPerWk = hours
	return b
}

func (b *EmployeeBuilder) WithQualifications(tags ...string) *EmployeeBuilder {
	b.qualifications = make(map[string]struct{}, len(tags))
	for _, t := range tags {
		b.qualifications[t] = struct{}{}
	}
	return b
}

func (b *EmployeeBuilder) WithAvailability(a entity.Availability) *EmployeeBuilder {
	b.availability = a
	return b
}

func (b *EmployeeBuilder) WithCreatedAt(t time.Time) *EmployeeBuilder {
	b.createdAt = t
	return b
}

func (b *EmployeeBuilder) WithUpdatedAt(t time.Time) *EmployeeBuilder {
	b.updatedAt = t
	return b
}

func (b *EmployeeBuilder) WithDeletedAt(t *time.Time) *EmployeeBuilder {
	b.deletedAt = t
	return b
}

// Build creates the Employee entity.
func (b *EmployeeBuilder) Build() *entity.Employee {
	return &entity.Employee{
		ID:              b.id,
		Email:           b.email,
		PasswordHash:    b.passwordHash,
		Role:            b.role,
		IsActive:        b.isActive,
		DepartmentID:    b.departmentID,
		FirstName:       b.firstName,
		LastName:        b.lastName,
		HourlyRate:      b.hourlyRate,
		MaxHoursPerWeek: b.maxHoursPerWk,
		Qualifications:  b.qualifications,
		Availability:    b.availability,
		CreatedAt:       b.createdAt,
		UpdatedAt:       b.updatedAt,
		DeletedAt:       b.deletedAt,
	}
}

// DepartmentBuilder builds Department entities with a fluent interface.
type DepartmentBuilder struct {
	id        uuid.UUID
	name      string
	parentID  *uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

func NewDepartmentBuilder() *DepartmentBuilder {
	now := time.Now().UTC()
	return &DepartmentBuilder{
		id:        uuid.New(),
		name:      "Test Department",
		createdAt: now,
		updatedAt: now,
	}
}

func (b *DepartmentBuilder) WithID(id uuid.UUID) *DepartmentBuilder {
	b.id = id
	return b
}

func (b *DepartmentBuilder) WithName(name string) *DepartmentBuilder {
	b.name = name
	return b
}

func (b *DepartmentBuilder) WithParentID(id *uuid.UUID) *DepartmentBuilder {
	b.parentID = id
	return b
}

func (b *DepartmentBuilder) Build() *entity.Department {
	return &entity.Department{
		ID:        b.id,
		Name:      b.name,
		ParentID:  b.parentID,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}
}

// ShiftBuilder builds Shift entities with a fluent interface.
type ShiftBuilder struct {
	id            uuid.UUID
	date          time.Time
	start         entity.TimeOfDay
	end           entity.TimeOfDay
	shiftType     entity.ShiftType
	departmentID  *uuid.UUID
	requiredStaff int
	priority      int
	requirements  map[string]struct{}
	createdAt     time.Time
	updatedAt     time.Time
	deletedAt     *time.Time
}

func NewShiftBuilder() *ShiftBuilder {
	now := time.Now().UTC()
	start, _ := entity.ParseTimeOfDay("08:00")
	end, _ := entity.ParseTimeOfDay("16:00")
	return &ShiftBuilder{
		id:            uuid.New(),
		date:          time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		start:         start,
		end:           end,
		shiftType:     entity.ShiftMorning,
		requiredStaff: 1,
		priority:      5,
		requirements:  map[string]struct{}{},
		createdAt:     now,
		updatedAt:     now,
	}
}

func (b *ShiftBuilder) WithID(id uuid.UUID) *ShiftBuilder {
	b.id = id
	return b
}

func (b *ShiftBuilder) WithDate(d time.Time) *ShiftBuilder {
	b.date = d
	return b
}

func (b *ShiftBuilder) WithStart(t entity.TimeOfDay) *ShiftBuilder {
	b.start = t
	return b
}

func (b *ShiftBuilder) WithEnd(t entity.TimeOfDay) *ShiftBuilder {
	b.end = t
	return b
}

func (b *ShiftBuilder) WithShiftType(st entity.ShiftType) *ShiftBuilder {
	b.shiftType = st
	return b
}

func (b *ShiftBuilder) WithDepartmentID(id *uuid.UUID) *ShiftBuilder {
	b.departmentID = id
	return b
}

func (b *ShiftBuilder) WithRequiredStaff(n int) *ShiftBuilder {
	b.requiredStaff = n
	return b
}

func (b *ShiftBuilder) WithPriority(p int) *ShiftBuilder {
	b.priority = p
	return b
}

func (b *ShiftBuilder) WithRequirements(tags ...string) *ShiftBuilder {
	b.requirements = make(map[string]struct{}, len(tags))
	for _, t := range tags {
		b.requirements[t] = struct{}{}
	}
	return b
}

func (b *ShiftBuilder) WithDeletedAt(t *time.Time) *ShiftBuilder {
	b.deletedAt = t
	return b
}

func (b *ShiftBuilder) Build() *entity.Shift {
	return &entity.Shift{
		ID:            b.id,
		Date:          b.date,
		Start:         b.start,
		End:           b.end,
		ShiftType:     b.shiftType,
		DepartmentID:  b.departmentID,
		RequiredStaff: b.requiredStaff,
		Priority:      b.priority,
		Requirements:  b.requirements,
		CreatedAt:     b.createdAt,
		UpdatedAt:     b.updatedAt,
		DeletedAt:     b.deletedAt,
	}
}

// ScheduleBuilder builds Schedule entities with a fluent interface.
type ScheduleBuilder struct {
	id         uuid.UUID
	weekStart  time.Time
	weekEnd    time.Time
	title      string
	status     entity.ScheduleStatus
	createdBy  uuid.UUID
	approvedBy *uuid.UUID
	version    int
	parentID   *uuid.UUID
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

func NewScheduleBuilder() *ScheduleBuilder {
	now := time.Now().UTC()
	weekStart := now.AddDate(0, 0, -int(now.Weekday()))
	return &ScheduleBuilder{
		id:        uuid.New(),
		weekStart: weekStart,
		weekEnd:   weekStart.AddDate(0, 0, 6),
		title:     "Test Schedule",
		status:    entity.ScheduleDraft,
		createdBy: uuid.New(),
		version:   1,
		createdAt: now,
		updatedAt: now,
	}
}

func (b *ScheduleBuilder) WithID(id uuid.UUID) *ScheduleBuilder {
	b.id = id
	return b
}

func (b *ScheduleBuilder) WithWeek(start, end time.Time) *ScheduleBuilder {
	b.weekStart = start
	b.weekEnd = end
	return b
}

func (b *ScheduleBuilder) WithStatus(s entity.ScheduleStatus) *ScheduleBuilder {
	b.status = s
	return b
}

func (b *ScheduleBuilder) WithCreatedBy(id uuid.UUID) *ScheduleBuilder {
	b.createdBy = id
	return b
}

func (b *ScheduleBuilder) WithApprovedBy(id *uuid.UUID) *ScheduleBuilder {
	b.approvedBy = id
	return b
}

func (b *ScheduleBuilder) WithVersion(v int) *ScheduleBuilder {
	b.version = v
	return b
}

func (b *ScheduleBuilder) WithParentID(id *uuid.UUID) *ScheduleBuilder {
	b.parentID = id
	return b
}

func (b *ScheduleBuilder) WithDeletedAt(t *time.Time) *ScheduleBuilder {
	b.deletedAt = t
	return b
}

func (b *ScheduleBuilder) Build() *entity.Schedule {
	return &entity.Schedule{
		ID:         b.id,
		WeekStart:  b.weekStart,
		WeekEnd:    b.weekEnd,
		Title:      b.title,
		Status:     b.status,
		CreatedBy:  b.createdBy,
		ApprovedBy: b.approvedBy,
		Version:    b.version,
		ParentID:   b.parentID,
		CreatedAt:  b.createdAt,
		UpdatedAt:  b.updatedAt,
		DeletedAt:  b.deletedAt,
	}
}

// AssignmentBuilder builds Assignment entities with a fluent interface.
type AssignmentBuilder struct {
	id                uuid.UUID
	scheduleID        uuid.UUID
	employeeID        uuid.UUID
	shiftID           uuid.UUID
	status            entity.AssignmentStatus
	priority          int
	assignedBy        uuid.UUID
	assignedAt        time.Time
	conflictsResolved bool
	autoAssigned      bool
	createdAt         time.Time
	updatedAt         time.Time
	deletedAt         *time.Time
}

func NewAssignmentBuilder() *AssignmentBuilder {
	now := time.Now().UTC()
	return &AssignmentBuilder{
		id:         uuid.New(),
		scheduleID: uuid.New(),
		employeeID: uuid.New(),
		shiftID:    uuid.New(),
		status:     entity.AssignmentAssigned,
		priority:   5,
		assignedBy: uuid.New(),
		assignedAt: now,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (b *AssignmentBuilder) WithID(id uuid.UUID) *AssignmentBuilder {
	b.id = id
	return b
}

func (b *AssignmentBuilder) WithScheduleID(id uuid.UUID) *AssignmentBuilder {
	b.scheduleID = id
	return b
}

func (b *AssignmentBuilder) WithEmployeeID(id uuid.UUID) *AssignmentBuilder {
	b.employeeID = id
	return b
}

func (b *AssignmentBuilder) WithShiftID(id uuid.UUID) *AssignmentBuilder {
	b.shiftID = id
	return b
}

func (b *AssignmentBuilder) WithStatus(s entity.AssignmentStatus) *AssignmentBuilder {
	b.status = s
	return b
}

func (b *AssignmentBuilder) WithAssignedAt(t time.Time) *AssignmentBuilder {
	b.assignedAt = t
	return b
}

func (b *AssignmentBuilder) WithAutoAssigned(auto bool) *AssignmentBuilder {
	b.autoAssigned = auto
	return b
}

func (b *AssignmentBuilder) WithDeletedAt(t *time.Time) *AssignmentBuilder {
	b.deletedAt = t
	return b
}

func (b *AssignmentBuilder) Build() *entity.Assignment {
	return &entity.Assignment{
		ID:                b.id,
		ScheduleID:        b.scheduleID,
		EmployeeID:        b.employeeID,
		ShiftID:           b.shiftID,
		Status:            b.status,
		Priority:          b.priority,
		AssignedBy:        b.assignedBy,
		AssignedAt:        b.assignedAt,
		ConflictsResolved: b.conflictsResolved,
		AutoAssigned:      b.autoAssigned,
		CreatedAt:         b.createdAt,
		UpdatedAt:         b.updatedAt,
		DeletedAt:         b.deletedAt,
	}
}

// RuleBuilder builds Rule entities with a fluent interface.
type RuleBuilder struct {
	id         uuid.UUID
	ruleType   entity.RuleType
	employeeID *uuid.UUID
	priority   int
	active     bool
	sourceText string
	structured entity.RuleStructured
	createdAt  time.Time
}

func NewRuleBuilder() *RuleBuilder {
	return &RuleBuilder{
		id:         uuid.New(),
		ruleType:   entity.RuleAvailability,
		priority:   5,
		active:     true,
		sourceText: "I can't work Sundays",
		createdAt:  time.Now().UTC(),
	}
}

func (b *RuleBuilder) WithID(id uuid.UUID) *RuleBuilder {
	b.id = id
	return b
}

func (b *RuleBuilder) WithRuleType(rt entity.RuleType) *RuleBuilder {
	b.ruleType = rt
	return b
}

func (b *RuleBuilder) WithEmployeeID(id *uuid.UUID) *RuleBuilder {
	b.employeeID = id
	return b
}

func (b *RuleBuilder) WithActive(active bool) *RuleBuilder {
	b.active = active
	return b
}

func (b *RuleBuilder) WithSourceText(text string) *RuleBuilder {
	b.sourceText = text
	return b
}

func (b *RuleBuilder) WithStructured(s entity.RuleStructured) *RuleBuilder {
	b.structured = s
	return b
}

func (b *RuleBuilder) Build() *entity.Rule {
	return &entity.Rule{
		ID:         b.id,
		RuleType:   b.ruleType,
		EmployeeID: b.employeeID,
		Priority:   b.priority,
		Active:     b.active,
		SourceText: b.sourceText,
		Structured: b.structured,
		CreatedAt:  b.createdAt,
	}
}
