package leaverequest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"go-leavehub/internal/domain"
)

func TestResolveChain(t *testing.T) {
	deptID := uuid.New()

	testCases := []struct {
		name     string
		snapshot RequesterSnapshot
		expected []domain.Stage
	}{
		{
			name: "employee with manager and admin",
			snapshot: RequesterSnapshot{
				Role:             domain.RoleEmployee,
				DepartmentID:     &deptID,
				HasActiveManager: true,
				HasActiveAdmin:   true,
			},
			expected: []domain.Stage{domain.StageManager, domain.StageAdmin, domain.StageOwner},
		},
		{
			name: "employee without department skips manager stage",
			snapshot: RequesterSnapshot{
				Role:           domain.RoleEmployee,
				HasActiveAdmin: true,
			},
			expected: []domain.Stage{domain.StageAdmin, domain.StageOwner},
		},
		{
			name: "employee with department but no active manager",
			snapshot: RequesterSnapshot{
				Role:           domain.RoleEmployee,
				DepartmentID:   &deptID,
				HasActiveAdmin: true,
			},
			expected: []domain.Stage{domain.StageAdmin, domain.StageOwner},
		},
		{
			name: "employee in a flat org falls through to owner",
			snapshot: RequesterSnapshot{
				Role: domain.RoleEmployee,
			},
			expected: []domain.Stage{domain.StageOwner},
		},
		{
			name: "manager skips the manager stage",
			snapshot: RequesterSnapshot{
				Role:             domain.RoleManager,
				DepartmentID:     &deptID,
				HasActiveManager: true,
				HasActiveAdmin:   true,
			},
			expected: []domain.Stage{domain.StageAdmin, domain.StageOwner},
		},
		{
			name: "admin goes straight to owner",
			snapshot: RequesterSnapshot{
				Role:             domain.RoleAdmin,
				DepartmentID:     &deptID,
				HasActiveManager: true,
				HasActiveAdmin:   true,
			},
			expected: []domain.Stage{domain.StageOwner},
		},
		{
			name: "owner reviews their own request at owner stage",
			snapshot: RequesterSnapshot{
				Role:           domain.RoleOwner,
				HasActiveAdmin: true,
			},
			expected: []domain.Stage{domain.StageOwner},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveChain(tc.snapshot))
		})
	}
}

func TestNextStage(t *testing.T) {
	next, terminal := nextStage(domain.StageManager)
	assert.Equal(t, domain.StageAdmin, next)
	assert.False(t, terminal)

	next, terminal = nextStage(domain.StageAdmin)
	assert.Equal(t, domain.StageOwner, next)
	assert.False(t, terminal)

	next, terminal = nextStage(domain.StageOwner)
	assert.Equal(t, domain.StageNone, next)
	assert.True(t, terminal)
}

func TestCheckStageAuthority(t *testing.T) {
	deptA := uuid.New()
	deptB := uuid.New()

	testCases := []struct {
		name      string
		stage     domain.Stage
		role      domain.Role
		actorDept *uuid.UUID
		reqDept   *uuid.UUID
		allowed   bool
	}{
		{"same-dept manager at manager stage", domain.StageManager, domain.RoleManager, &deptA, &deptA, true},
		{"other-dept manager at manager stage", domain.StageManager, domain.RoleManager, &deptB, &deptA, false},
		{"manager without department at manager stage", domain.StageManager, domain.RoleManager, nil, &deptA, false},
		{"employee at manager stage", domain.StageManager, domain.RoleEmployee, &deptA, &deptA, false},
		{"admin overrides manager stage", domain.StageManager, domain.RoleAdmin, nil, &deptA, true},
		{"owner overrides manager stage", domain.StageManager, domain.RoleOwner, nil, &deptA, true},
		{"manager at admin stage", domain.StageAdmin, domain.RoleManager, &deptA, &deptA, false},
		{"admin at admin stage", domain.StageAdmin, domain.RoleAdmin, nil, nil, true},
		{"owner overrides admin stage", domain.StageAdmin, domain.RoleOwner, nil, nil, true},
		{"admin at owner stage", domain.StageOwner, domain.RoleAdmin, nil, nil, false},
		{"owner at owner stage", domain.StageOwner, domain.RoleOwner, nil, nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkStageAuthority(tc.stage, tc.role, tc.actorDept, tc.reqDept)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestComputeDays(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	start := date(2026, time.March, 2)
	end := date(2026, time.March, 6)

	assert.Equal(t, "5", computeDays(start, end, false, false).String())
	assert.Equal(t, "4.5", computeDays(start, end, true, false).String())
	assert.Equal(t, "4", computeDays(start, end, true, true).String())

	// Single day requests.
	assert.Equal(t, "1", computeDays(start, start, false, false).String())
	assert.Equal(t, "0.5", computeDays(start, start, true, false).String())
	assert.Equal(t, "0.5", computeDays(start, start, false, true).String())
	assert.Equal(t, "0.5", computeDays(start, start, true, true).String())
}
