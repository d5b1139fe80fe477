package leaverequest

import (
	"github.com/google/uuid"

	"go-leavehub/internal/domain"
	leaverequesterrors "go-leavehub/internal/leaverequest/errors"
)

// RequesterSnapshot is everything the router needs to know about the
// requester at submission time. Building it requires directory lookups;
// resolving the chain from it is pure.
type RequesterSnapshot struct {
	Role             domain.Role
	DepartmentID     *uuid.UUID
	HasActiveManager bool
	HasActiveAdmin   bool
}

// ResolveChain maps the requester's position in the org hierarchy to the
// ordered approval stages their request must clear.
//
// The chain is the shortest one that still puts somebody above the
// requester's own role on the hook: requests never stall in a tenant with a
// flat org chart, they fall through to admin/owner.
func ResolveChain(s RequesterSnapshot) []domain.Stage {
	// Admins and owners already hold the middle tiers; only the owner can
	// sign off above them.
	if s.Role == domain.RoleAdmin || s.Role == domain.RoleOwner {
		return []domain.Stage{domain.StageOwner}
	}

	var chain []domain.Stage
	if s.Role == domain.RoleEmployee && s.DepartmentID != nil && s.HasActiveManager {
		chain = append(chain, domain.StageManager)
	}
	if s.HasActiveAdmin {
		chain = append(chain, domain.StageAdmin)
	}
	return append(chain, domain.StageOwner)
}

// nextStage is the static escalation table: the entry stage comes from
// ResolveChain, everything after it climbs tier by tier to the owner.
func nextStage(current domain.Stage) (domain.Stage, bool) {
	switch current {
	case domain.StageManager:
		return domain.StageAdmin, false
	case domain.StageAdmin:
		return domain.StageOwner, false
	case domain.StageOwner:
		return domain.StageNone, true
	}
	return domain.StageNone, true
}

// checkStageAuthority is the single place review permissions are decided.
// Admin and owner may always override a lower stage; the manager stage
// additionally pins the approver to the requester's department snapshot.
func checkStageAuthority(stage domain.Stage, actorRole domain.Role, actorDept, requestDept *uuid.UUID) error {
	switch stage {
	case domain.StageManager:
		if actorRole == domain.RoleAdmin || actorRole == domain.RoleOwner {
			return nil
		}
		if actorRole == domain.RoleManager &&
			actorDept != nil && requestDept != nil && *actorDept == *requestDept {
			return nil
		}
	case domain.StageAdmin:
		if actorRole == domain.RoleAdmin || actorRole == domain.RoleOwner {
			return nil
		}
	case domain.StageOwner:
		if actorRole == domain.RoleOwner {
			return nil
		}
	}
	return leaverequesterrors.StageAuthorityViolation(stage, actorRole)
}
