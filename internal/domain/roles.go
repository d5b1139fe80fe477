package domain

// Role is the closed set of workforce roles recognised by the approval
// workflow. Stored as lowercase strings, compared as typed values.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
	RoleOwner    Role = "owner"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleEmployee, RoleManager, RoleAdmin, RoleOwner:
		return Role(s), true
	}
	return "", false
}

// Stage is one tier of the approval chain. StageNone marks terminal requests.
type Stage string

const (
	StageManager Stage = "manager"
	StageAdmin   Stage = "admin"
	StageOwner   Stage = "owner"
	StageNone    Stage = "none"
)

func (s Stage) Terminal() bool {
	return s == StageNone
}
