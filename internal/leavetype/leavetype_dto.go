package leavetype

type CreateLeaveTypeRequest struct {
	Name                string   `json:"name" binding:"required,min=2,max=100"`
	DaysAllowed         *float64 `json:"days_allowed" binding:"omitempty,gt=0"`
	IsPaid              bool     `json:"is_paid"`
	CarryForwardAllowed bool     `json:"carry_forward_allowed"`
	MaxCarryForwardDays float64  `json:"max_carry_forward_days" binding:"omitempty,gte=0"`
	RequiresApproval    *bool    `json:"requires_approval"`
}

type UpdateLeaveTypeRequest struct {
	Name                string   `json:"name" binding:"required,min=2,max=100"`
	DaysAllowed         *float64 `json:"days_allowed" binding:"omitempty,gt=0"`
	IsPaid              bool     `json:"is_paid"`
	CarryForwardAllowed bool     `json:"carry_forward_allowed"`
	MaxCarryForwardDays float64  `json:"max_carry_forward_days" binding:"omitempty,gte=0"`
	RequiresApproval    *bool    `json:"requires_approval"`
}

type LeaveTypeResponse struct {
	ID                  string  `json:"id"`
	CompanyID           string  `json:"company_id"`
	Name                string  `json:"name"`
	Slug                string  `json:"slug"`
	DaysAllowed         *string `json:"days_allowed,omitempty"`
	IsPaid              bool    `json:"is_paid"`
	CarryForwardAllowed bool    `json:"carry_forward_allowed"`
	MaxCarryForwardDays string  `json:"max_carry_forward_days"`
	RequiresApproval    bool    `json:"requires_approval"`
}
