package leaverequest

type SubmitLeaveRequest struct {
	EmployeeID   string `json:"employee_id" binding:"omitempty,uuid"`
	LeaveTypeID  string `json:"leave_type_id" binding:"required,uuid"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
	HalfDayStart bool   `json:"half_day_start"`
	HalfDayEnd   bool   `json:"half_day_end"`
	Reason       string `json:"reason"`
}

type ReviewLeaveRequest struct {
	Approve *bool  `json:"approve" binding:"required"`
	Notes   string `json:"notes"`
}

type StageReviewResponse struct {
	ReviewerID *string `json:"reviewer_id,omitempty"`
	ReviewedAt *string `json:"reviewed_at,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type LeaveRequestResponse struct {
	ID            string  `json:"id"`
	RequestNumber int64   `json:"request_number"`
	CompanyID     string  `json:"company_id"`
	EmployeeID    string  `json:"employee_id"`
	DepartmentID  *string `json:"department_id,omitempty"`
	LeaveTypeID   string  `json:"leave_type_id"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	HalfDayStart  bool    `json:"half_day_start"`
	HalfDayEnd    bool    `json:"half_day_end"`
	DaysRequested string  `json:"days_requested"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	CurrentStage  string  `json:"current_stage"`

	Manager StageReviewResponse `json:"manager_review"`
	Admin   StageReviewResponse `json:"admin_review"`
	Owner   StageReviewResponse `json:"owner_review"`

	CreatedAt string `json:"created_at"`
}
