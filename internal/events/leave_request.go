package events

import "time"

const LeaveNotificationTopic = "hr.leave.notification.v1"

const (
	EventLeaveRequestSubmitted = "leave_request.submitted"
	EventLeaveRequestEscalated = "leave_request.escalated"
	EventLeaveRequestApproved  = "leave_request.approved"
	EventLeaveRequestRejected  = "leave_request.rejected"
)

// LeaveNotification is the payload shipped to the notification sink for every
// request transition. RecipientID is the user the notification targets.
type LeaveNotification struct {
	EventType   string         `json:"event_type"`
	CompanyID   string         `json:"company_id"`
	RequestID   string         `json:"request_id"`
	RecipientID string         `json:"recipient_id"`
	Template    string         `json:"template"`
	Payload     map[string]any `json:"payload,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}
