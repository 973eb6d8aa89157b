package complaints

import "time"

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

type Complaint struct {
	ID            int64      `json:"id"`
	OrderID       *int64     `json:"order_id"`
	ComplainantID int64      `json:"complainant_id"`
	AgainstUserID *int64     `json:"against_user_id"`
	Type          string     `json:"complaint_type"`
	Subject       string     `json:"subject"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	AdminResponse string     `json:"admin_response"`
	Resolution    string     `json:"resolution"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ResolvedAt    *time.Time `json:"resolved_at"`
}
