package offers

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

const (
	VisibilityPublic     = "public"
	VisibilityInviteOnly = "invite-only"
)

// DiscountTier prices an offer once the participant count reaches
// Participants. Fields absent in the stored JSON decode to zero, which
// makes such a tier qualify at zero participants with price zero;
// NormalizeStrategy drops the tiers that can never be meant seriously
// (negative values).
type DiscountTier struct {
	Participants int     `json:"participants"`
	Price        float64 `json:"price"`
}

type Offer struct {
	ID                  int64          `json:"id"`
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	ProductService      string         `json:"product_service"`
	TargetRegion        string         `json:"target_region"`
	BasePrice           float64        `json:"base_price"`
	DiscountStrategy    []DiscountTier `json:"discount_strategy"`
	Deadline            time.Time      `json:"deadline"`
	MinimumJoiners      int            `json:"minimum_joiners"`
	TermsConditions     string         `json:"terms_conditions"`
	Visibility          string         `json:"visibility"`
	PointsRequired      int            `json:"points_required"`
	SupplierID          int64          `json:"supplier_id"`
	Status              Status         `json:"status"`
	CurrentParticipants int            `json:"current_participants"`
	Images              []string       `json:"images"`
	Category            string         `json:"category"`
	Tags                []string       `json:"tags"`
	Featured            bool           `json:"featured"`
	PaymentMethods      []string       `json:"payment_methods"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

type Commitment struct {
	ID       int64     `json:"id"`
	OfferID  int64     `json:"offer_id"`
	UserID   int64     `json:"user_id"`
	Amount   float64   `json:"commitment_amount"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
}

const (
	CommitmentCommitted = "committed"
	CommitmentCancelled = "cancelled"
)

// Joinable reports whether the offer can accept joins or orders at t.
// An active offer past its deadline is expired in all but the stored
// status column; nothing writes that transition back.
func (o *Offer) Joinable(t time.Time) bool {
	return o.Status == StatusActive && t.Before(o.Deadline)
}

// EffectiveStatus derives the advisory expired state on read.
func (o *Offer) EffectiveStatus(t time.Time) Status {
	if o.Status == StatusActive && !t.Before(o.Deadline) {
		return StatusExpired
	}
	return o.Status
}
