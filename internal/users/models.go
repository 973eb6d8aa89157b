package users

import "time"

const (
	TypeBuyer  = "buyer"
	TypeSeller = "seller"
	TypeOffice = "office"
)

const (
	KYCPending  = "pending"
	KYCVerified = "verified"
	KYCRejected = "rejected"
)

type User struct {
	ID            int64      `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	UserType      string     `json:"user_type"`
	KYCStatus     string     `json:"kyc_status"`
	KYCVerifiedAt *time.Time `json:"kyc_verified_at"`
	Points        int        `json:"points"`
	CompanyName   string     `json:"company_name"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	Rating        float64    `json:"rating"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastLogin     *time.Time `json:"last_login"`
}

type RegisterParams struct {
	Username    string
	Email       string
	Password    string
	UserType    string
	CompanyName string
	Phone       string
	Address     string
}

type Stats struct {
	TotalUsers    int `json:"total_users"`
	ActiveUsers   int `json:"active_users"`
	TotalOffers   int `json:"total_offers"`
	ActiveOffers  int `json:"active_offers"`
	PendingOffers int `json:"pending_offers"`
	PendingKYC    int `json:"pending_kyc"`
}
