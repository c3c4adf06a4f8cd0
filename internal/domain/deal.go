package domain

import "time"

type DealCategory string

const (
	CategoryDevTools     DealCategory = "devtools"
	CategoryAnalytics    DealCategory = "analytics"
	CategoryDesign       DealCategory = "design"
	CategoryMarketing    DealCategory = "marketing"
	CategoryProductivity DealCategory = "productivity"
	CategoryCloud        DealCategory = "cloud"
	CategorySecurity     DealCategory = "security"
	CategoryDatabase     DealCategory = "database"
	CategoryDevOps       DealCategory = "devops"
	CategoryOther        DealCategory = "other"
)

// Deal is a partner offer in the catalog. Locked deals can only be claimed
// by admin-verified users.
type Deal struct {
	ID               string
	Name             string
	Slug             string
	ShortDescription string
	Description      string
	Category         DealCategory
	Value            int
	Discount         int
	Company          string
	Logo             string
	Link             string
	CouponCode       string
	IsLocked         bool
	EligibilityText  string
	ExpirationDate   time.Time
	IsFeatured       bool
	IsAvailable      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Expired reports whether the deal's expiration date has passed.
func (d *Deal) Expired(now time.Time) bool {
	return !d.ExpirationDate.IsZero() && d.ExpirationDate.Before(now)
}
