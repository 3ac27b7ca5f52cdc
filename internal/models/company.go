package models

// Company is the tenant boundary: every user, expense and approval rule
// belongs to exactly one company.
type Company struct {
	Base
	Name     string `gorm:"not null" json:"name"`
	Country  string `gorm:"not null" json:"country"`
	Currency string `gorm:"size:3;not null;default:USD" json:"currency"`
}
