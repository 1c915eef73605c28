package models

import (
	"regexp"
	"time"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

const MaxNameLength = 50

type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           UserRole
	IsActive       bool
	LastLogin      *time.Time
	PortfolioItems []PortfolioItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserSummary is the admin-listing projection of a user: no password hash,
// portfolio reduced to a count.
type UserSummary struct {
	ID                  string
	Name                string
	Email               string
	Role                UserRole
	CreatedAt           time.Time
	LastLogin           *time.Time
	PortfolioItemsCount int
}

// Stats is computed over all user records; only ActiveUsers honors the
// is_active flag.
type Stats struct {
	TotalUsers          int64
	AdminUsers          int64
	RegularUsers        int64
	TotalPortfolioItems int64
	ActiveUsers         int64
}

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
