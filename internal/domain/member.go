package domain

import "time"

type MemberRole string

const (
	MemberRoleMember MemberRole = "MEMBER"
	MemberRoleAdmin  MemberRole = "ADMIN"
)

type Member struct {
	ID               int32      `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Address          string     `json:"address,omitempty"`
	Phones           []string   `json:"phones,omitempty"`
	Role             MemberRole `json:"role"`
	PasswordHash     string     `json:"-"`
	RegistrationDate time.Time  `json:"registration_date"`
	IsActive         bool       `json:"is_active"`
}
