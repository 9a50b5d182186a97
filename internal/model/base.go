package model

import (
	"time"
)

// Role is the authorization role carried by an authenticated actor.
type Role string

const (
	RoleManager     Role = "MANAGER"
	RoleSystemAdmin Role = "SYSTEM_ADMIN"
	RoleClinician   Role = "CLINICIAN"
)

// Actor is the authenticated identity performing an operation. Managers and
// system admins come from the users table, clinicians from the clinicians
// table; the ID is scoped to the corresponding table.
type Actor struct {
	ID         int64  `json:"id"`
	Role       Role   `json:"role"`
	HospitalID *int64 `json:"hospital_id,omitempty"`
	SourceIP   string `json:"-"`
}

func (a *Actor) IsManager() bool {
	return a != nil && a.Role == RoleManager
}

func (a *Actor) IsSystemAdmin() bool {
	return a != nil && a.Role == RoleSystemAdmin
}

func (a *Actor) IsClinician() bool {
	return a != nil && a.Role == RoleClinician
}

// Pagination represents common pagination parameters
type Pagination struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

// Schedule day and time wire formats. Days travel as dd/mm/yyyy strings and
// times as 24-hour HH:MM strings, matching the upstream mobile clients.
const (
	DayLayout  = "02/01/2006"
	TimeLayout = "15:04"
)

// ValidDay reports whether day is a well-formed dd/mm/yyyy date.
func ValidDay(day string) bool {
	_, err := time.Parse(DayLayout, day)
	return err == nil
}

// ValidClock reports whether t is a well-formed 24-hour HH:MM time.
func ValidClock(t string) bool {
	_, err := time.Parse(TimeLayout, t)
	return err == nil
}

// ClockBefore reports whether start is strictly earlier than end. Both
// arguments must already be valid HH:MM strings.
func ClockBefore(start, end string) bool {
	s, err := time.Parse(TimeLayout, start)
	if err != nil {
		return false
	}
	e, err := time.Parse(TimeLayout, end)
	if err != nil {
		return false
	}
	return s.Before(e)
}
