package domain

import "time"

// DefaultDailyWorkHours is the divisor used to convert logged hours into
// days when a user has no configured value.
const DefaultDailyWorkHours = 8.0

type User struct {
	ID             string
	Name           string
	Type           UserType
	DailyWorkHours float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAdmin reports whether the user holds the administrator type.
func (u *User) IsAdmin() bool {
	return u.Type == UserAdmin
}

// EffectiveDailyHours returns the user's configured daily work hours,
// falling back to the default when unset.
func (u *User) EffectiveDailyHours() float64 {
	if u.DailyWorkHours > 0 {
		return u.DailyWorkHours
	}
	return DefaultDailyWorkHours
}
