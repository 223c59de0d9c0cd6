package model

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

// StarterTokens is granted to every new student profile.
const StarterTokens int64 = 10

type Profile struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Role           Role      `json:"role"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Bio            string    `json:"bio,omitempty"`
	Expertise      []string  `json:"expertise,omitempty"`   // tutors only
	HourlyRate     int64     `json:"hourly_rate,omitempty"` // tokens per hour, tutors only
	Tokens         int64     `json:"tokens"`
	TotalEarnings  int64     `json:"total_earnings,omitempty"` // tutors only
	IsApproved     bool      `json:"is_approved"`
	ProfileImageID *string   `json:"profile_image_id,omitempty"`
	TelegramChatID *int64    `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p *Profile) IsTutor() bool {
	return p.Role == RoleTutor
}

func (p *Profile) IsStudent() bool {
	return p.Role == RoleStudent
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
