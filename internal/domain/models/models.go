package models

import (
	"time"

	"cinetrack/proj/internal/domain/fields"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID               int64             `json:"id"`
	Username         string            `json:"username"`
	Email            string            `json:"email"`
	PasswordHash     []byte            `json:"-"`
	VerificationCode string            `json:"-"`
	IsVerified       bool              `json:"isVerified"`
	IsDisabled       bool              `json:"isDisabled"`
	DisabledAt       *time.Time        `json:"-"`
	Role             string            `json:"role"`
	Bio              string            `json:"bio"`
	Image            string            `json:"image"`
	IsPrivate        bool              `json:"isPrivate"`
	Awards           []string          `json:"awards"`
	SocialLinks      map[string]string `json:"socialLinks"`
	Lists            Lists             `json:"lists"`
	Social           Social            `json:"social"`
	Version          int               `json:"-"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserSummary is the short form used wherever a user is referenced from
// another resource.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Image    string `json:"image"`
}

// ContentItem is a catalog entry (movie or series) keyed by its IMDb id.
type ContentItem struct {
	ImdbID         string             `json:"imdbId"`
	Title          string             `json:"title"`
	Year           int32              `json:"year,omitempty"`
	AgeRestriction int32              `json:"ageRestriction,omitempty"`
	Type           fields.ContentType `json:"type"`
	Duration       fields.Runtime     `json:"duration,omitempty"`
	Genre          []string           `json:"genre"`
	Description    string             `json:"description"`
	Rating         float64            `json:"rating"`
	Images         []string           `json:"images"`
	Trailer        string             `json:"trailer,omitempty"`
	CreatedAt      time.Time          `json:"-"`
}

type ContentSummary struct {
	ImdbID      string             `json:"imdbId"`
	Title       string             `json:"title"`
	Type        fields.ContentType `json:"type"`
	Description string             `json:"description"`
	Images      []string           `json:"images"`
}

func (c *ContentItem) Summary() ContentSummary {
	return ContentSummary{
		ImdbID:      c.ImdbID,
		Title:       c.Title,
		Type:        c.Type,
		Description: c.Description,
		Images:      c.Images,
	}
}
