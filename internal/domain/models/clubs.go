package models

import (
	"errors"
	"slices"
	"time"
)

const MaxClubAdmins = 7

var (
	ErrNotClubAdmin   = errors.New("only club admins can do that")
	ErrNotClubMember  = errors.New("user is not a club member")
	ErrAlreadyMember  = errors.New("user is already a club member")
	ErrAlreadyPending = errors.New("join request already pending")
	ErrBannedFromClub = errors.New("user is banned from this club")
	ErrNotBanned      = errors.New("user is not banned")
	ErrNotPending     = errors.New("user has no pending join request")
	ErrAlreadyAdmin   = errors.New("user is already an admin")
	ErrNotAdmin       = errors.New("user is not an admin")
	ErrTooManyAdmins  = errors.New("a club can have at most 7 admins")
	ErrLastAdmin      = errors.New("a club must keep at least one admin")
	ErrClubDisabled   = errors.New("club is disabled")
)

// Club membership sets. Admins are always members, banned users are never
// members nor pending, and there is at least one admin.
type Club struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	AutoJoin    bool      `json:"autoJoin"`
	Members     []int64   `json:"members"`
	Admins      []int64   `json:"admins"`
	Banned      []int64   `json:"-"`
	Pending     []int64   `json:"-"`
	IsDisabled  bool      `json:"isDisabled"`
	Version     int       `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewClub(name, description, image string, autoJoin bool, creator int64) *Club {
	return &Club{
		Name:        name,
		Description: description,
		Image:       image,
		AutoJoin:    autoJoin,
		Members:     []int64{creator},
		Admins:      []int64{creator},
		Banned:      []int64{},
		Pending:     []int64{},
	}
}

func (c *Club) IsMember(id int64) bool { return slices.Contains(c.Members, id) }
func (c *Club) IsAdmin(id int64) bool  { return slices.Contains(c.Admins, id) }

func (c *Club) requireAdmin(actor int64) error {
	if !c.IsAdmin(actor) {
		return ErrNotClubAdmin
	}
	return nil
}

// Join adds userID to members or, for clubs without auto join, to the pending
// queue. It reports whether the user became a member.
func (c *Club) Join(userID int64) (bool, error) {
	switch {
	case c.IsDisabled:
		return false, ErrClubDisabled
	case slices.Contains(c.Banned, userID):
		return false, ErrBannedFromClub
	case c.IsMember(userID):
		return false, ErrAlreadyMember
	case slices.Contains(c.Pending, userID):
		return false, ErrAlreadyPending
	}
	if c.AutoJoin {
		c.Members = append(c.Members, userID)
		return true, nil
	}
	c.Pending = append(c.Pending, userID)
	return false, nil
}

// RemoveMember drops target from the club. Users may remove themselves,
// anyone else requires an admin.
func (c *Club) RemoveMember(actor, target int64) error {
	if actor != target {
		if err := c.requireAdmin(actor); err != nil {
			return err
		}
	}
	if !c.IsMember(target) {
		return ErrNotClubMember
	}
	if c.IsAdmin(target) && len(c.Admins) == 1 {
		return ErrLastAdmin
	}
	c.Members = removeID(c.Members, target)
	c.Admins = removeID(c.Admins, target)
	return nil
}

func (c *Club) AddAdmin(actor, target int64) error {
	if err := c.requireAdmin(actor); err != nil {
		return err
	}
	switch {
	case !c.IsMember(target):
		return ErrNotClubMember
	case c.IsAdmin(target):
		return ErrAlreadyAdmin
	case len(c.Admins) >= MaxClubAdmins:
		return ErrTooManyAdmins
	}
	c.Admins = append(c.Admins, target)
	return nil
}

func (c *Club) RemoveAdmin(actor, target int64) error {
	if err := c.requireAdmin(actor); err != nil {
		return err
	}
	if !c.IsAdmin(target) {
		return ErrNotAdmin
	}
	if len(c.Admins) == 1 {
		return ErrLastAdmin
	}
	c.Admins = removeID(c.Admins, target)
	return nil
}

func (c *Club) Ban(actor, target int64) error {
	if err := c.requireAdmin(actor); err != nil {
		return err
	}
	if slices.Contains(c.Banned, target) {
		return ErrBannedFromClub
	}
	if c.IsAdmin(target) && len(c.Admins) == 1 {
		return ErrLastAdmin
	}
	c.Members = removeID(c.Members, target)
	c.Admins = removeID(c.Admins, target)
	c.Pending = removeID(c.Pending, target)
	c.Banned = append(c.Banned, target)
	return nil
}

func (c *Club) Unban(actor, target int64) error {
	if err := c.requireAdmin(actor); err != nil {
		return err
	}
	if !slices.Contains(c.Banned, target) {
		return ErrNotBanned
	}
	c.Banned = removeID(c.Banned, target)
	return nil
}

// ResolvePending accepts or declines a join request.
func (c *Club) ResolvePending(actor, target int64, approved bool) error {
	if err := c.requireAdmin(actor); err != nil {
		return err
	}
	if !slices.Contains(c.Pending, target) {
		return ErrNotPending
	}
	c.Pending = removeID(c.Pending, target)
	if approved {
		c.Members = addID(c.Members, target)
	}
	return nil
}

func (c *Club) SetDisabled(actor int64, disabled bool) error {
	if err := c.requireAdmin(actor); err != nil {
		return err
	}
	c.IsDisabled = disabled
	return nil
}

type Discussion struct {
	ID          int64       `json:"id"`
	ClubID      int64       `json:"clubId"`
	Creator     UserSummary `json:"creator"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Votes       Votes       `json:"-"`
	Version     int         `json:"-"`
	CreatedAt   time.Time   `json:"createdAt"`
}
