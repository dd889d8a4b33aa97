package clubs

import (
	"errors"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/domain/models"
)

var (
	ErrClubNotFound       = apperr.New(apperr.NotFound, "Club not found")
	ErrClubNameTaken      = apperr.New(apperr.Conflict, "A club with this name already exists")
	ErrDiscussionNotFound = apperr.New(apperr.NotFound, "Discussion not found")
	ErrNoDiscussions      = apperr.New(apperr.NotFound, "No discussions yet")
	ErrNotClubAdmin       = apperr.New(apperr.Unauthorized, "Only club admins can do that")
	ErrNotClubMember      = apperr.New(apperr.Unauthorized, "You are not a member of this club")
	ErrUserNotMember      = apperr.New(apperr.NotFound, "User is not a member of this club")
	ErrAlreadyMember      = apperr.New(apperr.Conflict, "Already a member of this club")
	ErrAlreadyPending     = apperr.New(apperr.Conflict, "Join request already sent")
	ErrBanned             = apperr.New(apperr.Conflict, "User is banned from this club")
	ErrNotBanned          = apperr.New(apperr.NotFound, "User is not banned")
	ErrNotPending         = apperr.New(apperr.NotFound, "No join request from this user")
	ErrAlreadyAdmin       = apperr.New(apperr.Conflict, "User is already an admin")
	ErrNotAdmin           = apperr.New(apperr.NotFound, "User is not an admin")
	ErrTooManyAdmins      = apperr.New(apperr.Conflict, "A club can have at most 7 admins")
	ErrLastAdmin          = apperr.New(apperr.Conflict, "A club must keep at least one admin")
	ErrClubDisabled       = apperr.New(apperr.Conflict, "This club is disabled")
	ErrNotCreator         = apperr.New(apperr.Unauthorized, "Only the creator or a club admin can delete a discussion")
	ErrAlreadyUpvoted     = apperr.New(apperr.Conflict, "You already upvoted this discussion")
	ErrAlreadyDownvoted   = apperr.New(apperr.Conflict, "You already downvoted this discussion")
)

var domainErrs = map[error]error{
	models.ErrNotClubAdmin:   ErrNotClubAdmin,
	models.ErrNotClubMember:  ErrUserNotMember,
	models.ErrAlreadyMember:  ErrAlreadyMember,
	models.ErrAlreadyPending: ErrAlreadyPending,
	models.ErrBannedFromClub: ErrBanned,
	models.ErrNotBanned:      ErrNotBanned,
	models.ErrNotPending:     ErrNotPending,
	models.ErrAlreadyAdmin:   ErrAlreadyAdmin,
	models.ErrNotAdmin:       ErrNotAdmin,
	models.ErrTooManyAdmins:  ErrTooManyAdmins,
	models.ErrLastAdmin:      ErrLastAdmin,
	models.ErrClubDisabled:   ErrClubDisabled,
}

func mapDomainErr(err error) error {
	for domainErr, svcErr := range domainErrs {
		if errors.Is(err, domainErr) {
			return svcErr
		}
	}
	return err
}
