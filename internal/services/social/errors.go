package social

import (
	"errors"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/domain/models"
)

var (
	ErrUserNotFound    = apperr.New(apperr.NotFound, "User not found")
	ErrSelfRelation    = apperr.New(apperr.InvalidInput, "You can't do that to yourself")
	ErrAlreadyFriends  = apperr.New(apperr.Conflict, "You are already friends")
	ErrRequestExists   = apperr.New(apperr.Conflict, "Friend request already sent")
	ErrReverseRequest  = apperr.New(apperr.Conflict, "This user already sent you a friend request, accept it instead")
	ErrNoFriendRequest = apperr.New(apperr.InvalidInput, "No friend request from this user")
	ErrNotFriends      = apperr.New(apperr.InvalidInput, "You are not friends")
)

func mapDomainErr(err error) error {
	switch {
	case errors.Is(err, models.ErrSelfRelation):
		return ErrSelfRelation
	case errors.Is(err, models.ErrAlreadyFriends):
		return ErrAlreadyFriends
	case errors.Is(err, models.ErrRequestExists):
		return ErrRequestExists
	case errors.Is(err, models.ErrReverseRequest):
		return ErrReverseRequest
	case errors.Is(err, models.ErrNoFriendRequest):
		return ErrNoFriendRequest
	case errors.Is(err, models.ErrNotFriends):
		return ErrNotFriends
	}
	return err
}
