package models

import (
	"errors"
	"slices"
)

// Social holds the edges of a user in the social graph. Friendship is
// symmetric and goes through a request; following is one directional.
type Social struct {
	Friends         []int64 `json:"friends"`
	SentRequests    []int64 `json:"sentFriendRequests"`
	PendingRequests []int64 `json:"pendingFriendRequests"`
	Followers       []int64 `json:"followers"`
	Following       []int64 `json:"following"`
}

var (
	ErrSelfRelation    = errors.New("cannot relate a user to themselves")
	ErrAlreadyFriends  = errors.New("users are already friends")
	ErrRequestExists   = errors.New("friend request already sent")
	ErrReverseRequest  = errors.New("the other user already sent a friend request")
	ErrNoFriendRequest = errors.New("no pending friend request")
	ErrNotFriends      = errors.New("users are not friends")
)

func (s *Social) IsFriend(id int64) bool {
	return slices.Contains(s.Friends, id)
}

func (s *Social) Normalize() {
	for _, set := range []*[]int64{&s.Friends, &s.SentRequests, &s.PendingRequests, &s.Followers, &s.Following} {
		if *set == nil {
			*set = []int64{}
		}
	}
}

// SendFriendRequest moves the pair (from, to) from no relation to requested.
func SendFriendRequest(from, to *User) error {
	if from.ID == to.ID {
		return ErrSelfRelation
	}
	switch {
	case from.Social.IsFriend(to.ID):
		return ErrAlreadyFriends
	case slices.Contains(from.Social.SentRequests, to.ID):
		return ErrRequestExists
	case slices.Contains(from.Social.PendingRequests, to.ID):
		return ErrReverseRequest
	}
	from.Social.SentRequests = addID(from.Social.SentRequests, to.ID)
	to.Social.PendingRequests = addID(to.Social.PendingRequests, from.ID)
	return nil
}

// AcceptFriendRequest is called by the receiver of a pending request.
func AcceptFriendRequest(receiver, requester *User) error {
	if receiver.Social.IsFriend(requester.ID) {
		return ErrAlreadyFriends
	}
	if !slices.Contains(receiver.Social.PendingRequests, requester.ID) {
		return ErrNoFriendRequest
	}
	receiver.Social.PendingRequests = removeID(receiver.Social.PendingRequests, requester.ID)
	requester.Social.SentRequests = removeID(requester.Social.SentRequests, receiver.ID)
	receiver.Social.Friends = addID(receiver.Social.Friends, requester.ID)
	requester.Social.Friends = addID(requester.Social.Friends, receiver.ID)
	return nil
}

func RejectFriendRequest(receiver, requester *User) error {
	if !slices.Contains(receiver.Social.PendingRequests, requester.ID) {
		return ErrNoFriendRequest
	}
	receiver.Social.PendingRequests = removeID(receiver.Social.PendingRequests, requester.ID)
	requester.Social.SentRequests = removeID(requester.Social.SentRequests, receiver.ID)
	return nil
}

func RemoveFriend(a, b *User) error {
	if !a.Social.IsFriend(b.ID) && !b.Social.IsFriend(a.ID) {
		return ErrNotFriends
	}
	a.Social.Friends = removeID(a.Social.Friends, b.ID)
	b.Social.Friends = removeID(b.Social.Friends, a.ID)
	return nil
}

// Follow is idempotent.
func Follow(follower, target *User) error {
	if follower.ID == target.ID {
		return ErrSelfRelation
	}
	target.Social.Followers = addID(target.Social.Followers, follower.ID)
	follower.Social.Following = addID(follower.Social.Following, target.ID)
	return nil
}

func Unfollow(follower, target *User) error {
	if follower.ID == target.ID {
		return ErrSelfRelation
	}
	target.Social.Followers = removeID(target.Social.Followers, follower.ID)
	follower.Social.Following = removeID(follower.Social.Following, target.ID)
	return nil
}

func addID(set []int64, id int64) []int64 {
	if slices.Contains(set, id) {
		return set
	}
	return append(set, id)
}

func removeID(set []int64, id int64) []int64 {
	return slices.DeleteFunc(set, func(v int64) bool { return v == id })
}
