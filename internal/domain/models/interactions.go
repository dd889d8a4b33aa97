package models

import (
	"errors"
	"slices"
	"time"
)

var (
	ErrAlreadyUpvoted   = errors.New("already upvoted")
	ErrAlreadyDownvoted = errors.New("already downvoted")
	ErrUnknownTarget    = errors.New("unknown comment target")
	ErrUnknownReaction  = errors.New("unknown reaction")
)

// Votes keeps up and down votes as disjoint sets of user ids.
type Votes struct {
	Up   []int64 `json:"upvotes"`
	Down []int64 `json:"downvotes"`
}

func (v *Votes) Upvote(userID int64) error {
	if slices.Contains(v.Up, userID) {
		return ErrAlreadyUpvoted
	}
	v.Down = removeID(v.Down, userID)
	v.Up = append(v.Up, userID)
	return nil
}

func (v *Votes) Downvote(userID int64) error {
	if slices.Contains(v.Down, userID) {
		return ErrAlreadyDownvoted
	}
	v.Up = removeID(v.Up, userID)
	v.Down = append(v.Down, userID)
	return nil
}

func (v *Votes) Counts() VoteCounts {
	return VoteCounts{Upvotes: len(v.Up), Downvotes: len(v.Down)}
}

type VoteCounts struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

type TargetKind string

const (
	TargetProfile        TargetKind = "profile"
	TargetMovie          TargetKind = "movie"
	TargetClub           TargetKind = "club"
	TargetClubDiscussion TargetKind = "clubDiscussion"
	TargetReview         TargetKind = "review"
	TargetBlog           TargetKind = "blog"
	TargetNews           TargetKind = "news"
)

// Target is what a comment is attached to. Movies are addressed by IMDb id,
// every other kind by its numeric id.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"targetId"`
}

func ParseTarget(kind, id string) (Target, error) {
	switch k := TargetKind(kind); k {
	case TargetProfile, TargetMovie, TargetClub, TargetClubDiscussion, TargetReview, TargetBlog, TargetNews:
		if id == "" {
			return Target{}, ErrUnknownTarget
		}
		return Target{Kind: k, ID: id}, nil
	}
	return Target{}, ErrUnknownTarget
}

type Comment struct {
	ID        int64       `json:"id"`
	Author    UserSummary `json:"author"`
	Target    Target      `json:"target"`
	Content   string      `json:"content"`
	Votes     Votes       `json:"-"`
	IsEdited  bool        `json:"isEdited"`
	Version   int         `json:"-"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type Review struct {
	ID        int64       `json:"id"`
	Author    UserSummary `json:"author"`
	ContentID string      `json:"imdbId"`
	Title     string      `json:"title"`
	Body      string      `json:"body"`
	Image     string      `json:"image,omitempty"`
	Votes     Votes       `json:"-"`
	Reactions Reactions   `json:"-"`
	Version   int         `json:"-"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

var ReactionKinds = []string{"like", "love", "funny", "wow", "sad", "angry"}

// Reactions maps a reaction kind to the users who picked it.
type Reactions map[string][]int64

// Toggle adds userID to kind, or removes it when already there. It reports
// whether the reaction is now set.
func (r Reactions) Toggle(kind string, userID int64) (bool, error) {
	if !slices.Contains(ReactionKinds, kind) {
		return false, ErrUnknownReaction
	}
	if slices.Contains(r[kind], userID) {
		r[kind] = removeID(r[kind], userID)
		return false, nil
	}
	r[kind] = append(r[kind], userID)
	return true, nil
}

func (r Reactions) Counts() map[string]int {
	counts := make(map[string]int, len(ReactionKinds))
	for _, kind := range ReactionKinds {
		counts[kind] = len(r[kind])
	}
	return counts
}

type Message struct {
	ID        int64     `json:"id"`
	Sender    int64     `json:"sender"`
	Receiver  int64     `json:"receiver"`
	Body      string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

type Blog struct {
	ID             int64       `json:"id"`
	Author         UserSummary `json:"author"`
	Title          string      `json:"title"`
	Content        string      `json:"content"`
	RelatedContent []string    `json:"relatedContent"`
	Version        int         `json:"-"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// News is a site wide announcement. A locked post can no longer be edited by
// its author.
type News struct {
	ID          int64          `json:"id"`
	Author      UserSummary    `json:"author"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Image       string         `json:"image,omitempty"`
	Tags        []string       `json:"tags"`
	Reactions   Reactions      `json:"-"`
	Counts      map[string]int `json:"reactions"`
	IsLocked    bool           `json:"isLocked"`
	Version     int            `json:"-"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
