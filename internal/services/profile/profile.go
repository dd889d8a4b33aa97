package profile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/services/cas"
	"cinetrack/proj/internal/storage"
)

type UserStorage interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateAccount(ctx context.Context, user *models.User) error
}

type ProfileService struct {
	log   *slog.Logger
	users UserStorage
}

func New(log *slog.Logger, users UserStorage) *ProfileService {
	return &ProfileService{log: log, users: users}
}

// Requests is only shown to the profile owner.
type Requests struct {
	Sent    []int64 `json:"sentFriendRequests"`
	Pending []int64 `json:"pendingFriendRequests"`
}

// View is a user as seen by a viewer. Friends holds the id list for the
// owner and only a count for everyone else.
type View struct {
	ID          int64             `json:"id"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	Role        string            `json:"role"`
	Bio         string            `json:"bio"`
	Image       string            `json:"image"`
	IsPrivate   bool              `json:"isPrivate"`
	IsVerified  bool              `json:"isVerified"`
	Awards      []string          `json:"awards"`
	SocialLinks map[string]string `json:"socialLinks"`
	Lists       models.Lists      `json:"lists"`
	Friends     any               `json:"friends"`
	Followers   []int64           `json:"followers"`
	Following   []int64           `json:"following"`
	CreatedAt   time.Time         `json:"createdAt"`
	*Requests
}

// Render builds the view of user for viewerID. It does not check privacy.
func Render(user *models.User, viewerID int64) *View {
	v := &View{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		Bio:         user.Bio,
		Image:       user.Image,
		IsPrivate:   user.IsPrivate,
		IsVerified:  user.IsVerified,
		Awards:      user.Awards,
		SocialLinks: user.SocialLinks,
		Lists:       user.Lists,
		Followers:   user.Social.Followers,
		Following:   user.Social.Following,
		CreatedAt:   user.CreatedAt,
	}
	if user.ID == viewerID {
		v.Friends = user.Social.Friends
		v.Requests = &Requests{Sent: user.Social.SentRequests, Pending: user.Social.PendingRequests}
	} else {
		v.Friends = len(user.Social.Friends)
	}
	return v
}

// CanView reports whether viewerID (0 for anonymous) may see user's profile.
func CanView(user *models.User, viewerID int64) bool {
	return !user.IsPrivate || user.ID == viewerID || user.Social.IsFriend(viewerID)
}

func (s *ProfileService) Get(ctx context.Context, username string, viewerID int64) (*View, error) {
	const op = "profile.ProfileService.Get"
	log := s.log.With("op", op, "username", username, "viewer_id", viewerID)
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.Logged(log, ErrUserNotFound)
		}
		return nil, apperr.Logged(log, err)
	}
	if !CanView(user, viewerID) {
		return nil, apperr.Logged(log, ErrPrivateProfile)
	}
	return Render(user, viewerID), nil
}

func (s *ProfileService) Me(ctx context.Context, userID int64) (*View, error) {
	const op = "profile.ProfileService.Me"
	log := s.log.With("op", op, "user_id", userID)
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.Logged(log, ErrUserNotFound)
		}
		return nil, apperr.Logged(log, err)
	}
	return Render(user, userID), nil
}

type UpdateInput struct {
	Bio         *string
	Image       *string
	IsPrivate   *bool
	SocialLinks map[string]string
}

func (s *ProfileService) Update(ctx context.Context, userID int64, input UpdateInput) (*View, error) {
	const op = "profile.ProfileService.Update"
	log := s.log.With("op", op, "user_id", userID)
	var updated *models.User
	err := cas.Do(ctx, func() error {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if input.Bio != nil {
			user.Bio = *input.Bio
		}
		if input.Image != nil {
			user.Image = *input.Image
		}
		if input.IsPrivate != nil {
			user.IsPrivate = *input.IsPrivate
		}
		if input.SocialLinks != nil {
			user.SocialLinks = input.SocialLinks
		}
		if err := s.users.UpdateAccount(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	log.Info("profile updated")
	return Render(updated, userID), nil
}
