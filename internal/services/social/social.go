package social

import (
	"context"
	"errors"
	"log/slog"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/services/cas"
	"cinetrack/proj/internal/storage"
)

type UserStorage interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateSocial(ctx context.Context, users ...*models.User) error
	Summaries(ctx context.Context, ids []int64) ([]models.UserSummary, error)
}

type SocialService struct {
	log   *slog.Logger
	users UserStorage
}

func New(log *slog.Logger, users UserStorage) *SocialService {
	return &SocialService{log: log, users: users}
}

// transition is a change of the relation between the acting user and the
// other one. Both users are written together or not at all.
type transition func(self, other *models.User) error

func (s *SocialService) apply(ctx context.Context, log *slog.Logger, userID int64, otherName string, fn transition) error {
	err := cas.Do(ctx, func() error {
		self, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return notFound(err)
		}
		other, err := s.users.GetByUsername(ctx, otherName)
		if err != nil {
			return notFound(err)
		}
		if self.ID == other.ID {
			return ErrSelfRelation
		}
		if err := fn(self, other); err != nil {
			return mapDomainErr(err)
		}
		return s.users.UpdateSocial(ctx, self, other)
	})
	if err != nil {
		return apperr.Logged(log, err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *SocialService) AddFriend(ctx context.Context, userID int64, friendName string) error {
	const op = "social.SocialService.AddFriend"
	log := s.log.With("op", op, "user_id", userID, "friend", friendName)
	return s.apply(ctx, log, userID, friendName, models.SendFriendRequest)
}

func (s *SocialService) AcceptFriend(ctx context.Context, userID int64, requesterName string) error {
	const op = "social.SocialService.AcceptFriend"
	log := s.log.With("op", op, "user_id", userID, "requester", requesterName)
	return s.apply(ctx, log, userID, requesterName, models.AcceptFriendRequest)
}

func (s *SocialService) RejectFriend(ctx context.Context, userID int64, requesterName string) error {
	const op = "social.SocialService.RejectFriend"
	log := s.log.With("op", op, "user_id", userID, "requester", requesterName)
	return s.apply(ctx, log, userID, requesterName, models.RejectFriendRequest)
}

func (s *SocialService) RemoveFriend(ctx context.Context, userID int64, friendName string) error {
	const op = "social.SocialService.RemoveFriend"
	log := s.log.With("op", op, "user_id", userID, "friend", friendName)
	return s.apply(ctx, log, userID, friendName, models.RemoveFriend)
}

func (s *SocialService) Follow(ctx context.Context, followerID int64, targetName string) error {
	const op = "social.SocialService.Follow"
	log := s.log.With("op", op, "follower_id", followerID, "target", targetName)
	return s.apply(ctx, log, followerID, targetName, models.Follow)
}

func (s *SocialService) Unfollow(ctx context.Context, followerID int64, targetName string) error {
	const op = "social.SocialService.Unfollow"
	log := s.log.With("op", op, "follower_id", followerID, "target", targetName)
	return s.apply(ctx, log, followerID, targetName, models.Unfollow)
}

func (s *SocialService) summaries(ctx context.Context, ids []int64) ([]models.UserSummary, error) {
	if len(ids) == 0 {
		return []models.UserSummary{}, nil
	}
	return s.users.Summaries(ctx, ids)
}

func (s *SocialService) Friends(ctx context.Context, userID int64) ([]models.UserSummary, error) {
	const op = "social.SocialService.Friends"
	log := s.log.With("op", op, "user_id", userID)
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.Logged(log, notFound(err))
	}
	return s.summaries(ctx, user.Social.Friends)
}

type FriendRequests struct {
	Incoming []models.UserSummary `json:"incoming"`
	Outgoing []models.UserSummary `json:"outgoing"`
}

func (s *SocialService) FriendRequests(ctx context.Context, userID int64) (*FriendRequests, error) {
	const op = "social.SocialService.FriendRequests"
	log := s.log.With("op", op, "user_id", userID)
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.Logged(log, notFound(err))
	}
	incoming, err := s.summaries(ctx, user.Social.PendingRequests)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	outgoing, err := s.summaries(ctx, user.Social.SentRequests)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	return &FriendRequests{Incoming: incoming, Outgoing: outgoing}, nil
}

// Followers lists who follows username. Following lists whom username
// follows.
func (s *SocialService) Followers(ctx context.Context, username string) ([]models.UserSummary, error) {
	return s.edges(ctx, "social.SocialService.Followers", username, func(u *models.User) []int64 { return u.Social.Followers })
}

func (s *SocialService) Following(ctx context.Context, username string) ([]models.UserSummary, error) {
	return s.edges(ctx, "social.SocialService.Following", username, func(u *models.User) []int64 { return u.Social.Following })
}

func (s *SocialService) edges(ctx context.Context, op, username string, pick func(*models.User) []int64) ([]models.UserSummary, error) {
	log := s.log.With("op", op, "username", username)
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Logged(log, notFound(err))
	}
	out, err := s.summaries(ctx, pick(user))
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	return out, nil
}
