package clubs

import (
	"context"
	"errors"
	"log/slog"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/domain/pagination"
	"cinetrack/proj/internal/services/cas"
	"cinetrack/proj/internal/storage"
)

type ClubStorage interface {
	Insert(ctx context.Context, c *models.Club) (*models.Club, error)
	Get(ctx context.Context, id int64) (*models.Club, error)
	GetByName(ctx context.Context, name string) (*models.Club, error)
	List(ctx context.Context, limit, offset int) ([]models.Club, error)
	Update(ctx context.Context, c *models.Club) error
}

type DiscussionStorage interface {
	Insert(ctx context.Context, clubID, creatorID int64, title, description string) (*models.Discussion, error)
	Get(ctx context.Context, id int64) (*models.Discussion, error)
	List(ctx context.Context, clubID int64, limit, offset int) ([]models.Discussion, error)
	UpdateVotes(ctx context.Context, d *models.Discussion) error
	Delete(ctx context.Context, id int64) error
}

type UserStorage interface {
	Summaries(ctx context.Context, ids []int64) ([]models.UserSummary, error)
}

type CommentStorage interface {
	DeleteForTarget(ctx context.Context, target models.Target) error
}

type ClubService struct {
	log         *slog.Logger
	clubs       ClubStorage
	discussions DiscussionStorage
	users       UserStorage
	comments    CommentStorage
}

func New(
	log *slog.Logger,
	clubs ClubStorage,
	discussions DiscussionStorage,
	users UserStorage,
	comments CommentStorage,
) *ClubService {
	return &ClubService{
		log:         log,
		clubs:       clubs,
		discussions: discussions,
		users:       users,
		comments:    comments,
	}
}

type View struct {
	*models.Club
	MemberCount int `json:"memberCount"`
}

func newView(c *models.Club) *View {
	return &View{Club: c, MemberCount: len(c.Members)}
}

type CreateInput struct {
	Name        string
	Description string
	Image       string
	AutoJoin    bool
}

func (s *ClubService) Create(ctx context.Context, creatorID int64, input CreateInput) (*View, error) {
	const op = "clubs.ClubService.Create"
	log := s.log.With("op", op, "creator_id", creatorID, "name", input.Name)
	club, err := s.clubs.Insert(ctx, models.NewClub(input.Name, input.Description, input.Image, input.AutoJoin, creatorID))
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, apperr.Logged(log, ErrClubNameTaken)
		}
		return nil, apperr.Logged(log, err)
	}
	log.Info("club created", "club_id", club.ID)
	return newView(club), nil
}

// List returns enabled clubs, most populated first.
func (s *ClubService) List(ctx context.Context, cursor int) (*pagination.Page[*View], error) {
	const op = "clubs.ClubService.List"
	log := s.log.With("op", op, "cursor", cursor)
	rows, err := s.clubs.List(ctx, pagination.PageSize+1, cursor)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	views := make([]*View, 0, len(rows))
	for i := range rows {
		views = append(views, newView(&rows[i]))
	}
	page := pagination.Trim(views, cursor, pagination.PageSize)
	return &page, nil
}

func (s *ClubService) GetByName(ctx context.Context, name string) (*View, error) {
	const op = "clubs.ClubService.GetByName"
	log := s.log.With("op", op, "name", name)
	club, err := s.clubs.GetByName(ctx, name)
	if err != nil {
		return nil, apperr.Logged(log, notFound(err, ErrClubNotFound))
	}
	return newView(club), nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return sentinel
	}
	return err
}

func (s *ClubService) get(ctx context.Context, id int64) (*models.Club, error) {
	club, err := s.clubs.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrClubNotFound)
	}
	return club, nil
}

// mutate applies fn to a fresh copy of the club and stores it guarded by
// version, retrying on concurrent edits.
func (s *ClubService) mutate(ctx context.Context, log *slog.Logger, clubID int64, fn func(c *models.Club) error) (*models.Club, error) {
	var result *models.Club
	err := cas.Do(ctx, func() error {
		club, err := s.get(ctx, clubID)
		if err != nil {
			return err
		}
		if err := fn(club); err != nil {
			return mapDomainErr(err)
		}
		if err := s.clubs.Update(ctx, club); err != nil {
			return err
		}
		result = club
		return nil
	})
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	return result, nil
}

func (s *ClubService) summaries(ctx context.Context, log *slog.Logger, ids []int64) ([]models.UserSummary, error) {
	if len(ids) == 0 {
		return []models.UserSummary{}, nil
	}
	users, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	return users, nil
}

func (s *ClubService) Members(ctx context.Context, clubID int64) ([]models.UserSummary, error) {
	const op = "clubs.ClubService.Members"
	log := s.log.With("op", op, "club_id", clubID)
	club, err := s.get(ctx, clubID)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	return s.summaries(ctx, log, club.Members)
}

// Banned lists banned users. Only admins can see it.
func (s *ClubService) Banned(ctx context.Context, actorID, clubID int64) ([]models.UserSummary, error) {
	const op = "clubs.ClubService.Banned"
	log := s.log.With("op", op, "actor_id", actorID, "club_id", clubID)
	club, err := s.get(ctx, clubID)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	if !club.IsAdmin(actorID) {
		return nil, apperr.Logged(log, ErrNotClubAdmin)
	}
	return s.summaries(ctx, log, club.Banned)
}

func (s *ClubService) Pending(ctx context.Context, actorID, clubID int64) ([]models.UserSummary, error) {
	const op = "clubs.ClubService.Pending"
	log := s.log.With("op", op, "actor_id", actorID, "club_id", clubID)
	club, err := s.get(ctx, clubID)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	if !club.IsAdmin(actorID) {
		return nil, apperr.Logged(log, ErrNotClubAdmin)
	}
	return s.summaries(ctx, log, club.Pending)
}

// Join reports whether the user became a member right away. For clubs
// without auto join the request is queued for admins instead.
func (s *ClubService) Join(ctx context.Context, userID, clubID int64) (bool, error) {
	const op = "clubs.ClubService.Join"
	log := s.log.With("op", op, "user_id", userID, "club_id", clubID)
	var joined bool
	_, err := s.mutate(ctx, log, clubID, func(c *models.Club) error {
		var err error
		joined, err = c.Join(userID)
		return err
	})
	if err != nil {
		return false, err
	}
	log.Info("join handled", "joined", joined)
	return joined, nil
}

func (s *ClubService) Leave(ctx context.Context, userID, clubID int64) error {
	const op = "clubs.ClubService.Leave"
	log := s.log.With("op", op, "user_id", userID, "club_id", clubID)
	_, err := s.mutate(ctx, log, clubID, func(c *models.Club) error {
		return c.RemoveMember(userID, userID)
	})
	return err
}

func (s *ClubService) RemoveMember(ctx context.Context, actorID, clubID, targetID int64) error {
	const op = "clubs.ClubService.RemoveMember"
	log := s.log.With("op", op, "actor_id", actorID, "club_id", clubID, "target_id", targetID)
	_, err := s.mutate(ctx, log, clubID, func(c *models.Club) error {
		return c.RemoveMember(actorID, targetID)
	})
	return err
}

func (s *ClubService) AddAdmin(ctx context.Context, actorID, clubID, targetID int64) error {
	const op = "clubs.ClubService.AddAdmin"
	log := s.log.With("op", op, "actor_id", actorID, "club_id", clubID, "target_id", targetID)
	_, err := s.mutate(ctx, log, clubID, func(c *models.Club) error {
		return c.AddAdmin(actorID, targetID)
	})
	return err
}

func (s *ClubService) RemoveAdmin(ctx context.Context, actorID, clubID, targetID int64) error {
	const op = "clubs.ClubService.RemoveAdmin"
	log := s.log.With("op", op, "actor_id", actorID, "club_id", clubID, "target_id", targetID)
	_, err := s.mutate(ctx, log, clubID, func(c *models.Club) error {
		return c.RemoveAdmin(actorID, targetID)
	})
	return err
}

func (s *ClubService) Ban(ctx context.Context, actorID, clubID, targetID int64) error {
	const op = "clubs.ClubService.Ban"
	log := s.log.With("op", op, "actor_id", actorID, "club_id", clubID, "target_id", targetID)
	_, err := s.mutate(ctx, log, clubID, func(c *models.Club) error {
		return c.Ban(actorID, targetID)
	})
	return err
}

func (s *ClubService) Unban(ctx context.Context, actorID, clubID, targetID int64) error {
	const op = "clubs.ClubService.Unban"
	log := s.log.With("op", op, "actor_id", actorID, "club_id", clubID, "target_id", targetID)
	_, err := s.mutate(ctx, log, clubID, func(c *models.Club) error {
		return c.Unban(actorID, targetID)
	})
	return err
}

func (s *ClubService) ResolvePending(ctx context.Context, actorID, clubID, targetID int64, approved bool) error {
	const op = "clubs.ClubService.ResolvePending"
	log := s.log.With("op", op, "actor_id", actorID, "club_id", clubID, "target_id", targetID, "approved", approved)
	_, err := s.mutate(ctx, log, clubID, func(c *models.Club) error {
		return c.ResolvePending(actorID, targetID, approved)
	})
	return err
}

func (s *ClubService) SetDisabled(ctx context.Context, actorID, clubID int64, disabled bool) error {
	const op = "clubs.ClubService.SetDisabled"
	log := s.log.With("op", op, "actor_id", actorID, "club_id", clubID, "disabled", disabled)
	_, err := s.mutate(ctx, log, clubID, func(c *models.Club) error {
		return c.SetDisabled(actorID, disabled)
	})
	if err == nil {
		log.Info("club disabled flag changed")
	}
	return err
}
