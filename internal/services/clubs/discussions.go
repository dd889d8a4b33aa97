package clubs

import (
	"context"
	"log/slog"
	"strconv"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/domain/pagination"
	"cinetrack/proj/internal/services/cas"
)

type DiscussionView struct {
	*models.Discussion
	models.VoteCounts
}

func newDiscussionView(d *models.Discussion) *DiscussionView {
	return &DiscussionView{Discussion: d, VoteCounts: d.Votes.Counts()}
}

func (s *ClubService) WriteDiscussion(ctx context.Context, userID, clubID int64, title, description string) (*DiscussionView, error) {
	const op = "clubs.ClubService.WriteDiscussion"
	log := s.log.With("op", op, "user_id", userID, "club_id", clubID)
	club, err := s.get(ctx, clubID)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	if club.IsDisabled {
		return nil, apperr.Logged(log, ErrClubDisabled)
	}
	if !club.IsMember(userID) {
		return nil, apperr.Logged(log, ErrNotClubMember)
	}
	discussion, err := s.discussions.Insert(ctx, clubID, userID, title, description)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	log.Info("discussion created", "discussion_id", discussion.ID)
	return newDiscussionView(discussion), nil
}

// Discussions lists a club's discussions, newest first.
func (s *ClubService) Discussions(ctx context.Context, clubID int64, cursor int) (*pagination.Page[*DiscussionView], error) {
	const op = "clubs.ClubService.Discussions"
	log := s.log.With("op", op, "club_id", clubID, "cursor", cursor)
	if _, err := s.get(ctx, clubID); err != nil {
		return nil, apperr.Logged(log, err)
	}
	rows, err := s.discussions.List(ctx, clubID, pagination.PageSize+1, cursor)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	if len(rows) == 0 && cursor == 0 {
		return nil, ErrNoDiscussions
	}
	views := make([]*DiscussionView, 0, len(rows))
	for i := range rows {
		views = append(views, newDiscussionView(&rows[i]))
	}
	page := pagination.Trim(views, cursor, pagination.PageSize)
	return &page, nil
}

func (s *ClubService) getDiscussion(ctx context.Context, clubID, discussionID int64) (*models.Discussion, error) {
	discussion, err := s.discussions.Get(ctx, discussionID)
	if err != nil {
		return nil, notFound(err, ErrDiscussionNotFound)
	}
	if discussion.ClubID != clubID {
		return nil, ErrDiscussionNotFound
	}
	return discussion, nil
}

// DeleteDiscussion removes a discussion and its comments. Allowed for its
// creator and for club admins.
func (s *ClubService) DeleteDiscussion(ctx context.Context, userID, clubID, discussionID int64) error {
	const op = "clubs.ClubService.DeleteDiscussion"
	log := s.log.With("op", op, "user_id", userID, "club_id", clubID, "discussion_id", discussionID)
	club, err := s.get(ctx, clubID)
	if err != nil {
		return apperr.Logged(log, err)
	}
	discussion, err := s.getDiscussion(ctx, clubID, discussionID)
	if err != nil {
		return apperr.Logged(log, err)
	}
	if discussion.Creator.ID != userID && !club.IsAdmin(userID) {
		return apperr.Logged(log, ErrNotCreator)
	}
	if err := s.discussions.Delete(ctx, discussionID); err != nil {
		return apperr.Logged(log, notFound(err, ErrDiscussionNotFound))
	}
	target := models.Target{Kind: models.TargetClubDiscussion, ID: strconv.FormatInt(discussionID, 10)}
	if err := s.comments.DeleteForTarget(ctx, target); err != nil {
		log.Warn("failed to delete discussion comments", "error", err)
	}
	log.Info("discussion deleted")
	return nil
}

func (s *ClubService) UpvoteDiscussion(ctx context.Context, userID, clubID, discussionID int64) (models.VoteCounts, error) {
	const op = "clubs.ClubService.UpvoteDiscussion"
	log := s.log.With("op", op, "user_id", userID, "club_id", clubID, "discussion_id", discussionID)
	return s.voteDiscussion(ctx, log, clubID, discussionID, func(v *models.Votes) error {
		if err := v.Upvote(userID); err != nil {
			return ErrAlreadyUpvoted
		}
		return nil
	})
}

func (s *ClubService) DownvoteDiscussion(ctx context.Context, userID, clubID, discussionID int64) (models.VoteCounts, error) {
	const op = "clubs.ClubService.DownvoteDiscussion"
	log := s.log.With("op", op, "user_id", userID, "club_id", clubID, "discussion_id", discussionID)
	return s.voteDiscussion(ctx, log, clubID, discussionID, func(v *models.Votes) error {
		if err := v.Downvote(userID); err != nil {
			return ErrAlreadyDownvoted
		}
		return nil
	})
}

func (s *ClubService) voteDiscussion(ctx context.Context, log *slog.Logger, clubID, discussionID int64, fn func(v *models.Votes) error) (models.VoteCounts, error) {
	var counts models.VoteCounts
	err := cas.Do(ctx, func() error {
		discussion, err := s.getDiscussion(ctx, clubID, discussionID)
		if err != nil {
			return err
		}
		if err := fn(&discussion.Votes); err != nil {
			return err
		}
		if err := s.discussions.UpdateVotes(ctx, discussion); err != nil {
			return err
		}
		counts = discussion.Votes.Counts()
		return nil
	})
	if err != nil {
		return models.VoteCounts{}, apperr.Logged(log, err)
	}
	return counts, nil
}
