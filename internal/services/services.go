package services

import (
	"context"
	"log/slog"
	"strconv"

	"cinetrack/proj/internal/config"
	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/services/auth"
	"cinetrack/proj/internal/services/blogs"
	"cinetrack/proj/internal/services/catalog"
	"cinetrack/proj/internal/services/clubs"
	"cinetrack/proj/internal/services/comments"
	"cinetrack/proj/internal/services/lists"
	"cinetrack/proj/internal/services/messages"
	"cinetrack/proj/internal/services/news"
	"cinetrack/proj/internal/services/profile"
	"cinetrack/proj/internal/services/reviews"
	"cinetrack/proj/internal/services/social"
	"cinetrack/proj/internal/storage"
	pgmodels "cinetrack/proj/internal/storage/postgres/models"
)

type Services struct {
	Auth     *auth.AuthService
	Profile  *profile.ProfileService
	Lists    *lists.ListService
	Catalog  *catalog.CatalogService
	Social   *social.SocialService
	Comments *comments.CommentService
	Reviews  *reviews.ReviewService
	Clubs    *clubs.ClubService
	Messages *messages.MessageService
	Blogs    *blogs.BlogService
	News     *news.NewsService
}

// Deps are the infrastructure pieces the services are built on. Google may
// be nil.
type Deps struct {
	Models       *pgmodels.Models
	Sessions     auth.SessionStorage
	Mailer       auth.MailProvider
	TaskExecutor auth.TaskExecutor
	Google       auth.OAuthProvider
}

func New(log *slog.Logger, cfg *config.Config, deps Deps) *Services {
	m := deps.Models
	return &Services{
		Auth: auth.New(log, m.Users, deps.Sessions, deps.Mailer, deps.TaskExecutor, deps.Google, auth.Options{
			BaseURL: cfg.BaseURL,
			Secret:  cfg.AppSecret,
		}),
		Profile:  profile.New(log, m.Users),
		Lists:    lists.New(log, m.Users, m.Contents),
		Catalog:  catalog.New(log, m.Contents),
		Social:   social.New(log, m.Users),
		Comments: comments.New(log, m.Comments, commentResolvers(m)),
		Reviews:  reviews.New(log, m.Reviews, m.Contents, m.Comments),
		Clubs:    clubs.New(log, m.Clubs, m.Discussions, m.Users, m.Comments),
		Messages: messages.New(log, m.Messages, m.Users),
		Blogs:    blogs.New(log, m.Blogs, m.Users, m.Comments),
		News:     news.New(log, m.News, m.Comments),
	}
}

// byNumericID adapts a lookup by numeric id to a comment target resolver.
// Ids that do not parse cannot exist.
func byNumericID[T any](get func(ctx context.Context, id int64) (T, error)) comments.Resolver {
	return func(ctx context.Context, raw string) error {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			return storage.ErrNotFound
		}
		_, err = get(ctx, id)
		return err
	}
}

func commentResolvers(m *pgmodels.Models) map[models.TargetKind]comments.Resolver {
	return map[models.TargetKind]comments.Resolver{
		models.TargetProfile:        byNumericID(m.Users.GetByID),
		models.TargetClub:           byNumericID(m.Clubs.Get),
		models.TargetClubDiscussion: byNumericID(m.Discussions.Get),
		models.TargetReview:         byNumericID(m.Reviews.Get),
		models.TargetBlog:           byNumericID(m.Blogs.Get),
		models.TargetNews:           byNumericID(m.News.Get),
		models.TargetMovie: func(ctx context.Context, imdbID string) error {
			_, err := m.Contents.Get(ctx, imdbID)
			return err
		},
	}
}
