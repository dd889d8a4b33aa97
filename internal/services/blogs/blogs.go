package blogs

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"cinetrack/proj/internal/domain/apperr"
	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/domain/pagination"
	"cinetrack/proj/internal/services/cas"
	"cinetrack/proj/internal/storage"
)

type BlogStorage interface {
	Insert(ctx context.Context, authorID int64, title, content string, related []string) (*models.Blog, error)
	Get(ctx context.Context, id int64) (*models.Blog, error)
	ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]models.Blog, error)
	Update(ctx context.Context, b *models.Blog) error
	Delete(ctx context.Context, id int64) error
}

type UserStorage interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type CommentStorage interface {
	DeleteForTarget(ctx context.Context, target models.Target) error
}

type BlogService struct {
	log      *slog.Logger
	blogs    BlogStorage
	users    UserStorage
	comments CommentStorage
}

func New(log *slog.Logger, blogs BlogStorage, users UserStorage, comments CommentStorage) *BlogService {
	return &BlogService{log: log, blogs: blogs, users: users, comments: comments}
}

type CreateInput struct {
	Title          string
	Content        string
	RelatedContent []string
}

func (s *BlogService) Create(ctx context.Context, authorID int64, input CreateInput) (*models.Blog, error) {
	const op = "blogs.BlogService.Create"
	log := s.log.With("op", op, "author_id", authorID)
	blog, err := s.blogs.Insert(ctx, authorID, input.Title, input.Content, input.RelatedContent)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	log.Info("blog created", "blog_id", blog.ID)
	return blog, nil
}

func (s *BlogService) get(ctx context.Context, id int64) (*models.Blog, error) {
	blog, err := s.blogs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return blog, nil
}

func (s *BlogService) Get(ctx context.Context, id int64) (*models.Blog, error) {
	const op = "blogs.BlogService.Get"
	log := s.log.With("op", op, "blog_id", id)
	blog, err := s.get(ctx, id)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	return blog, nil
}

func (s *BlogService) ListByAuthor(ctx context.Context, username string, cursor int) (*pagination.Page[models.Blog], error) {
	const op = "blogs.BlogService.ListByAuthor"
	log := s.log.With("op", op, "author", username, "cursor", cursor)
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.Logged(log, ErrUserNotFound)
		}
		return nil, apperr.Logged(log, err)
	}
	rows, err := s.blogs.ListByAuthor(ctx, author.ID, pagination.PageSize+1, cursor)
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	if len(rows) == 0 && cursor == 0 {
		return nil, ErrNoBlogs
	}
	if rows == nil {
		rows = []models.Blog{}
	}
	page := pagination.Trim(rows, cursor, pagination.PageSize)
	return &page, nil
}

type UpdateInput struct {
	Title          *string
	Content        *string
	RelatedContent []string
}

func (s *BlogService) Update(ctx context.Context, userID, blogID int64, input UpdateInput) (*models.Blog, error) {
	const op = "blogs.BlogService.Update"
	log := s.log.With("op", op, "user_id", userID, "blog_id", blogID)
	var updated *models.Blog
	err := cas.Do(ctx, func() error {
		blog, err := s.get(ctx, blogID)
		if err != nil {
			return err
		}
		if blog.Author.ID != userID {
			return ErrNotAuthor
		}
		if input.Title != nil {
			blog.Title = *input.Title
		}
		if input.Content != nil {
			blog.Content = *input.Content
		}
		if input.RelatedContent != nil {
			blog.RelatedContent = input.RelatedContent
		}
		if err := s.blogs.Update(ctx, blog); err != nil {
			return err
		}
		updated = blog
		return nil
	})
	if err != nil {
		return nil, apperr.Logged(log, err)
	}
	log.Info("blog updated")
	return updated, nil
}

func (s *BlogService) Delete(ctx context.Context, userID, blogID int64) error {
	const op = "blogs.BlogService.Delete"
	log := s.log.With("op", op, "user_id", userID, "blog_id", blogID)
	blog, err := s.get(ctx, blogID)
	if err != nil {
		return apperr.Logged(log, err)
	}
	if blog.Author.ID != userID {
		return apperr.Logged(log, ErrNotAuthor)
	}
	if err := s.blogs.Delete(ctx, blogID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.Logged(log, ErrBlogNotFound)
		}
		return apperr.Logged(log, err)
	}
	target := models.Target{Kind: models.TargetBlog, ID: strconv.FormatInt(blogID, 10)}
	if err := s.comments.DeleteForTarget(ctx, target); err != nil {
		log.Warn("failed to delete blog comments", "error", err)
	}
	log.Info("blog deleted")
	return nil
}
