package main

import (
	"net/http"

	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.MethodNotAllowed(app.Http.MethodNotAllowed)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(app.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)
	router.Handle("/metrics", metrics.Handler())
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", app.signup)
			r.Post("/login", app.login)
			r.Post("/logout", app.logout)
			r.Get("/confirm", app.confirmAccount)
			r.Post("/confirm/new-code", app.newConfirmationCode)
			r.Post("/reset-password", app.resetPassword)
			r.Get("/google/login", app.googleLogin)
			r.Get("/google/callback", app.googleCallback)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Get("/me", app.me)
				r.Post("/change-password", app.changePassword)
				r.Post("/disable-account", app.disableAccount)
			})
		})
		r.Route("/movies", func(r chi.Router) {
			r.Post("/search", app.searchMovies)
			r.Get("/{imdbId}", app.getMovie)
			r.With(app.requireAdmin).Post("/", app.createMovie)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				for _, list := range []struct {
					name     models.ListName
					singular string
				}{
					{models.Favorites, "favorite"},
					{models.WatchList, "watchlist"},
					{models.Watching, "watching"},
					{models.Completed, "completed"},
				} {
					r.Get("/"+string(list.name), app.getList(list.name))
					r.Post("/add-"+list.singular, app.addToList(list.name))
					r.Post("/remove-"+list.singular, app.removeFromList(list.name))
				}
			})
		})
		r.Route("/profile", func(r chi.Router) {
			r.Post("/get-user-profile", app.getUserProfile)
			r.Get("/{name}/followers", app.followers)
			r.Get("/{name}/following", app.following)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Patch("/", app.updateProfile)
				r.Get("/add-friend", app.addFriend())
				r.Get("/accept-friend", app.acceptFriend())
				r.Get("/reject-friend", app.rejectFriend())
				r.Get("/remove-friend", app.removeFriend())
				r.Get("/friends", app.friends)
				r.Get("/friend-requests", app.friendRequests)
				r.Get("/follow", app.follow())
				r.Get("/unfollow", app.unfollow())
			})
		})
		r.Route("/comments", func(r chi.Router) {
			r.Get("/", app.listComments)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Post("/", app.addComment)
				r.Patch("/{id}", app.editComment)
				r.Delete("/{id}", app.deleteComment)
				r.Post("/{id}/upvote", app.voteHandler(func(r *http.Request, uid, id int64) (models.VoteCounts, error) {
					return app.services.Comments.Upvote(r.Context(), uid, id)
				}))
				r.Post("/{id}/downvote", app.voteHandler(func(r *http.Request, uid, id int64) (models.VoteCounts, error) {
					return app.services.Comments.Downvote(r.Context(), uid, id)
				}))
			})
		})
		r.Route("/reviews", func(r chi.Router) {
			r.Get("/{id}", app.getReview)
			r.Get("/{id}/reactions", app.reviewReactions)
			r.Get("/movie/{imdbId}", app.movieReviews)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Post("/", app.writeReview)
				r.Delete("/{id}", app.deleteReview)
				r.Post("/{id}/reactions", app.reactToReview)
				r.Post("/{id}/upvote", app.voteHandler(func(r *http.Request, uid, id int64) (models.VoteCounts, error) {
					return app.services.Reviews.Upvote(r.Context(), uid, id)
				}))
				r.Post("/{id}/downvote", app.voteHandler(func(r *http.Request, uid, id int64) (models.VoteCounts, error) {
					return app.services.Reviews.Downvote(r.Context(), uid, id)
				}))
			})
		})
		r.Route("/clubs", func(r chi.Router) {
			r.Get("/", app.listClubs)
			r.Get("/{name}", app.getClub)
			r.Get("/{id}/members", app.clubMembers())
			r.Get("/{id}/discussions", app.listDiscussions)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Post("/", app.createClub)
				r.Post("/{id}/join", app.joinClub)
				r.Post("/{id}/leave", app.leaveClub)
				r.Post("/{id}/members/{userId}/remove", app.removeClubMember())
				r.Post("/{id}/admins/{userId}", app.addClubAdmin())
				r.Delete("/{id}/admins/{userId}", app.removeClubAdmin())
				r.Post("/{id}/ban/{userId}", app.banFromClub())
				r.Post("/{id}/unban/{userId}", app.unbanFromClub())
				r.Get("/{id}/banned", app.clubBanned())
				r.Get("/{id}/pending", app.clubPending())
				r.Post("/{id}/pending/{userId}", app.resolvePending)
				r.Post("/{id}/disable", app.disableClub)
				r.Post("/{id}/discussions", app.writeDiscussion)
				r.Delete("/{id}/discussions/{postId}", app.deleteDiscussion)
				r.Post("/{id}/discussions/{postId}/upvote", app.voteDiscussion(true))
				r.Post("/{id}/discussions/{postId}/downvote", app.voteDiscussion(false))
			})
		})
		r.Route("/messages", func(r chi.Router) {
			r.Use(app.requireAuthenticatedUser)
			r.Post("/", app.sendMessage)
			r.Get("/{name}", app.conversation)
		})
		r.Route("/blogs", func(r chi.Router) {
			r.Get("/{id}", app.getBlog)
			r.Get("/user/{name}", app.userBlogs)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Post("/", app.createBlog)
				r.Patch("/{id}", app.updateBlog)
				r.Delete("/{id}", app.deleteBlog)
			})
		})
		r.Route("/news", func(r chi.Router) {
			r.Get("/", app.listNews)
			r.Get("/{id}", app.getNews)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Post("/", app.createNews)
				r.Patch("/{id}", app.updateNews)
				r.Post("/{id}/lock", app.lockNews)
				r.Post("/{id}/reactions", app.reactToNews)
				r.Delete("/{id}", app.deleteNews)
			})
		})
	})
	return router
}
