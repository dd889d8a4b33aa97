package main

import (
	"net/http"

	"cinetrack/proj/internal/domain/models"
	"cinetrack/proj/internal/services/clubs"

	"github.com/go-chi/chi/v5"
)

func (app *Application) createClub(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required,min=3,max=50"`
		Description string `json:"description" validate:"max=1000"`
		Image       string `json:"image" validate:"omitempty,url"`
		AutoJoin    bool   `json:"autoJoin"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	club, err := app.services.Clubs.Create(r.Context(), mustUser(r), clubs.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		AutoJoin:    req.AutoJoin,
	})
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"club": club}, "Club created")
}

func (app *Application) listClubs(w http.ResponseWriter, r *http.Request) {
	cursor, ok := app.readCursor(w, r)
	if !ok {
		return
	}
	page, err := app.services.Clubs.List(r.Context(), cursor)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"clubs": page.Items, "nextResult": page.Next}, "")
}

func (app *Application) getClub(w http.ResponseWriter, r *http.Request) {
	club, err := app.services.Clubs.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"club": club}, "")
}

// clubUsers serves the member, banned and pending listings.
func (app *Application) clubUsers(key string, list func(r *http.Request, clubID int64) ([]models.UserSummary, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clubID, ok := app.extractIDParam(w, r, "id")
		if !ok {
			return
		}
		users, err := list(r, clubID)
		if err != nil {
			app.Http.ServiceError(w, r, err)
			return
		}
		app.Http.Ok(w, r, envelop{key: users}, "")
	}
}

func (app *Application) clubMembers() http.HandlerFunc {
	return app.clubUsers("members", func(r *http.Request, clubID int64) ([]models.UserSummary, error) {
		return app.services.Clubs.Members(r.Context(), clubID)
	})
}

func (app *Application) clubBanned() http.HandlerFunc {
	return app.clubUsers("banned", func(r *http.Request, clubID int64) ([]models.UserSummary, error) {
		return app.services.Clubs.Banned(r.Context(), mustUser(r), clubID)
	})
}

func (app *Application) clubPending() http.HandlerFunc {
	return app.clubUsers("pending", func(r *http.Request, clubID int64) ([]models.UserSummary, error) {
		return app.services.Clubs.Pending(r.Context(), mustUser(r), clubID)
	})
}

func (app *Application) joinClub(w http.ResponseWriter, r *http.Request) {
	clubID, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	joined, err := app.services.Clubs.Join(r.Context(), mustUser(r), clubID)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	if joined {
		app.Http.Ok(w, r, envelop{"joined": true}, "Joined the club")
		return
	}
	app.Http.Ok(w, r, envelop{"joined": false}, "Join request sent")
}

func (app *Application) leaveClub(w http.ResponseWriter, r *http.Request) {
	clubID, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.services.Clubs.Leave(r.Context(), mustUser(r), clubID); err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Left the club")
}

// moderate adapts an admin action on another user of the club.
func (app *Application) moderate(msg string, action func(r *http.Request, actorID, clubID, targetID int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clubID, ok := app.extractIDParam(w, r, "id")
		if !ok {
			return
		}
		targetID, ok := app.extractIDParam(w, r, "userId")
		if !ok {
			return
		}
		if err := action(r, mustUser(r), clubID, targetID); err != nil {
			app.Http.ServiceError(w, r, err)
			return
		}
		app.Http.Ok(w, r, nil, msg)
	}
}

func (app *Application) removeClubMember() http.HandlerFunc {
	return app.moderate("Member removed", func(r *http.Request, actor, club, target int64) error {
		return app.services.Clubs.RemoveMember(r.Context(), actor, club, target)
	})
}

func (app *Application) addClubAdmin() http.HandlerFunc {
	return app.moderate("Admin added", func(r *http.Request, actor, club, target int64) error {
		return app.services.Clubs.AddAdmin(r.Context(), actor, club, target)
	})
}

func (app *Application) removeClubAdmin() http.HandlerFunc {
	return app.moderate("Admin removed", func(r *http.Request, actor, club, target int64) error {
		return app.services.Clubs.RemoveAdmin(r.Context(), actor, club, target)
	})
}

func (app *Application) banFromClub() http.HandlerFunc {
	return app.moderate("User banned", func(r *http.Request, actor, club, target int64) error {
		return app.services.Clubs.Ban(r.Context(), actor, club, target)
	})
}

func (app *Application) unbanFromClub() http.HandlerFunc {
	return app.moderate("User unbanned", func(r *http.Request, actor, club, target int64) error {
		return app.services.Clubs.Unban(r.Context(), actor, club, target)
	})
}

func (app *Application) resolvePending(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Approved *bool `json:"approved" validate:"required"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	msg := "Request rejected"
	if *req.Approved {
		msg = "Request approved"
	}
	app.moderate(msg, func(r *http.Request, actor, club, target int64) error {
		return app.services.Clubs.ResolvePending(r.Context(), actor, club, target, *req.Approved)
	})(w, r)
}

func (app *Application) disableClub(w http.ResponseWriter, r *http.Request) {
	clubID, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Disabled *bool `json:"disabled" validate:"required"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	if err := app.services.Clubs.SetDisabled(r.Context(), mustUser(r), clubID, *req.Disabled); err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	msg := "Club enabled"
	if *req.Disabled {
		msg = "Club disabled"
	}
	app.Http.Ok(w, r, nil, msg)
}

func (app *Application) writeDiscussion(w http.ResponseWriter, r *http.Request) {
	clubID, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Title       string `json:"title" validate:"required,max=100"`
		Description string `json:"description" validate:"required,max=5000"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	post, err := app.services.Clubs.WriteDiscussion(r.Context(), mustUser(r), clubID, req.Title, req.Description)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"discussion": post}, "Discussion created")
}

func (app *Application) listDiscussions(w http.ResponseWriter, r *http.Request) {
	clubID, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	cursor, ok := app.readCursor(w, r)
	if !ok {
		return
	}
	page, err := app.services.Clubs.Discussions(r.Context(), clubID, cursor)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"discussions": page.Items, "nextResult": page.Next}, "")
}

func (app *Application) deleteDiscussion(w http.ResponseWriter, r *http.Request) {
	clubID, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	postID, ok := app.extractIDParam(w, r, "postId")
	if !ok {
		return
	}
	if err := app.services.Clubs.DeleteDiscussion(r.Context(), mustUser(r), clubID, postID); err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Discussion deleted")
}

func (app *Application) voteDiscussion(upvote bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clubID, ok := app.extractIDParam(w, r, "id")
		if !ok {
			return
		}
		postID, ok := app.extractIDParam(w, r, "postId")
		if !ok {
			return
		}
		vote := app.services.Clubs.DownvoteDiscussion
		if upvote {
			vote = app.services.Clubs.UpvoteDiscussion
		}
		counts, err := vote(r.Context(), mustUser(r), clubID, postID)
		if err != nil {
			app.Http.ServiceError(w, r, err)
			return
		}
		app.Http.Ok(w, r, envelop{"votes": counts}, "")
	}
}
