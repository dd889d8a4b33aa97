package main

import (
	"net/http"

	"cinetrack/proj/internal/domain/models"
)

func (app *Application) addComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type     string `json:"type" validate:"required"`
		TargetID string `json:"targetId" validate:"required"`
		Content  string `json:"content" validate:"required,max=1000"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	target, err := models.ParseTarget(req.Type, req.TargetID)
	if err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	comment, err := app.services.Comments.Add(r.Context(), mustUser(r), target, req.Content)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"comment": comment}, "Comment added")
}

func (app *Application) editComment(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" validate:"required,max=1000"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	comment, err := app.services.Comments.Edit(r.Context(), mustUser(r), id, req.Content)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": comment}, "Comment edited")
}

func (app *Application) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	user := userFromCtx(r)
	if err := app.services.Comments.Delete(r.Context(), user.ID, user.IsAdmin(), id); err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Comment deleted")
}

// voteHandler serves the upvote and downvote routes of every votable entity
// addressed by a single id parameter.
func (app *Application) voteHandler(vote func(r *http.Request, userID, id int64) (models.VoteCounts, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := app.extractIDParam(w, r, "id")
		if !ok {
			return
		}
		counts, err := vote(r, mustUser(r), id)
		if err != nil {
			app.Http.ServiceError(w, r, err)
			return
		}
		app.Http.Ok(w, r, envelop{"votes": counts}, "")
	}
}

func (app *Application) listComments(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `query:"type" validate:"required"`
		ID   string `query:"id" validate:"required"`
	}
	if !app.decodeQuery(w, r, &req) {
		return
	}
	target, err := models.ParseTarget(req.Type, req.ID)
	if err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	cursor, ok := app.readCursor(w, r)
	if !ok {
		return
	}
	page, err := app.services.Comments.List(r.Context(), target, cursor)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comments": page.Items, "nextResult": page.Next}, "")
}
