package main

import (
	"net/http"

	"cinetrack/proj/internal/services/reviews"

	"github.com/go-chi/chi/v5"
)

func (app *Application) writeReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImdbID string `json:"imdbId" validate:"required,imdbid"`
		Title  string `json:"title" validate:"required,max=100"`
		Body   string `json:"body" validate:"required,max=5000"`
		Image  string `json:"image" validate:"omitempty,url"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	review, err := app.services.Reviews.Write(r.Context(), mustUser(r), reviews.WriteInput{
		ImdbID: req.ImdbID,
		Title:  req.Title,
		Body:   req.Body,
		Image:  req.Image,
	})
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"review": review}, "Review published")
}

func (app *Application) getReview(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	review, err := app.services.Reviews.Get(r.Context(), id)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"review": review}, "")
}

func (app *Application) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.services.Reviews.Delete(r.Context(), mustUser(r), id); err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Review deleted")
}

func (app *Application) movieReviews(w http.ResponseWriter, r *http.Request) {
	cursor, ok := app.readCursor(w, r)
	if !ok {
		return
	}
	page, err := app.services.Reviews.ListForContent(r.Context(), chi.URLParam(r, "imdbId"), cursor)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"reviews": page.Items, "nextResult": page.Next}, "")
}

func (app *Application) reactToReview(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Reaction string `json:"reaction" validate:"required"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	added, counts, err := app.services.Reviews.React(r.Context(), mustUser(r), id, req.Reaction)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	msg := "Reaction removed"
	if added {
		msg = "Reaction added"
	}
	app.Http.Ok(w, r, envelop{"reactions": counts}, msg)
}

func (app *Application) reviewReactions(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	counts, err := app.services.Reviews.Reactions(r.Context(), id)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"reactions": counts}, "")
}
