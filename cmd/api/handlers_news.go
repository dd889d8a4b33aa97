package main

import (
	"net/http"

	"cinetrack/proj/internal/services/news"
)

func newsActor(r *http.Request) news.Actor {
	id := mustUser(r)
	return news.Actor{ID: id, Admin: userFromCtx(r).IsAdmin()}
}

func (app *Application) createNews(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string   `json:"title" validate:"required,max=150"`
		Description string   `json:"description" validate:"required,max=20000"`
		Image       string   `json:"image" validate:"omitempty,url"`
		Tags        []string `json:"tags" validate:"max=10,dive,min=1,max=30"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	n, err := app.services.News.Create(r.Context(), mustUser(r), news.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Tags:        req.Tags,
	})
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"news": n}, "News published")
}

func (app *Application) getNews(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	n, err := app.services.News.Get(r.Context(), id)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"news": n}, "")
}

func (app *Application) listNews(w http.ResponseWriter, r *http.Request) {
	cursor, ok := app.readCursor(w, r)
	if !ok {
		return
	}
	page, err := app.services.News.List(r.Context(), cursor)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"news": page.Items, "nextResult": page.Next}, "")
}

func (app *Application) updateNews(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Title       *string  `json:"title" validate:"omitempty,min=1,max=150"`
		Description *string  `json:"description" validate:"omitempty,min=1,max=20000"`
		Image       *string  `json:"image" validate:"omitempty,url"`
		Tags        []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=30"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	n, err := app.services.News.Update(r.Context(), mustUser(r), id, news.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Tags:        req.Tags,
	})
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"news": n}, "News updated")
}

func (app *Application) lockNews(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Locked *bool `json:"locked" validate:"required"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	n, err := app.services.News.SetLocked(r.Context(), newsActor(r), id, *req.Locked)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	msg := "News unlocked"
	if n.IsLocked {
		msg = "News locked"
	}
	app.Http.Ok(w, r, envelop{"news": n}, msg)
}

func (app *Application) reactToNews(w http.ResponseWriter, r *http.Request) {
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
	added, counts, err := app.services.News.React(r.Context(), mustUser(r), id, req.Reaction)
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

func (app *Application) deleteNews(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.services.News.Delete(r.Context(), newsActor(r), id); err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "News deleted")
}
