package main

import (
	"net/http"
	"strings"

	"cinetrack/proj/internal/domain/fields"
	"cinetrack/proj/internal/domain/models"

	"github.com/go-chi/chi/v5"
)

type imdbIDRequest struct {
	ImdbID string `json:"imdbId" validate:"required,imdbid"`
}

func (app *Application) getList(list models.ListName) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor, ok := app.readCursor(w, r)
		if !ok {
			return
		}
		page, err := app.services.Lists.Get(r.Context(), mustUser(r), list, cursor)
		if err != nil {
			app.Http.ServiceError(w, r, err)
			return
		}
		app.Http.Ok(w, r, envelop{"movies": page.Items, "nextResult": page.Next}, "")
	}
}

func (app *Application) addToList(list models.ListName) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req imdbIDRequest
		if !app.decodeBody(w, r, &req) {
			return
		}
		if err := app.services.Lists.Add(r.Context(), mustUser(r), req.ImdbID, list); err != nil {
			app.Http.InputError(w, r, err)
			return
		}
		app.Http.Ok(w, r, nil, "Added to "+string(list))
	}
}

func (app *Application) removeFromList(list models.ListName) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req imdbIDRequest
		if !app.decodeBody(w, r, &req) {
			return
		}
		if err := app.services.Lists.Remove(r.Context(), mustUser(r), req.ImdbID, list); err != nil {
			app.Http.InputError(w, r, err)
			return
		}
		app.Http.Ok(w, r, nil, "Removed from "+string(list))
	}
}

func (app *Application) searchMovies(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Search string `json:"search" validate:"required,max=100"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	pages, err := app.services.Catalog.SearchFirstPages(r.Context(), req.Search)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"response": pages}, "")
}

func (app *Application) getMovie(w http.ResponseWriter, r *http.Request) {
	imdbID := chi.URLParam(r, "imdbId")
	item, err := app.services.Catalog.Get(r.Context(), imdbID)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"content": item}, "")
}

func (app *Application) createMovie(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImdbID         string   `json:"imdbId" validate:"required,imdbid"`
		Title          string   `json:"title" validate:"required,max=200"`
		Year           int32    `json:"year" validate:"omitempty,gte=1888,lte=2100"`
		AgeRestriction int32    `json:"ageRestriction" validate:"gte=0,lte=21"`
		Type           string   `json:"type" validate:"required,oneof=movie series"`
		Duration       int32    `json:"duration" validate:"gte=0"`
		Genre          []string `json:"genre" validate:"required,min=1,dive,required"`
		Description    string   `json:"description" validate:"max=2000"`
		Rating         float64  `json:"rating" validate:"gte=0,lte=10"`
		Images         []string `json:"images" validate:"dive,url"`
		Trailer        string   `json:"trailer" validate:"omitempty,url"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	genre := make([]string, 0, len(req.Genre))
	for _, g := range req.Genre {
		genre = append(genre, strings.ToLower(strings.TrimSpace(g)))
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}
	item, err := app.services.Catalog.Create(r.Context(), &models.ContentItem{
		ImdbID:         req.ImdbID,
		Title:          req.Title,
		Year:           req.Year,
		AgeRestriction: req.AgeRestriction,
		Type:           fields.ContentType(req.Type),
		Duration:       fields.Runtime(req.Duration),
		Genre:          genre,
		Description:    req.Description,
		Rating:         req.Rating,
		Images:         images,
		Trailer:        req.Trailer,
	})
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"content": item}, "Content created")
}
