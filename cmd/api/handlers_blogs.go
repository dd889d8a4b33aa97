package main

import (
	"net/http"

	"cinetrack/proj/internal/services/blogs"

	"github.com/go-chi/chi/v5"
)

func (app *Application) createBlog(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title          string   `json:"title" validate:"required,max=150"`
		Content        string   `json:"content" validate:"required,max=20000"`
		RelatedContent []string `json:"relatedContent" validate:"max=10,dive,imdbid"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	blog, err := app.services.Blogs.Create(r.Context(), mustUser(r), blogs.CreateInput{
		Title:          req.Title,
		Content:        req.Content,
		RelatedContent: req.RelatedContent,
	})
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"blog": blog}, "Blog published")
}

func (app *Application) getBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	blog, err := app.services.Blogs.Get(r.Context(), id)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"blog": blog}, "")
}

func (app *Application) updateBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Title          *string  `json:"title" validate:"omitempty,min=1,max=150"`
		Content        *string  `json:"content" validate:"omitempty,min=1,max=20000"`
		RelatedContent []string `json:"relatedContent" validate:"omitempty,max=10,dive,imdbid"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	blog, err := app.services.Blogs.Update(r.Context(), mustUser(r), id, blogs.UpdateInput{
		Title:          req.Title,
		Content:        req.Content,
		RelatedContent: req.RelatedContent,
	})
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"blog": blog}, "Blog updated")
}

func (app *Application) deleteBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.services.Blogs.Delete(r.Context(), mustUser(r), id); err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Blog deleted")
}

func (app *Application) userBlogs(w http.ResponseWriter, r *http.Request) {
	cursor, ok := app.readCursor(w, r)
	if !ok {
		return
	}
	page, err := app.services.Blogs.ListByAuthor(r.Context(), chi.URLParam(r, "name"), cursor)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"blogs": page.Items, "nextResult": page.Next}, "")
}
