package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *Application) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To      string `json:"to" validate:"required"`
		Message string `json:"message"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	msg, err := app.services.Messages.Send(r.Context(), mustUser(r), req.To, req.Message)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"message": msg}, "Message sent")
}

func (app *Application) conversation(w http.ResponseWriter, r *http.Request) {
	cursor, ok := app.readCursor(w, r)
	if !ok {
		return
	}
	page, err := app.services.Messages.Conversation(r.Context(), mustUser(r), chi.URLParam(r, "name"), cursor)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"messages": page.Items, "nextResult": page.Next}, "")
}
