package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"cinetrack/proj/internal/config"
	"cinetrack/proj/internal/domain/apperr"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Http struct {
	log *slog.Logger
	cfg *config.Config
}

type envelop map[string]any

const (
	statusSuccess = "success"
	statusError   = "error"
)

type Response struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Error   string  `json:"error,omitempty"`
	Data    envelop `json:"data,omitempty"`
}

func processMsg(status int, msg string) string {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return msg
}

func (h *Http) setupLogPerReq(r *http.Request) *slog.Logger {
	return h.log.With(
		"request_id",
		middleware.GetReqID(r.Context()),
		"method",
		r.Method,
		"path",
		r.URL.Path,
	)
}

func (h *Http) NewResponse(data envelop, msg string, status int) *Response {
	msg = processMsg(status, msg)
	if status >= 200 && status < 400 {
		return &Response{Status: statusSuccess, Message: msg, Data: data}
	}
	return &Response{Status: statusError, Error: msg, Data: data}
}

func (h *Http) Response(w http.ResponseWriter, r *http.Request, data envelop, msg string, status int) {
	render.Status(r, status)
	render.JSON(w, r, h.NewResponse(data, msg, status))
}

func (h *Http) Ok(w http.ResponseWriter, r *http.Request, data envelop, msg string) {
	h.Response(w, r, data, msg, http.StatusOK)
}

func (h *Http) Created(w http.ResponseWriter, r *http.Request, data envelop, msg string) {
	h.Response(w, r, data, msg, http.StatusCreated)
}

func (h *Http) BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusBadRequest)
}

func (h *Http) Unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusUnauthorized)
}

func (h *Http) Forbidden(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusForbidden)
}

func (h *Http) Conflict(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusConflict)
}

func (h *Http) UnprocessableEntity(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	h.Response(w, r, envelop{"errors": errors}, "Validation failed", http.StatusUnprocessableEntity)
}

func (h *Http) NotFound(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusNotFound)
}

func (h *Http) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.Response(w, r, nil, "", http.StatusMethodNotAllowed)
}

func (h *Http) ServerError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := http.StatusInternalServerError
	defaultErrMsg := "Sorry! Can't process your request. Please try again later."
	log := h.setupLogPerReq(r)
	if err == nil {
		err = errors.New(http.StatusText(status))
	}
	log.Error(err.Error())
	if msg == "" {
		msg = defaultErrMsg
	}
	if h.cfg.Debug {
		w.WriteHeader(status)
		fmt.Fprintf(w, "%s\n%s", err.Error(), debug.Stack())
		return
	}
	render.Status(r, status)
	render.JSON(w, r, Response{Status: statusError, Error: msg})
}

// ServiceError writes the response matching the kind of a service error.
// Errors outside the taxonomy are internal.
func (h *Http) ServiceError(w http.ResponseWriter, r *http.Request, err error) {
	msg := apperr.MessageOf(err)
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		h.NotFound(w, r, msg)
	case apperr.InvalidInput:
		h.BadRequest(w, r, msg)
	case apperr.Conflict:
		h.Conflict(w, r, msg)
	case apperr.Unauthorized:
		h.Unauthorized(w, r, msg)
	default:
		h.ServerError(w, r, err, "")
	}
}

// InputError is ServiceError for routes that report duplicate state (an item
// already in a list, a repeated friend request) as a bad request.
func (h *Http) InputError(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.KindOf(err) == apperr.Conflict {
		h.BadRequest(w, r, apperr.MessageOf(err))
		return
	}
	h.ServiceError(w, r, err)
}
