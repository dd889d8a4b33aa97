package main

import (
	"net/http"

	"cinetrack/proj/internal/services/profile"

	"github.com/go-chi/chi/v5"
)

func (app *Application) getUserProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required,max=50"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	view, err := app.services.Profile.Get(r.Context(), req.Name, viewerID(r))
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": view}, "")
}

func (app *Application) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Bio         *string           `json:"bio" validate:"omitempty,max=500"`
		Image       *string           `json:"image" validate:"omitempty,url"`
		IsPrivate   *bool             `json:"isPrivate"`
		SocialLinks map[string]string `json:"socialLinks" validate:"omitempty,max=10,dive,keys,max=30,endkeys,url"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	view, err := app.services.Profile.Update(r.Context(), mustUser(r), profile.UpdateInput{
		Bio:         req.Bio,
		Image:       req.Image,
		IsPrivate:   req.IsPrivate,
		SocialLinks: req.SocialLinks,
	})
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": view}, "Profile updated")
}

// socialAction adapts a (user, other username) operation to a handler reading
// the username from the query parameter param.
func (app *Application) socialAction(param, msg string, action func(r *http.Request, userID int64, name string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get(param)
		if name == "" {
			app.Http.BadRequest(w, r, param+" is required")
			return
		}
		if err := action(r, mustUser(r), name); err != nil {
			app.Http.InputError(w, r, err)
			return
		}
		app.Http.Ok(w, r, nil, msg)
	}
}

func (app *Application) addFriend() http.HandlerFunc {
	return app.socialAction("friendName", "Friend request sent", func(r *http.Request, uid int64, name string) error {
		return app.services.Social.AddFriend(r.Context(), uid, name)
	})
}

func (app *Application) acceptFriend() http.HandlerFunc {
	return app.socialAction("friendName", "Friend request accepted", func(r *http.Request, uid int64, name string) error {
		return app.services.Social.AcceptFriend(r.Context(), uid, name)
	})
}

func (app *Application) rejectFriend() http.HandlerFunc {
	return app.socialAction("friendName", "Friend request rejected", func(r *http.Request, uid int64, name string) error {
		return app.services.Social.RejectFriend(r.Context(), uid, name)
	})
}

func (app *Application) removeFriend() http.HandlerFunc {
	return app.socialAction("friendName", "Friend removed", func(r *http.Request, uid int64, name string) error {
		return app.services.Social.RemoveFriend(r.Context(), uid, name)
	})
}

func (app *Application) follow() http.HandlerFunc {
	return app.socialAction("name", "Followed", func(r *http.Request, uid int64, name string) error {
		return app.services.Social.Follow(r.Context(), uid, name)
	})
}

func (app *Application) unfollow() http.HandlerFunc {
	return app.socialAction("name", "Unfollowed", func(r *http.Request, uid int64, name string) error {
		return app.services.Social.Unfollow(r.Context(), uid, name)
	})
}

func (app *Application) friends(w http.ResponseWriter, r *http.Request) {
	friends, err := app.services.Social.Friends(r.Context(), mustUser(r))
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"friends": friends}, "")
}

func (app *Application) friendRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := app.services.Social.FriendRequests(r.Context(), mustUser(r))
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"requests": requests}, "")
}

func (app *Application) followers(w http.ResponseWriter, r *http.Request) {
	users, err := app.services.Social.Followers(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"followers": users}, "")
}

func (app *Application) following(w http.ResponseWriter, r *http.Request) {
	users, err := app.services.Social.Following(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"following": users}, "")
}
