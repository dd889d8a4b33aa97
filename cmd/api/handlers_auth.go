package main

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"cinetrack/proj/internal/services/auth"
)

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required,alphanum,min=3,max=20"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8,max=72,strongpassword"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	user, sid, err := app.services.Auth.Signup(r.Context(), auth.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.setSessionCookie(w, sid)
	app.Http.Created(w, r, envelop{"user": user}, "Account created. Check your email to verify it.")
}

func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Credential string `json:"credential" validate:"required"`
		Password   string `json:"password" validate:"required"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	user, sid, err := app.services.Auth.Login(r.Context(), req.Credential, req.Password)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.setSessionCookie(w, sid)
	app.Http.Ok(w, r, envelop{"user": user}, "Logged in")
}

func (app *Application) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := app.services.Auth.Logout(r.Context(), cookie.Value); err != nil {
			app.Http.ServiceError(w, r, err)
			return
		}
	}
	clearCookie(w, sessionCookie)
	app.Http.Ok(w, r, nil, "Logged out")
}

func (app *Application) confirmAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `query:"email" validate:"required,email"`
		Code  string `query:"code" validate:"required,len=6,hexadecimal"`
	}
	if !app.decodeQuery(w, r, &req) {
		return
	}
	msg, err := app.services.Auth.Confirm(r.Context(), req.Email, req.Code)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, msg)
}

func (app *Application) newConfirmationCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	if err := app.services.Auth.NewConfirmationCode(r.Context(), req.Email); err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "A new confirmation code has been sent")
}

func (app *Application) me(w http.ResponseWriter, r *http.Request) {
	view, err := app.services.Profile.Me(r.Context(), mustUser(r))
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": view}, "")
}

// resetPassword either requests a reset link (email only) or completes the
// reset (token and password).
func (app *Application) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required_without=Token,omitempty,email"`
		Token    string `json:"token" validate:"required_without=Email"`
		Password string `json:"password" validate:"required_with=Token,omitempty,min=8,max=72,strongpassword"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	if req.Token != "" {
		if err := app.services.Auth.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
			app.Http.ServiceError(w, r, err)
			return
		}
		app.Http.Ok(w, r, nil, "Password changed. Please log in.")
		return
	}
	if err := app.services.Auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Check your email for a password reset link")
}

func (app *Application) changePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		NewPassword     string `json:"newPassword" validate:"required,min=8,max=72,strongpassword,nefield=CurrentPassword"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	if err := app.services.Auth.ChangePassword(r.Context(), mustUser(r), req.CurrentPassword, req.NewPassword); err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Password changed")
}

func (app *Application) disableAccount(w http.ResponseWriter, r *http.Request) {
	if err := app.services.Auth.DisableAccount(r.Context(), mustUser(r)); err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	clearCookie(w, sessionCookie)
	app.Http.Ok(w, r, nil, "Your account has been disabled")
}

func (app *Application) googleLogin(w http.ResponseWriter, r *http.Request) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	state := hex.EncodeToString(buf)
	url, err := app.services.Auth.GoogleLoginURL(state)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   !app.cfg.Debug,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (app *Application) googleCallback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		State string `query:"state" validate:"required"`
		Code  string `query:"code" validate:"required"`
	}
	if !app.decodeQuery(w, r, &req) {
		return
	}
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value != req.State {
		app.Http.BadRequest(w, r, "Invalid OAuth state")
		return
	}
	clearCookie(w, oauthStateCookie)
	_, sid, err := app.services.Auth.GoogleLogin(r.Context(), req.Code)
	if err != nil {
		app.Http.ServiceError(w, r, err)
		return
	}
	app.setSessionCookie(w, sid)
	http.Redirect(w, r, app.cfg.BaseURL, http.StatusSeeOther)
}
