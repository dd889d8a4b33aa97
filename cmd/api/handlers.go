package main

import (
	"net/http"
)

func (app *Application) healthcheck(w http.ResponseWriter, r *http.Request) {
	env := "production"
	if app.cfg.Debug {
		env = "development"
	}
	app.Http.Ok(w, r, envelop{
		"systemInfo": envelop{
			"environment": env,
			"version":     version,
			"googleLogin": app.services.Auth.GoogleEnabled(),
		},
	}, "available")
}
