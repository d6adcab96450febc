// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"folio/internal/apperr"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/service"
	"folio/internal/session"
	"folio/internal/validation"
)

// Auth groups the server-rendered account handlers: registration, login,
// logout and TOTP two-factor authentication.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	svc      *service.Service
	validate *validation.Validator
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, svc *service.Service) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		svc:      svc,
		validate: validation.New(),
	}
}

// registerForm mirrors the registration page fields.
type registerForm struct {
	Username  string `json:"username" validate:"required,max=64,username"`
	Email     string `json:"email" validate:"required,email,max=64"`
	Password  string `json:"password" validate:"required,max=72"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

// RegisterPage renders the registration form.
func (a *Auth) RegisterPage(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "register", &render.PageData{Title: "Register"})
}

// RegisterSubmit creates an account with the default role and sends the
// new user to the login page.
func (a *Auth) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	form := registerForm{
		Username:  strings.TrimSpace(r.FormValue("username")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Password:  r.FormValue("password"),
		Password2: r.FormValue("password2"),
	}

	rerender := func(data *render.PageData) {
		data.Title = "Register"
		data.Data = map[string]any{"Username": form.Username, "Email": form.Email, "Error": data.Data["Error"]}
		a.renderer.PageStatus(w, r, http.StatusUnprocessableEntity, "register", data)
	}

	if err := a.validate.Validate(form); err != nil {
		rerender(&render.PageData{Errors: fieldErrors(err)})
		return
	}

	_, err := a.svc.RegisterUser(r.Context(), service.RegisterInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	switch apperr.KindOf(err) {
	case "":
	case apperr.KindConflict, apperr.KindValidation, apperr.KindMissingArgument:
		rerender(&render.PageData{
			Errors: fieldErrors(err),
			Data:   map[string]any{"Error": userMessage(err)},
		})
		return
	default:
		slog.Error("register failed", "error", err)
		a.renderer.Error(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	http.Redirect(w, r, "/auth/login?registered=1", http.StatusSeeOther)
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.TwoFADone {
		http.Redirect(w, r, "/auth/account", http.StatusSeeOther)
		return
	}

	data := &render.PageData{Title: "Sign In"}
	if r.URL.Query().Get("registered") != "" {
		data.Flashes = []render.Flash{{Type: "success", Message: "You can now log in."}}
	}
	a.renderer.Page(w, r, "login", data)
}

// LoginSubmit checks the credentials and opens a session. Users with 2FA
// enabled must enter a code before the session is complete.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	remember := r.FormValue("remember_me") != ""

	user, err := a.svc.Authenticate(r.Context(), email, password)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindUnauthorized {
			slog.Error("login lookup failed", "error", err)
		}
		a.renderer.PageStatus(w, r, http.StatusUnauthorized, "login", &render.PageData{
			Title: "Sign In",
			Data:  map[string]any{"Error": "Invalid email or password.", "Email": email},
		})
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.RoleName(),
		TwoFADone: !user.HasTwoFactor(),
		Remember:  remember,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		a.renderer.Error(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	slog.Info("user logged in", "username", user.Username, "remember", remember)
	if user.HasTwoFactor() {
		http.Redirect(w, r, middleware.TwoFAVerifyPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/auth/account", http.StatusSeeOther)
}

// Logout destroys the session and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// Account shows the signed-in user's profile and posts.
func (a *Auth) Account(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	user, ok := a.currentUser(w, r, sess)
	if !ok {
		return
	}
	full, err := a.svc.GetUser(r.Context(), user.Username)
	if err != nil {
		slog.Error("load account failed", "error", err)
		a.renderer.Error(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	data := &render.PageData{Title: full.Username, Data: map[string]any{"User": full}}
	switch r.URL.Query().Get("2fa") {
	case "enabled":
		data.Flashes = []render.Flash{{Type: "success", Message: "Two-factor authentication is now enabled."}}
	case "disabled":
		data.Flashes = []render.Flash{{Type: "info", Message: "Two-factor authentication was disabled."}}
	}
	a.renderer.Page(w, r, "account", data)
}

// TwoFASetupPage generates (or re-shows) a TOTP secret and its QR code.
func (a *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	a.renderSetup(w, r, http.StatusOK, "")
}

// TwoFASetupSubmit enables 2FA once the user enters a valid code.
func (a *Auth) TwoFASetupSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	err := a.svc.ConfirmTOTP(r.Context(), sess.UserID, strings.TrimSpace(r.FormValue("code")))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnauthorized {
			a.renderSetup(w, r, http.StatusUnprocessableEntity, "Invalid code. Please try again.")
			return
		}
		slog.Error("confirm totp failed", "error", err)
		a.renderer.Error(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	http.Redirect(w, r, "/auth/account?2fa=enabled", http.StatusSeeOther)
}

func (a *Auth) renderSetup(w http.ResponseWriter, r *http.Request, status int, message string) {
	sess := middleware.SessionFromCtx(r.Context())
	enrollment, err := a.svc.BeginTOTP(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("begin totp failed", "error", err)
		a.renderer.Error(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	data := map[string]any{"QRCode": enrollment.QRCode, "Secret": enrollment.Secret}
	if message != "" {
		data["Error"] = message
	}
	a.renderer.PageStatus(w, r, status, "2fa_setup", &render.PageData{
		Title: "Set Up Two-Factor Authentication",
		Data:  data,
	})
}

// TwoFAVerifyPage renders the code entry form for users with 2FA enabled.
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "2fa_verify", &render.PageData{Title: "Two-Factor Authentication"})
}

// TwoFAVerifySubmit validates the TOTP code and completes the session.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	err := a.svc.VerifyTOTP(r.Context(), sess.UserID, strings.TrimSpace(r.FormValue("code")))
	if err != nil {
		if kind := apperr.KindOf(err); kind == apperr.KindUnauthorized || kind == apperr.KindValidation {
			a.renderer.PageStatus(w, r, http.StatusUnprocessableEntity, "2fa_verify", &render.PageData{
				Title: "Two-Factor Authentication",
				Data:  map[string]any{"Error": "Invalid code. Please try again."},
			})
			return
		}
		slog.Error("verify totp failed", "error", err)
		a.renderer.Error(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		a.renderer.Error(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	http.Redirect(w, r, "/auth/account", http.StatusSeeOther)
}

// TwoFADisable turns 2FA off for the signed-in user.
func (a *Auth) TwoFADisable(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if err := a.svc.ResetTOTP(r.Context(), sess.UserID); err != nil {
		slog.Error("reset totp failed", "error", err)
		a.renderer.Error(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	http.Redirect(w, r, "/auth/account?2fa=disabled", http.StatusSeeOther)
}

// currentUser loads the session's user. A session whose user was deleted
// is destroyed and the visitor is sent back to the login page.
func (a *Auth) currentUser(w http.ResponseWriter, r *http.Request, sess *session.Data) (*models.User, bool) {
	user, err := a.svc.UserByID(r.Context(), sess.UserID)
	if err == nil {
		return user, true
	}
	if apperr.KindOf(err) == apperr.KindNotFound {
		_ = a.sessions.Destroy(r.Context(), w, r)
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return nil, false
	}
	slog.Error("load session user failed", "error", err)
	a.renderer.Error(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
	return nil, false
}

// fieldErrors extracts the per-field messages of a validation error.
func fieldErrors(err error) map[string]string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if details, ok := appErr.Details.(map[string]string); ok {
			out := make(map[string]string, len(details))
			for field, msg := range details {
				out[field] = sentence(field, msg)
			}
			return out
		}
	}
	return nil
}

// userMessage turns an error into a sentence for a form banner.
func userMessage(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Details == nil {
		msg := appErr.Message
		if msg == "" {
			return ""
		}
		return strings.ToUpper(msg[:1]) + msg[1:] + "."
	}
	return ""
}

func sentence(field, msg string) string {
	label := strings.ToUpper(field[:1]) + field[1:]
	if field == "password2" {
		label = "Confirmation"
		if strings.HasPrefix(msg, "must match") {
			return "Passwords must match."
		}
	}
	return label + " " + msg + "."
}
