package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/safhub/portald/internal/auth"
	"github.com/safhub/portald/internal/credstore"
	"github.com/safhub/portald/internal/logger"
)

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func (a *App) baseData(r *http.Request) *ViewData {
	data := &ViewData{}
	if sess, ok := sessionFrom(r); ok {
		data.Authed = true
		data.Username = sess.Username
		data.Role = sess.Role
		data.Admin = sess.Role == "admin"
	}
	return data
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	data := a.baseData(r)
	data.NoticeHTML = a.noticeHTML
	a.renderPage(w, "index", data)
}

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	role := strings.TrimPrefix(r.URL.Path, "/login/")
	if role == "" || strings.Contains(role, "/") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := a.baseData(r)
	data.HideNav = true
	data.LoginRole = role

	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		a.renderPage(w, "login", data)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	_ = r.ParseForm()
	username := strings.TrimSpace(r.Form.Get("username"))
	password := r.Form.Get("password")

	sess, err := auth.Authenticate(a.users, username, password, role)
	if err != nil {
		logger.Info("Failed %s login attempt for user %s from %s", role, username, remoteIP(r))
		data.Flash = auth.HumanAuthError(err)
		data.FlashKind = "err"
		a.renderPage(w, "login", data)
		return
	}

	tok, err := auth.SignHS256(a.secret, sess.Username, sess.Role, auth.DefaultSessionTTL)
	if err != nil {
		data.Flash = "Failed to create session."
		data.FlashKind = "err"
		a.renderPage(w, "login", data)
		return
	}
	logger.Info("User %s logged in as %s from %s", sess.Username, sess.Role, remoteIP(r))
	a.issueCookie(w, tok)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (a *App) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	a.renderPage(w, "home", a.baseData(r))
}

func (a *App) handleAdmin(w http.ResponseWriter, r *http.Request) {
	data := a.baseData(r)

	if r.Method == http.MethodPost {
		_ = r.ParseForm()
		newUser := strings.TrimSpace(r.Form.Get("new_user"))
		newPass := r.Form.Get("new_pass")
		newRole := r.Form.Get("new_role")

		switch {
		case newUser == "" || newPass == "" || newRole == "":
			data.Flash = "Please fill in all fields."
			data.FlashKind = "err"
			data.FormUser = newUser
			data.FormRole = newRole
		default:
			err := a.users.Insert(newUser, newPass, newRole)
			switch {
			case errors.Is(err, credstore.ErrUserExists):
				data.Flash = "User already exists."
				data.FlashKind = "err"
				data.FormRole = newRole
			case err != nil:
				logger.Error("Admin %s failed to create user %s: %v", data.Username, newUser, err)
				data.Flash = "Failed to save user."
				data.FlashKind = "err"
			default:
				logger.Info("Admin %s created user %s with role %s from %s", data.Username, newUser, newRole, remoteIP(r))
				data.Flash = fmt.Sprintf("User '%s' added successfully.", newUser)
				data.FlashKind = "ok"
			}
		}
	} else if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	for _, e := range a.users.List() {
		data.Users = append(data.Users, UserRow{Name: e.Username, Role: e.User.Role})
	}
	a.renderPage(w, "admin", data)
}

func (a *App) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	data := a.baseData(r)

	if r.Method == http.MethodPost {
		_ = r.ParseForm()
		current := r.Form.Get("current")
		newPass := r.Form.Get("new")
		confirm := r.Form.Get("confirm")

		stored, ok := a.users.Get(data.Username)
		switch {
		case !ok || !auth.VerifyPassword(stored.PasswordHash, current):
			logger.Warn("Password change failed (verify current) for %s from %s", data.Username, remoteIP(r))
			data.Flash = "Current password is incorrect."
			data.FlashKind = "err"
		case newPass != confirm:
			data.Flash = "New passwords do not match."
			data.FlashKind = "err"
		default:
			if err := a.users.UpdatePassword(data.Username, newPass); err != nil {
				logger.Error("Password change failed (save) for %s: %v", data.Username, err)
				data.Flash = "Failed to save new password."
				data.FlashKind = "err"
			} else {
				logger.Info("User %s changed password from %s", data.Username, remoteIP(r))
				data.Flash = "Password changed successfully."
				data.FlashKind = "ok"
			}
		}
	} else if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	a.renderPage(w, "change_password", data)
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := sessionFrom(r); ok {
		logger.Info("User %s logged out from %s", sess.Username, remoteIP(r))
	}
	a.clearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) renderPage(w http.ResponseWriter, page string, data *ViewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	t := a.pages[page]
	if t == nil {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		logger.Error("renderPage template execution failed for %s: %v", page, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
