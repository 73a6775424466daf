package handlers

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/eventms/appserver/internal/services"
	"github.com/eventms/appserver/internal/session"
	"github.com/eventms/appserver/types"
	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = []string{
	"index.html",
	"register.html",
	"login.html",
	"dashboard.html",
	"update_registration.html",
}

const loginPrompt = "Please log in to register for the event. New user? Create an account first."

// PageHandler provides the server-rendered surface.
type PageHandler struct {
	users     *services.UserService
	events    *services.EventService
	regs      *services.RegistrationService
	sessions  *session.Manager
	templates map[string]*template.Template
}

// NewPageHandler constructs a PageHandler, parsing the embedded templates.
func NewPageHandler(
	users *services.UserService,
	events *services.EventService,
	regs *services.RegistrationService,
	sessions *session.Manager,
) *PageHandler {
	templates := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		templates[name] = template.Must(template.New("layout.html").ParseFS(
			templatesFS,
			"templates/layout.html",
			"templates/"+name,
		))
	}
	return &PageHandler{
		users:     users,
		events:    events,
		regs:      regs,
		sessions:  sessions,
		templates: templates,
	}
}

// PageRouter registers the page routes on the given router.
func PageRouter(
	r chi.Router,
	users *services.UserService,
	events *services.EventService,
	regs *services.RegistrationService,
	sessions *session.Manager,
) {
	h := NewPageHandler(users, events, regs, sessions)

	r.Get("/", h.Index)
	r.Get("/register", h.RegisterForm)
	r.Post("/register", h.Register)
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)

	r.With(h.requireSession(loginPrompt)).Get("/register_event/{eventID}", h.RegisterEvent)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession(""))
		r.Post("/cancel_registration/{eventID}", h.CancelRegistration)
		r.Get("/update_registration/{eventID}", h.UpdateRegistrationForm)
		r.Post("/update_registration/{eventID}", h.UpdateRegistration)
		r.Get("/my", h.Dashboard)
	})
}

// requireSession redirects unauthenticated requests to the login page with a
// "next" hint back to the requested operation. POST targets are not
// replayable after login, so those requests come back to the dashboard.
func (h *PageHandler) requireSession(prompt string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := h.sessions.Lookup(r)
			if err != nil {
				if prompt != "" {
					setFlash(w, prompt, flashInfo)
				}
				target := r.URL.RequestURI()
				if r.Method != http.MethodGet {
					target = "/my"
				}
				http.Redirect(w, r, "/login?next="+url.QueryEscape(target), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
		})
	}
}

type basePage struct {
	Session *session.Session
	Flash   *flash
}

func (h *PageHandler) base(w http.ResponseWriter, r *http.Request) basePage {
	page := basePage{Flash: popFlash(w, r)}
	if sess, ok := sessionFromContext(r.Context()); ok {
		page.Session = &sess
	} else if sess, err := h.sessions.Lookup(r); err == nil {
		page.Session = &sess
	}
	return page
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates[name].Execute(w, data); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
	}
}

type indexPage struct {
	basePage
	Events     []types.Event
	Registered map[int]bool
}

// Index lists all events and flags the ones the current user is registered
// for. The session is optional here.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := indexPage{basePage: h.base(w, r), Registered: map[int]bool{}}

	events, err := h.events.List(r.Context())
	if err != nil {
		slog.Error("storage error", "error", err)
		page.Flash = storageFlash()
		h.render(w, "index.html", page)
		return
	}
	page.Events = events

	if page.Session != nil {
		ids, err := h.regs.RegisteredEventIDs(r.Context(), page.Session.UserID)
		if err != nil {
			slog.Error("storage error", "error", err)
		}
		for _, id := range ids {
			page.Registered[id] = true
		}
	}

	h.render(w, "index.html", page)
}

func (h *PageHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register.html", h.base(w, r))
}

func (h *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	fullName := r.FormValue("full_name")
	email := r.FormValue("email")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm")

	if fullName == "" || email == "" || password == "" {
		setFlash(w, "Please fill in all fields.", flashError)
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}
	if password != confirm {
		setFlash(w, "Passwords do not match.", flashError)
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	if _, err := h.users.Register(r.Context(), fullName, email, password); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			setFlash(w, "Email already registered. Please log in.", flashError)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("storage error", "error", err)
		setFlash(w, "Something went wrong. Please try again.", flashError)
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	setFlash(w, "Registration successful. Please log in.", flashSuccess)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type loginPage struct {
	basePage
	Next string
}

func (h *PageHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", loginPage{
		basePage: h.base(w, r),
		Next:     r.URL.Query().Get("next"),
	})
}

func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	next := r.FormValue("next")

	user, err := h.users.Authenticate(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			setFlash(w, "Incorrect email or password.", flashError)
		} else {
			slog.Error("storage error", "error", err)
			setFlash(w, "Something went wrong. Please try again.", flashError)
		}
		http.Redirect(w, r, "/login?next="+url.QueryEscape(next), http.StatusSeeOther)
		return
	}

	if err := h.sessions.Issue(w, user); err != nil {
		slog.Error("session issue failed", "error", err)
		setFlash(w, "Something went wrong. Please try again.", flashError)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	setFlash(w, fmt.Sprintf("Welcome, %s!", user.FullName), flashSuccess)
	if next == "" || !isLocalPath(next) {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	setFlash(w, "You have been logged out.", flashInfo)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) RegisterEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseEventID(r, "eventID")
	if err != nil {
		setFlash(w, "Event not found.", flashError)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	sess, _ := sessionFromContext(r.Context())
	if err := h.regs.Register(r.Context(), sess.UserID, eventID); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			setFlash(w, "Event not found.", flashError)
		} else {
			slog.Error("storage error", "error", err)
			setFlash(w, "Something went wrong. Please try again.", flashError)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	setFlash(w, "You are registered for the event!", flashSuccess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CancelRegistration always reports success, even when there was no
// registration to cancel. The API surface returns 404 for that case; the
// divergence is inherited behavior, kept as is.
func (h *PageHandler) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseEventID(r, "eventID")
	if err != nil {
		http.Redirect(w, r, "/my", http.StatusSeeOther)
		return
	}

	sess, _ := sessionFromContext(r.Context())
	if err := h.regs.Cancel(r.Context(), sess.UserID, eventID); err != nil && !errors.Is(err, services.ErrRegistrationNotFound) {
		slog.Error("storage error", "error", err)
		setFlash(w, "Something went wrong. Please try again.", flashError)
		http.Redirect(w, r, "/my", http.StatusSeeOther)
		return
	}

	setFlash(w, "Registration cancelled successfully.", flashSuccess)
	http.Redirect(w, r, "/my", http.StatusSeeOther)
}

type updateRegistrationPage struct {
	basePage
	CurrentEventID int
	Events         []types.Event
}

func (h *PageHandler) UpdateRegistrationForm(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseEventID(r, "eventID")
	if err != nil {
		http.Redirect(w, r, "/my", http.StatusSeeOther)
		return
	}

	page := updateRegistrationPage{basePage: h.base(w, r), CurrentEventID: eventID}
	events, err := h.events.ListExcept(r.Context(), eventID)
	if err != nil {
		slog.Error("storage error", "error", err)
		page.Flash = storageFlash()
	}
	page.Events = events

	h.render(w, "update_registration.html", page)
}

func (h *PageHandler) UpdateRegistration(w http.ResponseWriter, r *http.Request) {
	currentEventID, err := parseEventID(r, "eventID")
	if err != nil {
		http.Redirect(w, r, "/my", http.StatusSeeOther)
		return
	}

	newEventID, err := strconv.Atoi(r.FormValue("new_event_id"))
	if err != nil || newEventID < 1 {
		setFlash(w, "Please choose an event to switch to.", flashError)
		http.Redirect(w, r, fmt.Sprintf("/update_registration/%d", currentEventID), http.StatusSeeOther)
		return
	}

	sess, _ := sessionFromContext(r.Context())
	err = h.regs.Switch(r.Context(), sess.UserID, currentEventID, newEventID)
	switch {
	case err == nil, errors.Is(err, services.ErrRegistrationNotFound):
		// The page surface does not distinguish "nothing to update".
		setFlash(w, "Registration updated successfully!", flashSuccess)
		http.Redirect(w, r, "/my", http.StatusSeeOther)
	case errors.Is(err, services.ErrAlreadyRegistered):
		setFlash(w, "You are already registered for the selected event.", flashError)
		http.Redirect(w, r, fmt.Sprintf("/update_registration/%d", currentEventID), http.StatusSeeOther)
	case errors.Is(err, services.ErrEventNotFound):
		setFlash(w, "Event not found.", flashError)
		http.Redirect(w, r, fmt.Sprintf("/update_registration/%d", currentEventID), http.StatusSeeOther)
	default:
		slog.Error("storage error", "error", err)
		setFlash(w, "Something went wrong. Please try again.", flashError)
		http.Redirect(w, r, "/my", http.StatusSeeOther)
	}
}

type dashboardPage struct {
	basePage
	Registrations []types.RegistrationDetail
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	page := dashboardPage{basePage: h.base(w, r)}

	regs, err := h.regs.ListForUser(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("storage error", "error", err)
		page.Flash = storageFlash()
	}
	page.Registrations = regs

	h.render(w, "dashboard.html", page)
}

// isLocalPath guards the post-login redirect against open-redirect targets.
func isLocalPath(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == "" && len(target) > 0 && target[0] == '/'
}
