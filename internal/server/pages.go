package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Tomlord1122/todoapp/internal/auth"
	"github.com/Tomlord1122/todoapp/internal/logger"
	"github.com/Tomlord1122/todoapp/internal/metrics"
	"github.com/Tomlord1122/todoapp/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

const loginPagePath = "/auth/login-page"

func parseTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type pageData struct {
	Title string
	User  *auth.Identity
	Todos []service.TodoResponse
	Todo  *service.TodoResponse
	Error string
}

func (pageData) Priorities() []int { return []int{1, 2, 3, 4, 5} }

// pageHandler renders a page for an already resolved user. Any returned
// error sends the browser back to the login page.
type pageHandler func(w http.ResponseWriter, r *http.Request, user *auth.Identity) error

// page is the single failure boundary around browser pages: a missing or
// invalid cookie, a failed lookup, a template error and a panic all end in
// the same redirect to the login page with the cookie cleared. The cause is
// logged so new failure modes stay visible.
func (s *Server) page(h pageHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fail := func(reason string, err error) {
			metrics.LoginRedirects.WithLabelValues(reason).Inc()
			if !errors.Is(err, auth.ErrUnauthenticated) {
				logger.Warn("page failed, redirecting to login",
					"path", r.URL.Path,
					"request_id", middleware.GetReqID(r.Context()),
					"reason", reason,
					"error", err)
			}
			s.redirectToLogin(w, r)
		}

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				fail("panic", fmt.Errorf("panic: %v", rec))
			}
		}()

		cookie, err := r.Cookie(accessTokenCookie)
		if err != nil {
			fail("unauthenticated", auth.ErrUnauthenticated)
			return
		}
		user, err := s.resolve(r, cookie.Value)
		if err != nil {
			fail("unauthenticated", err)
			return
		}

		if err := h(w, r.WithContext(auth.WithIdentity(r.Context(), user)), user); err != nil {
			fail("error", err)
		}
	}
}

func (s *Server) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	s.clearAccessCookie(w)
	http.Redirect(w, r, loginPagePath, http.StatusFound)
}

// render executes into a buffer first so a template error can still become a redirect.
func (s *Server) render(w http.ResponseWriter, status int, name string, data pageData) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

func (s *Server) todoPage(w http.ResponseWriter, r *http.Request, user *auth.Identity) error {
	todos, err := s.todoService.ListTodos(r.Context(), user.ID)
	if err != nil {
		return err
	}
	logger.Debug("rendering todo page", "user_id", user.ID, "todos", len(todos))
	return s.render(w, http.StatusOK, "todo.html", pageData{Title: "Todos", User: user, Todos: todos})
}

func (s *Server) addTodoPage(w http.ResponseWriter, r *http.Request, user *auth.Identity) error {
	return s.render(w, http.StatusOK, "add-todo.html", pageData{Title: "Add Todo", User: user})
}

// editTodoPage uses the same owner-scoped lookup as the API. A miss, and a
// {todo_id} that is not a positive integer, redirect to login like every
// other page failure rather than answering 422 as the API does.
func (s *Server) editTodoPage(w http.ResponseWriter, r *http.Request, user *auth.Identity) error {
	id, err := todoIDParam(r)
	if err != nil {
		return err
	}
	todo, err := s.todoService.GetTodo(r.Context(), user.ID, id)
	if err != nil {
		return err
	}
	return s.render(w, http.StatusOK, "edit-todo.html", pageData{Title: "Edit Todo", User: user, Todo: todo})
}
