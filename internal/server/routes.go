package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tomlord1122/todoapp/internal/auth"
	"github.com/Tomlord1122/todoapp/internal/database"
	"github.com/Tomlord1122/todoapp/internal/logger"
	"github.com/Tomlord1122/todoapp/internal/metrics"
	"github.com/Tomlord1122/todoapp/internal/service"
)

const (
	msgAuthFailed = "Authentication Failed"
	msgNotFound   = "Todo not found."
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// Without configured origins the API is same-origin only; go-chi/cors
	// would treat an empty list as "allow all".
	if len(s.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/todos/todo-page", http.StatusFound)
	})
	r.Get("/health", s.healthHandler)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(database.Middleware(s.db.GetDB()))

		r.Route("/auth", s.registerAuthRoutes)

		r.Route("/todos", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(s.requireIdentity)
				r.Get("/", s.listTodosHandler)
				r.Get("/todo/{todo_id}", s.getTodoHandler)
				r.Post("/todo", s.createTodoHandler)
				r.Put("/todo/{todo_id}", s.updateTodoHandler)
				r.Delete("/todo/{todo_id}", s.deleteTodoHandler)
			})

			r.Get("/todo-page", s.page(s.todoPage))
			r.Get("/add-todo-page", s.page(s.addTodoPage))
			r.Get("/edit-todo-page/{todo_id}", s.page(s.editTodoPage))
		})
	})

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	user := mustIdentity(r)

	todos, err := s.todoService.ListTodos(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) getTodoHandler(w http.ResponseWriter, r *http.Request) {
	user := mustIdentity(r)

	id, err := todoIDParam(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	todo, err := s.todoService.GetTodo(r.Context(), user.ID, id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	user := mustIdentity(r)

	var req service.TodoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if _, err := s.todoService.CreateTodo(r.Context(), user.ID, req); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	user := mustIdentity(r)

	id, err := todoIDParam(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	var req service.TodoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if err := s.todoService.UpdateTodo(r.Context(), user.ID, id, req); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	user := mustIdentity(r)

	id, err := todoIDParam(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if err := s.todoService.DeleteTodo(r.Context(), user.ID, id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// todoIDParam parses {todo_id}; anything that is not a positive integer is a validation error.
func todoIDParam(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "todo_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, validationError("todo_id must be an integer")
	}
	if err := service.ValidateID(id); err != nil {
		return 0, err
	}
	return uint(id), nil
}

func mustIdentity(r *http.Request) *auth.Identity {
	user, ok := auth.FromContext(r.Context())
	if !ok {
		// requireIdentity runs before every API handler.
		panic("server: API handler reached without an identity")
	}
	return user
}

func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, auth.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, msgAuthFailed)
	default:
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
