package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Tomlord1122/todoapp/internal/logger"
	"github.com/Tomlord1122/todoapp/internal/service"
)

const msgBadCredentials = "Could not validate user."

func (s *Server) registerAuthRoutes(r chi.Router) {
	r.Get("/login-page", s.loginPageHandler)
	r.Get("/register-page", s.registerPageHandler)
	r.Post("/login", s.loginFormHandler)
	r.Post("/register", s.registerFormHandler)
	r.Get("/logout", s.logoutHandler)

	r.Post("/", s.createUserHandler)
	r.Post("/token", s.tokenHandler)
}

func (s *Server) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	s.renderPublic(w, http.StatusOK, "login.html", pageData{Title: "Login"})
}

func (s *Server) registerPageHandler(w http.ResponseWriter, r *http.Request) {
	s.renderPublic(w, http.StatusOK, "register.html", pageData{Title: "Register"})
}

// renderPublic renders pages that need no identity; a template failure here is a plain 500.
func (s *Server) renderPublic(w http.ResponseWriter, status int, name string, data pageData) {
	if err := s.render(w, status, name, data); err != nil {
		logger.Error("render public page", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (s *Server) loginFormHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPublic(w, http.StatusBadRequest, "login.html", pageData{Title: "Login", Error: "Invalid form submission"})
		return
	}

	tok, err := s.authService.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			logger.Error("login failed", "error", err)
		}
		s.renderPublic(w, http.StatusUnauthorized, "login.html", pageData{Title: "Login", Error: "Incorrect username or password"})
		return
	}

	s.setAccessCookie(w, tok.AccessToken)
	http.Redirect(w, r, "/todos/todo-page", http.StatusFound)
}

func (s *Server) registerFormHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPublic(w, http.StatusBadRequest, "register.html", pageData{Title: "Register", Error: "Invalid form submission"})
		return
	}

	if r.PostForm.Get("password") != r.PostForm.Get("password2") {
		s.renderPublic(w, http.StatusUnprocessableEntity, "register.html", pageData{Title: "Register", Error: "Passwords do not match"})
		return
	}

	_, err := s.authService.Register(r.Context(), service.CreateUserRequest{
		Username:    r.PostForm.Get("username"),
		Email:       r.PostForm.Get("email"),
		FirstName:   r.PostForm.Get("firstname"),
		LastName:    r.PostForm.Get("lastname"),
		Password:    r.PostForm.Get("password"),
		PhoneNumber: r.PostForm.Get("phone_number"),
	})
	switch {
	case err == nil:
		http.Redirect(w, r, loginPagePath, http.StatusFound)
	case errors.Is(err, service.ErrUserExists):
		s.renderPublic(w, http.StatusConflict, "register.html", pageData{Title: "Register", Error: "Username or email already registered"})
	case errors.Is(err, service.ErrValidation):
		s.renderPublic(w, http.StatusUnprocessableEntity, "register.html", pageData{Title: "Register", Error: err.Error()})
	default:
		logger.Error("register failed", "error", err)
		s.renderPublic(w, http.StatusInternalServerError, "register.html", pageData{Title: "Register", Error: "Registration failed"})
	}
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	s.redirectToLogin(w, r)
}

func (s *Server) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	user, err := s.authService.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			respondWithError(w, http.StatusConflict, "Username or email already registered.")
			return
		}
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

// tokenHandler is the OAuth2 password flow: form fields username and password.
func (s *Server) tokenHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "invalid form body")
		return
	}

	tok, err := s.authService.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, msgBadCredentials)
			return
		}
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tok)
}
