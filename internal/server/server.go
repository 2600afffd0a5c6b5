package server

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/Tomlord1122/todoapp/internal/auth"
	"github.com/Tomlord1122/todoapp/internal/config"
	"github.com/Tomlord1122/todoapp/internal/database"
	"github.com/Tomlord1122/todoapp/internal/service"
)

// Dependencies are the collaborators the HTTP layer is wired to.
type Dependencies struct {
	TodoService service.TodoService
	AuthService service.AuthService
	Resolver    auth.Resolver
	DB          database.Service
}

type Server struct {
	port           int
	todoService    service.TodoService
	authService    service.AuthService
	resolver       auth.Resolver
	db             database.Service
	templates      *template.Template
	cookieSecure   bool
	tokenTTL       time.Duration
	allowedOrigins []string
}

func NewServer(cfg *config.Config, deps Dependencies) *http.Server {
	appServer := &Server{
		port:           cfg.Port,
		todoService:    deps.TodoService,
		authService:    deps.AuthService,
		resolver:       deps.Resolver,
		db:             deps.DB,
		templates:      parseTemplates(),
		cookieSecure:   cfg.CookieSecure,
		tokenTTL:       cfg.TokenTTL,
		allowedOrigins: cfg.AllowedOrigins,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
