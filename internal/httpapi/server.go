// Package httpapi exposes the planner services as a JSON REST API.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"taskplanner/internal/service"
)

// Server routes REST requests to the services.
type Server struct {
	auth       *service.AuthService
	categories *service.CategoryService
	tasks      *service.TaskService
	loc        *time.Location
	now        func() time.Time
	router     chi.Router
}

// New builds the API. loc is the zone used for today's view and for due
// dates sent without an offset.
func New(auth *service.AuthService, categories *service.CategoryService, tasks *service.TaskService, loc *time.Location) *Server {
	if loc == nil {
		loc = time.Local
	}
	s := &Server{
		auth:       auth,
		categories: categories,
		tasks:      tasks,
		loc:        loc,
		now:        time.Now,
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID, logRequests, recoverPanics)

	r.Post("/signup", s.handleSignup)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/users/current", s.handleCurrentUser)
		r.Patch("/users/{id}", s.handleUpdateUser)
		r.Delete("/users/{id}", s.handleDeleteUser)
		r.Patch("/users/{id}/update_password", s.handleUpdatePassword)

		r.Get("/today", s.handleToday)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handleListTasks)
			r.Post("/", s.handleCreateTask)
			r.Get("/{id}", s.handleGetTask)
			r.Patch("/{id}", s.handleUpdateTask)
			r.Delete("/{id}", s.handleDeleteTask)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handleListCategories)
			r.Post("/", s.handleCreateCategory)
			r.Get("/{id}", s.handleGetCategory)
			r.Patch("/{id}", s.handleUpdateCategory)
			r.Delete("/{id}", s.handleDeleteCategory)
			r.Get("/{id}/tasks", s.handleListCategoryTasks)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
	return r
}
