// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/danielhkuo/budget-intake/auth"
	"github.com/danielhkuo/budget-intake/cliparse"
	"github.com/danielhkuo/budget-intake/handlers"
	"github.com/danielhkuo/budget-intake/metrics"
	"github.com/danielhkuo/budget-intake/middleware"
	"github.com/danielhkuo/budget-intake/notify"
	"github.com/danielhkuo/budget-intake/service"
)

// Banner is served on GET /
const Banner = "budget-intake API v1"

func NewRouter(svc *service.Services, hub *notify.Hub, cfg cliparse.Config, policy auth.Policy, limiter *middleware.RateLimiter) http.Handler {
	r := mux.NewRouter()
	r.Use(metrics.InstrumentHandler)

	guard := middleware.NewGuard([]byte(cfg.JWTSecret), policy)

	// Initialize handlers
	clientHandler := handlers.NewClientHandler(svc.Clients)
	budgetHandler := handlers.NewBudgetRequestHandler(svc.BudgetRequests)
	questionHandler := handlers.NewQuestionHandler(svc.Questions)
	teamHandler := handlers.NewTeamHandler(svc.Teams)
	alternativeHandler := handlers.NewAlternativeHandler(svc.Alternatives)
	userHandler := handlers.NewUserHandler(svc.Users, cfg)
	projectHandler := handlers.NewProjectHandler(svc.Projects)
	overtimeHandler := handlers.NewOvertimeHandler(svc.Overtime)
	notificationHandler := handlers.NewNotificationHandler(hub)

	public := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(limiter.Limit(h))
	}
	protected := func(route string, h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(guard.RequireRoles(route, h))
	}

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// Authentication
	r.HandleFunc("/auth/login", public(userHandler.Login)).Methods(http.MethodPost)
	r.HandleFunc("/users", protected(auth.RouteCreateUser, userHandler.Create)).Methods(http.MethodPost)
	r.HandleFunc("/users/me", protected(auth.RouteMe, userHandler.Me)).Methods(http.MethodGet)

	// Client intake (public)
	r.HandleFunc("/clients", public(clientHandler.Create)).Methods(http.MethodPost)
	r.HandleFunc("/clients/responses", public(clientHandler.SubmitResponses)).Methods(http.MethodPost)
	r.HandleFunc("/questions", middleware.WithLogging(questionHandler.List)).Methods(http.MethodGet)
	r.HandleFunc("/questions/{id}", middleware.WithLogging(questionHandler.Get)).Methods(http.MethodGet)

	// Client review
	r.HandleFunc("/clients", protected(auth.RouteListClients, clientHandler.List)).Methods(http.MethodGet)
	r.HandleFunc("/clients/{id}", protected(auth.RouteGetClient, clientHandler.Get)).Methods(http.MethodGet)
	r.HandleFunc("/clients/{id}", protected(auth.RouteDeleteClient, clientHandler.Delete)).Methods(http.MethodDelete)

	// Budget requests
	r.HandleFunc("/budget-request", public(budgetHandler.Create)).Methods(http.MethodPost)
	r.HandleFunc("/budget-request/approved", protected(auth.RouteApproveBudgetRequest, budgetHandler.Approve)).Methods(http.MethodPost)
	r.HandleFunc("/budget-request", protected(auth.RouteListBudgetRequests, budgetHandler.List)).Methods(http.MethodGet)
	r.HandleFunc("/budget-request/{id}", protected(auth.RouteGetBudgetRequest, budgetHandler.Get)).Methods(http.MethodGet)

	// Questionnaire management
	r.HandleFunc("/questions", protected(auth.RouteCreateQuestion, questionHandler.Create)).Methods(http.MethodPost)
	r.HandleFunc("/questions/{id}", protected(auth.RouteDeleteQuestion, questionHandler.Delete)).Methods(http.MethodDelete)
	r.HandleFunc("/teams", protected(auth.RouteCreateTeam, teamHandler.Create)).Methods(http.MethodPost)
	r.HandleFunc("/teams", protected(auth.RouteListTeams, teamHandler.List)).Methods(http.MethodGet)
	r.HandleFunc("/alternatives", protected(auth.RouteCreateAlternative, alternativeHandler.Create)).Methods(http.MethodPost)
	r.HandleFunc("/alternatives/{id}", protected(auth.RouteGetAlternative, alternativeHandler.Get)).Methods(http.MethodGet)
	r.HandleFunc("/alternatives/{id}", protected(auth.RouteUpdateAlternative, alternativeHandler.Update)).Methods(http.MethodPatch)
	r.HandleFunc("/alternatives/{id}", protected(auth.RouteDeleteAlternative, alternativeHandler.Delete)).Methods(http.MethodDelete)

	// Projects and overtime
	r.HandleFunc("/projects", protected(auth.RouteCreateProject, projectHandler.Create)).Methods(http.MethodPost)
	r.HandleFunc("/projects", protected(auth.RouteListProjects, projectHandler.List)).Methods(http.MethodGet)
	r.HandleFunc("/overtime-requests", protected(auth.RouteCreateOvertime, overtimeHandler.Create)).Methods(http.MethodPost)
	r.HandleFunc("/overtime-requests", protected(auth.RouteListOvertime, overtimeHandler.List)).Methods(http.MethodGet)
	r.HandleFunc("/overtime-requests/{id}/decision", protected(auth.RouteDecideOvertime, overtimeHandler.Decide)).Methods(http.MethodPost)

	// Notifications
	r.HandleFunc("/notifications", protected(auth.RouteNotifications, notificationHandler.List)).Methods(http.MethodGet)
	r.HandleFunc("/notifications/ws", protected(auth.RouteNotifications, notificationHandler.Stream)).Methods(http.MethodGet)

	// Root endpoint
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(Banner))
	}).Methods(http.MethodGet)

	return middleware.CORS(cfg.CORSOrigins)(r)
}
