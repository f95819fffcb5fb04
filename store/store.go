// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/danielhkuo/budget-intake/models"
)

// ErrNotFound is returned when a lookup or conditional mutation matched no row.
var ErrNotFound = errors.New("not found")

// Stage identifies which approver column a budget decision writes.
type Stage int

const (
	StagePreSale Stage = iota
	StageFinancial
)

// Transactor runs fn in a single transaction. Repository calls made with the
// ctx passed to fn join that transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ClientRepository interface {
	// CreateClient inserts c, or returns the existing client when the
	// company name is already taken.
	CreateClient(ctx context.Context, c models.Client) (models.Client, error)
	FindClientByCompanyName(ctx context.Context, companyName string) (models.Client, error)
	FindClientByID(ctx context.Context, id string) (models.Client, error)
	FindAllClients(ctx context.Context) ([]models.Client, error)
	DeleteClientByID(ctx context.Context, id string) error
	CreateClientResponses(ctx context.Context, rows []models.ClientResponse) error
	FindClientResponses(ctx context.Context, budgetRequestIDs []string) ([]models.ClientResponse, error)
}

type BudgetRequestRepository interface {
	CreateBudgetRequest(ctx context.Context, br models.BudgetRequest) (models.BudgetRequest, error)
	FindBudgetRequestByID(ctx context.Context, id string) (models.BudgetRequest, error)
	// FindBudgetRequests lists requests in the given statuses, or all when
	// statuses is empty.
	FindBudgetRequests(ctx context.Context, statuses []string) ([]models.BudgetRequest, error)
	FindBudgetRequestsByClient(ctx context.Context, clientID string) ([]models.BudgetRequest, error)
	// DecideBudgetRequest moves a request from one status to another only if
	// it is still in from. Returns ErrNotFound otherwise.
	DecideBudgetRequest(ctx context.Context, id, from, to string, stage Stage, approverID string) (models.BudgetRequest, error)
}

type QuestionRepository interface {
	CreateQuestion(ctx context.Context, q models.Question) (models.Question, error)
	FindQuestionByID(ctx context.Context, id string) (models.Question, error)
	FindAllQuestions(ctx context.Context) ([]models.Question, error)
	DeleteQuestionByID(ctx context.Context, id string) error
}

type AlternativeRepository interface {
	CreateAlternative(ctx context.Context, a models.Alternative) (models.Alternative, error)
	CreateAlternativesTeams(ctx context.Context, rows []models.AlternativeTeam) error
	ReplaceAlternativesTeams(ctx context.Context, alternativeID string, rows []models.AlternativeTeam) error
	FindAlternativeByID(ctx context.Context, id string) (models.Alternative, error)
	FindAlternativesByQuestions(ctx context.Context, questionIDs []string) ([]models.Alternative, error)
	FindAlternativesTeams(ctx context.Context, alternativeIDs []string) ([]models.AlternativeTeam, error)
	UpdateAlternativeByID(ctx context.Context, id string, description *string) (models.Alternative, error)
	DeleteAlternativeByID(ctx context.Context, id string) error
}

type TeamRepository interface {
	CreateTeam(ctx context.Context, t models.Team) (models.Team, error)
	FindTeamByID(ctx context.Context, id string) (models.Team, error)
	FindAllTeams(ctx context.Context) ([]models.Team, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
}

type ProjectRepository interface {
	CreateProject(ctx context.Context, p models.Project) (models.Project, error)
	FindProjectByID(ctx context.Context, id string) (models.Project, error)
	FindAllProjects(ctx context.Context) ([]models.Project, error)
}

type OvertimeRepository interface {
	CreateOvertimeRequest(ctx context.Context, o models.OvertimeRequest) (models.OvertimeRequest, error)
	FindOvertimeRequestByID(ctx context.Context, id string) (models.OvertimeRequest, error)
	// FindOvertimeRequests lists one user's requests, or all when userID is empty.
	FindOvertimeRequests(ctx context.Context, userID string) ([]models.OvertimeRequest, error)
	// DecideOvertimeRequest only updates a pending request.
	DecideOvertimeRequest(ctx context.Context, id, status, deciderID string, decidedAt time.Time) (models.OvertimeRequest, error)
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error)
	FindNotifications(ctx context.Context, userID string, role models.Role, limit int) ([]models.Notification, error)
}

// Store is the full set of repositories a backend provides.
type Store interface {
	Transactor
	ClientRepository
	BudgetRequestRepository
	QuestionRepository
	AlternativeRepository
	TeamRepository
	UserRepository
	ProjectRepository
	OvertimeRepository
	NotificationRepository
}
