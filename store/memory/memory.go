// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package memory is an in-memory implementation of the repository
// interfaces. It enforces the same keys and references as the Postgres
// schema and is intended for tests and local development.
package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/danielhkuo/budget-intake/apperr"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/store"
)

type data struct {
	users         []models.User
	clients       []models.Client
	questions     []models.Question
	teams         []models.Team
	alternatives  []models.Alternative
	altTeams      []models.AlternativeTeam
	budgets       []models.BudgetRequest
	responses     []models.ClientResponse
	projects      []models.Project
	overtime      []models.OvertimeRequest
	notifications []models.Notification
}

func (d *data) clone() data {
	return data{
		users:         slices.Clone(d.users),
		clients:       slices.Clone(d.clients),
		questions:     slices.Clone(d.questions),
		teams:         slices.Clone(d.teams),
		alternatives:  slices.Clone(d.alternatives),
		altTeams:      slices.Clone(d.altTeams),
		budgets:       slices.Clone(d.budgets),
		responses:     slices.Clone(d.responses),
		projects:      slices.Clone(d.projects),
		overtime:      slices.Clone(d.overtime),
		notifications: slices.Clone(d.notifications),
	}
}

// Store is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	d        data
	failures map[string]error
}

var (
	_ store.Store                   = (*Store)(nil)
	_ store.Transactor              = (*Store)(nil)
	_ store.ClientRepository        = (*Store)(nil)
	_ store.BudgetRequestRepository = (*Store)(nil)
	_ store.QuestionRepository      = (*Store)(nil)
	_ store.AlternativeRepository   = (*Store)(nil)
	_ store.TeamRepository          = (*Store)(nil)
	_ store.UserRepository          = (*Store)(nil)
	_ store.ProjectRepository       = (*Store)(nil)
	_ store.OvertimeRepository      = (*Store)(nil)
	_ store.NotificationRepository  = (*Store)(nil)
)

// New creates an empty store.
func New() *Store {
	return &Store{failures: make(map[string]error)}
}

// FailOn makes the next call to the named method return err.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = err
}

// failLocked consumes an injected failure for method.
func (s *Store) failLocked(method string) error {
	if err, ok := s.failures[method]; ok {
		delete(s.failures, method)
		return err
	}
	return nil
}

// InTx restores the state from before fn if fn fails. Writes by other
// goroutines during fn are lost on rollback.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	snapshot := s.d.clone()
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	for _, it := range items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func newest[T any](items []T) []T {
	out := slices.Clone(items)
	slices.Reverse(out)
	return out
}

func violation(msg string) error {
	return apperr.Validation("%s", msg)
}

// --- Clients ----------------------------------------------------------------

func (s *Store) CreateClient(_ context.Context, c models.Client) (models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("CreateClient"); err != nil {
		return models.Client{}, err
	}

	if existing, ok := find(s.d.clients, func(x models.Client) bool { return x.CompanyName == c.CompanyName }); ok {
		return existing, nil
	}
	s.d.clients = append(s.d.clients, c)
	return c, nil
}

func (s *Store) FindClientByCompanyName(_ context.Context, companyName string) (models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := find(s.d.clients, func(x models.Client) bool { return x.CompanyName == companyName }); ok {
		return c, nil
	}
	return models.Client{}, store.ErrNotFound
}

func (s *Store) FindClientByID(_ context.Context, id string) (models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := find(s.d.clients, func(x models.Client) bool { return x.ID == id }); ok {
		return c, nil
	}
	return models.Client{}, store.ErrNotFound
}

func (s *Store) FindAllClients(_ context.Context) ([]models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.d.clients), nil
}

func (s *Store) DeleteClientByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.d.clients)
	s.d.clients = filter(s.d.clients, func(x models.Client) bool { return x.ID != id })
	if len(s.d.clients) == n {
		return store.ErrNotFound
	}
	s.d.budgets = filter(s.d.budgets, func(x models.BudgetRequest) bool { return x.ClientID != id })
	s.d.responses = filter(s.d.responses, func(x models.ClientResponse) bool { return x.ClientID != id })
	return nil
}

func (s *Store) CreateClientResponses(_ context.Context, rows []models.ClientResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("CreateClientResponses"); err != nil {
		return err
	}

	for _, r := range rows {
		if _, ok := find(s.d.budgets, func(x models.BudgetRequest) bool { return x.ID == r.BudgetRequestID }); !ok {
			return violation("budget request id is incorrect")
		}
		if _, ok := find(s.d.clients, func(x models.Client) bool { return x.ID == r.ClientID }); !ok {
			return violation("client id is incorrect")
		}
		if _, ok := find(s.d.questions, func(x models.Question) bool { return x.ID == r.QuestionID }); !ok {
			return violation("question id is incorrect")
		}
		if r.AlternativeID != nil {
			if _, ok := find(s.d.alternatives, func(x models.Alternative) bool { return x.ID == *r.AlternativeID }); !ok {
				return violation("alternative id is incorrect")
			}
		}
		if (r.AlternativeID == nil) == (r.ResponseDetails == nil) {
			return apperr.Storage("failed to insert client responses", errors.New("check constraint violated"))
		}
	}
	s.d.responses = append(s.d.responses, rows...)
	return nil
}

func (s *Store) FindClientResponses(_ context.Context, budgetRequestIDs []string) ([]models.ClientResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(s.d.responses, func(x models.ClientResponse) bool {
		return slices.Contains(budgetRequestIDs, x.BudgetRequestID)
	}), nil
}

// --- Budget requests --------------------------------------------------------

func (s *Store) CreateBudgetRequest(_ context.Context, br models.BudgetRequest) (models.BudgetRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("CreateBudgetRequest"); err != nil {
		return models.BudgetRequest{}, err
	}

	if _, ok := find(s.d.clients, func(x models.Client) bool { return x.ID == br.ClientID }); !ok {
		return models.BudgetRequest{}, violation("client id is incorrect")
	}
	s.d.budgets = append(s.d.budgets, br)
	return br, nil
}

func (s *Store) FindBudgetRequestByID(_ context.Context, id string) (models.BudgetRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if br, ok := find(s.d.budgets, func(x models.BudgetRequest) bool { return x.ID == id }); ok {
		return br, nil
	}
	return models.BudgetRequest{}, store.ErrNotFound
}

func (s *Store) FindBudgetRequests(_ context.Context, statuses []string) ([]models.BudgetRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newest(filter(s.d.budgets, func(x models.BudgetRequest) bool {
		return len(statuses) == 0 || slices.Contains(statuses, x.Status)
	})), nil
}

func (s *Store) FindBudgetRequestsByClient(_ context.Context, clientID string) ([]models.BudgetRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newest(filter(s.d.budgets, func(x models.BudgetRequest) bool { return x.ClientID == clientID })), nil
}

func (s *Store) DecideBudgetRequest(_ context.Context, id, from, to string, stage store.Stage, approverID string) (models.BudgetRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, br := range s.d.budgets {
		if br.ID != id || br.Status != from {
			continue
		}
		br.Status = to
		if stage == store.StageFinancial {
			br.FinancialApproverID = &approverID
		} else {
			br.PreSaleApproverID = &approverID
		}
		br.UpdatedAt = time.Now().UTC()
		s.d.budgets[i] = br
		return br, nil
	}
	return models.BudgetRequest{}, store.ErrNotFound
}

// --- Questions, alternatives, teams -----------------------------------------

func (s *Store) CreateQuestion(_ context.Context, q models.Question) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.questions = append(s.d.questions, q)
	return q, nil
}

func (s *Store) FindQuestionByID(_ context.Context, id string) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q, ok := find(s.d.questions, func(x models.Question) bool { return x.ID == id }); ok {
		return q, nil
	}
	return models.Question{}, store.ErrNotFound
}

func (s *Store) FindAllQuestions(_ context.Context) ([]models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.d.questions), nil
}

func (s *Store) DeleteQuestionByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.d.questions)
	s.d.questions = filter(s.d.questions, func(x models.Question) bool { return x.ID != id })
	if len(s.d.questions) == n {
		return store.ErrNotFound
	}
	for _, a := range s.d.alternatives {
		if a.QuestionID == id {
			s.deleteAlternativeLocked(a.ID)
		}
	}
	s.d.responses = filter(s.d.responses, func(x models.ClientResponse) bool { return x.QuestionID != id })
	return nil
}

func (s *Store) CreateAlternative(_ context.Context, a models.Alternative) (models.Alternative, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("CreateAlternative"); err != nil {
		return models.Alternative{}, err
	}

	if _, ok := find(s.d.questions, func(x models.Question) bool { return x.ID == a.QuestionID }); !ok {
		return models.Alternative{}, violation("question id is incorrect")
	}
	s.d.alternatives = append(s.d.alternatives, a)
	return a, nil
}

func (s *Store) CreateAlternativesTeams(_ context.Context, rows []models.AlternativeTeam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("CreateAlternativesTeams"); err != nil {
		return err
	}
	return s.insertAltTeamsLocked(rows)
}

func (s *Store) insertAltTeamsLocked(rows []models.AlternativeTeam) error {
	for _, r := range rows {
		if _, ok := find(s.d.alternatives, func(x models.Alternative) bool { return x.ID == r.AlternativeID }); !ok {
			return violation("alternative id is incorrect")
		}
		if _, ok := find(s.d.teams, func(x models.Team) bool { return x.ID == r.TeamID }); !ok {
			return violation("team id is incorrect")
		}
	}
	s.d.altTeams = append(s.d.altTeams, rows...)
	return nil
}

func (s *Store) ReplaceAlternativesTeams(_ context.Context, alternativeID string, rows []models.AlternativeTeam) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.d.altTeams = filter(s.d.altTeams, func(x models.AlternativeTeam) bool { return x.AlternativeID != alternativeID })
	return s.insertAltTeamsLocked(rows)
}

func (s *Store) FindAlternativeByID(_ context.Context, id string) (models.Alternative, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := find(s.d.alternatives, func(x models.Alternative) bool { return x.ID == id }); ok {
		return a, nil
	}
	return models.Alternative{}, store.ErrNotFound
}

func (s *Store) FindAlternativesByQuestions(_ context.Context, questionIDs []string) ([]models.Alternative, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(s.d.alternatives, func(x models.Alternative) bool {
		return slices.Contains(questionIDs, x.QuestionID)
	}), nil
}

func (s *Store) FindAlternativesTeams(_ context.Context, alternativeIDs []string) ([]models.AlternativeTeam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(s.d.altTeams, func(x models.AlternativeTeam) bool {
		return slices.Contains(alternativeIDs, x.AlternativeID)
	}), nil
}

func (s *Store) UpdateAlternativeByID(_ context.Context, id string, description *string) (models.Alternative, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.d.alternatives {
		if a.ID != id {
			continue
		}
		if description != nil {
			a.Description = *description
		}
		s.d.alternatives[i] = a
		return a, nil
	}
	return models.Alternative{}, store.ErrNotFound
}

func (s *Store) DeleteAlternativeByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := find(s.d.alternatives, func(x models.Alternative) bool { return x.ID == id }); !ok {
		return store.ErrNotFound
	}
	s.deleteAlternativeLocked(id)
	return nil
}

func (s *Store) deleteAlternativeLocked(id string) {
	s.d.alternatives = filter(s.d.alternatives, func(x models.Alternative) bool { return x.ID != id })
	s.d.altTeams = filter(s.d.altTeams, func(x models.AlternativeTeam) bool { return x.AlternativeID != id })
	s.d.responses = filter(s.d.responses, func(x models.ClientResponse) bool {
		return x.AlternativeID == nil || *x.AlternativeID != id
	})
}

func (s *Store) CreateTeam(_ context.Context, t models.Team) (models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.teams = append(s.d.teams, t)
	return t, nil
}

func (s *Store) FindTeamByID(_ context.Context, id string) (models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := find(s.d.teams, func(x models.Team) bool { return x.ID == id }); ok {
		return t, nil
	}
	return models.Team{}, store.ErrNotFound
}

func (s *Store) FindAllTeams(_ context.Context) ([]models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.d.teams), nil
}

// --- Users, projects, overtime, notifications -------------------------------

func (s *Store) CreateUser(_ context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := find(s.d.users, func(x models.User) bool { return x.Email == u.Email }); ok {
		return models.User{}, violation("email already registered")
	}
	s.d.users = append(s.d.users, u)
	return u, nil
}

func (s *Store) FindUserByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := find(s.d.users, func(x models.User) bool { return x.ID == id }); ok {
		return u, nil
	}
	return models.User{}, store.ErrNotFound
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := find(s.d.users, func(x models.User) bool { return x.Email == email }); ok {
		return u, nil
	}
	return models.User{}, store.ErrNotFound
}

func (s *Store) CreateProject(_ context.Context, p models.Project) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.projects = append(s.d.projects, p)
	return p, nil
}

func (s *Store) FindProjectByID(_ context.Context, id string) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := find(s.d.projects, func(x models.Project) bool { return x.ID == id }); ok {
		return p, nil
	}
	return models.Project{}, store.ErrNotFound
}

func (s *Store) FindAllProjects(_ context.Context) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.d.projects), nil
}

func (s *Store) CreateOvertimeRequest(_ context.Context, o models.OvertimeRequest) (models.OvertimeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := find(s.d.projects, func(x models.Project) bool { return x.ID == o.ProjectID }); !ok {
		return models.OvertimeRequest{}, violation("project id is incorrect")
	}
	if _, ok := find(s.d.users, func(x models.User) bool { return x.ID == o.UserID }); !ok {
		return models.OvertimeRequest{}, violation("user id is incorrect")
	}
	s.d.overtime = append(s.d.overtime, o)
	return o, nil
}

func (s *Store) FindOvertimeRequestByID(_ context.Context, id string) (models.OvertimeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o, ok := find(s.d.overtime, func(x models.OvertimeRequest) bool { return x.ID == id }); ok {
		return o, nil
	}
	return models.OvertimeRequest{}, store.ErrNotFound
}

func (s *Store) FindOvertimeRequests(_ context.Context, userID string) ([]models.OvertimeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newest(filter(s.d.overtime, func(x models.OvertimeRequest) bool {
		return userID == "" || x.UserID == userID
	})), nil
}

func (s *Store) DecideOvertimeRequest(_ context.Context, id, status, deciderID string, decidedAt time.Time) (models.OvertimeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.d.overtime {
		if o.ID != id || o.Status != models.OvertimeStatusPending {
			continue
		}
		o.Status = status
		o.DeciderID = &deciderID
		o.DecidedAt = &decidedAt
		s.d.overtime[i] = o
		return o, nil
	}
	return models.OvertimeRequest{}, store.ErrNotFound
}

func (s *Store) CreateNotification(_ context.Context, n models.Notification) (models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocked("CreateNotification"); err != nil {
		return models.Notification{}, err
	}
	s.d.notifications = append(s.d.notifications, n)
	return n, nil
}

func (s *Store) FindNotifications(_ context.Context, userID string, role models.Role, limit int) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := newest(filter(s.d.notifications, func(x models.Notification) bool {
		return (x.RecipientID != nil && *x.RecipientID == userID) || (x.Audience != "" && x.Audience == role)
	}))
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
