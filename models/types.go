package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is a user's capability set.
type Role string

const (
	RoleAdmin                Role = "admin"
	RolePreSale              Role = "pre-sale"
	RoleFinancial            Role = "financial"
	RoleManager              Role = "manager"
	RoleProfessionalServices Role = "professional-services"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePreSale, RoleFinancial, RoleManager, RoleProfessionalServices:
		return true
	}
	return false
}

// Budget request status constants
const (
	BudgetStatusPending         = "pending"
	BudgetStatusPreSaleApproved = "pre_sale_approved"
	BudgetStatusApproved        = "approved"
	BudgetStatusRejected        = "rejected"
)

// Overtime request status constants
const (
	OvertimeStatusPending  = "pending"
	OvertimeStatusApproved = "approved"
	OvertimeStatusRejected = "rejected"
)

// Request types

type CreateClientRequest struct {
	Name                  string  `json:"name"`
	CompanyName           string  `json:"company_name"`
	Email                 string  `json:"email"`
	Phone                 string  `json:"phone"`
	TechnicalContactPhone *string `json:"technical_contact_phone,omitempty"`
}

// ClientResponseInput is one answered question. Exactly one of
// AlternativeID or ResponseDetails must be set.
type ClientResponseInput struct {
	QuestionID      string `json:"question_id"`
	AlternativeID   string `json:"alternative_id,omitempty"`
	ResponseDetails string `json:"response_details,omitempty"`
	ClientID        string `json:"client_id,omitempty"`
}

type ClientResponsesRequest struct {
	ClientID  string                `json:"client_id"`
	Responses []ClientResponseInput `json:"responses"`
}

type CreateBudgetRequestRequest struct {
	ClientID string `json:"client_id"`
}

type ApproveBudgetRequestRequest struct {
	BudgetRequestID string `json:"budget_request_id"`
	Approved        bool   `json:"approved"`
}

type TeamHours struct {
	TeamID    string          `json:"team_id"`
	WorkHours decimal.Decimal `json:"work_hours"`
}

type CreateAlternativeRequest struct {
	Description string      `json:"description"`
	QuestionID  string      `json:"question_id"`
	Teams       []TeamHours `json:"teams"`
}

// UpdateAlternativeRequest leaves a field untouched when it is nil.
type UpdateAlternativeRequest struct {
	Description *string     `json:"description,omitempty"`
	Teams       []TeamHours `json:"teams,omitempty"`
}

type CreateQuestionRequest struct {
	Prompt string `json:"prompt"`
}

type CreateTeamRequest struct {
	Name string `json:"name"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateOvertimeRequest carries the work date as YYYY-MM-DD.
type CreateOvertimeRequest struct {
	ProjectID string          `json:"project_id"`
	Date      string          `json:"date"`
	Hours     decimal.Decimal `json:"hours"`
	Reason    string          `json:"reason"`
}

type DecideOvertimeRequest struct {
	Approved bool `json:"approved"`
}

// Response types

type CreateClientResponse struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
}

type ClientResponsesResult struct {
	BudgetRequestID string `json:"budget_request_id"`
	ResponseCount   int    `json:"response_count"`
}

type AlternativeResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	QuestionID  string `json:"question_id"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// Domain types

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
}

type Client struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	CompanyName           string    `json:"company_name"`
	Email                 string    `json:"email"`
	Phone                 string    `json:"phone"`
	TechnicalContactPhone *string   `json:"technical_contact_phone,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

type ClientWithBudgetRequests struct {
	Client
	BudgetRequests []BudgetRequestDetail `json:"budget_requests"`
}

type Question struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"created_at"`
}

type QuestionWithAlternatives struct {
	Question
	Alternatives []AlternativeDetail `json:"alternatives"`
}

type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Alternative struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	QuestionID  string    `json:"question_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type AlternativeTeam struct {
	AlternativeID string          `json:"alternative_id"`
	TeamID        string          `json:"team_id"`
	WorkHours     decimal.Decimal `json:"work_hours"`
}

type AlternativeDetail struct {
	Alternative
	Teams []AlternativeTeam `json:"teams"`
}

type BudgetRequest struct {
	ID                  string    `json:"id"`
	ClientID            string    `json:"client_id"`
	Status              string    `json:"status"`
	PreSaleApproverID   *string   `json:"pre_sale_approver_id,omitempty"`
	FinancialApproverID *string   `json:"financial_approver_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ClientResponse is a persisted response row.
type ClientResponse struct {
	ID              string    `json:"id"`
	BudgetRequestID string    `json:"budget_request_id"`
	ClientID        string    `json:"client_id"`
	QuestionID      string    `json:"question_id"`
	AlternativeID   *string   `json:"alternative_id,omitempty"`
	ResponseDetails *string   `json:"response_details,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// BudgetRequestDetail exposes the response rows as form responses.
type BudgetRequestDetail struct {
	BudgetRequest
	Client        *Client          `json:"client,omitempty"`
	FormResponses []ClientResponse `json:"form_responses"`
}

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type OvertimeRequest struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"project_id"`
	UserID    string          `json:"user_id"`
	Date      time.Time       `json:"date"`
	Hours     decimal.Decimal `json:"hours"`
	Reason    string          `json:"reason"`
	Status    string          `json:"status"`
	DeciderID *string         `json:"decider_id,omitempty"`
	DecidedAt *time.Time      `json:"decided_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Notification is addressed to a role audience, a single user, or both.
type Notification struct {
	ID          string    `json:"id"`
	Audience    Role      `json:"audience,omitempty"`
	RecipientID *string   `json:"recipient_id,omitempty"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
