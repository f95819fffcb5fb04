// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateClientRequest: name, company_name, email, phone, technical_contact_phone
  - ClientResponsesRequest: client_id, responses (question_id plus alternative_id or response_details)
  - CreateBudgetRequestRequest: client_id
  - ApproveBudgetRequestRequest: budget_request_id, approved
  - CreateAlternativeRequest: description, question_id, teams (team_id, work_hours)
  - UpdateAlternativeRequest: description, teams
  - CreateQuestionRequest, CreateTeamRequest, CreateProjectRequest
  - CreateUserRequest, LoginRequest
  - CreateOvertimeRequest, DecideOvertimeRequest

# Response Types

  - CreateClientResponse: id, company_name
  - ClientResponsesResult: budget_request_id, response_count
  - AlternativeResponse: id, description, question_id
  - LoginResponse: token, expires_at, user
  - ErrorResponse: error, message

# Domain Types

  - Client, ClientWithBudgetRequests
  - Question, QuestionWithAlternatives
  - Alternative, AlternativeTeam, AlternativeDetail
  - Team, User, Project
  - BudgetRequest, BudgetRequestDetail, ClientResponse
  - OvertimeRequest, Notification

Work hours use decimal.Decimal so fractional allocations survive the
round trip through NUMERIC columns and JSON.

Persisted response rows are exposed on BudgetRequestDetail as
form_responses.

# Constants

Roles:

	RoleAdmin                = "admin"
	RolePreSale              = "pre-sale"
	RoleFinancial            = "financial"
	RoleManager              = "manager"
	RoleProfessionalServices = "professional-services"

Budget request status:

	BudgetStatusPending         = "pending"
	BudgetStatusPreSaleApproved = "pre_sale_approved"
	BudgetStatusApproved        = "approved"
	BudgetStatusRejected        = "rejected"

Overtime status:

	OvertimeStatusPending  = "pending"
	OvertimeStatusApproved = "approved"
	OvertimeStatusRejected = "rejected"
*/
package models
