// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/budget-intake/models"
)

// Route names for the protected endpoints
const (
	RouteApproveBudgetRequest = "budget-request.approve"
	RouteListBudgetRequests   = "budget-request.list"
	RouteGetBudgetRequest     = "budget-request.get"
	RouteListClients          = "clients.list"
	RouteGetClient            = "clients.get"
	RouteDeleteClient         = "clients.delete"
	RouteCreateQuestion       = "questions.create"
	RouteDeleteQuestion       = "questions.delete"
	RouteCreateTeam           = "teams.create"
	RouteListTeams            = "teams.list"
	RouteCreateAlternative    = "alternatives.create"
	RouteGetAlternative       = "alternatives.get"
	RouteUpdateAlternative    = "alternatives.update"
	RouteDeleteAlternative    = "alternatives.delete"
	RouteCreateUser           = "users.create"
	RouteMe                   = "users.me"
	RouteCreateProject        = "projects.create"
	RouteListProjects         = "projects.list"
	RouteCreateOvertime       = "overtime.create"
	RouteListOvertime         = "overtime.list"
	RouteDecideOvertime       = "overtime.decide"
	RouteNotifications        = "notifications.list"
)

var allRoles = []models.Role{
	models.RoleAdmin,
	models.RolePreSale,
	models.RoleFinancial,
	models.RoleManager,
	models.RoleProfessionalServices,
}

// Policy maps a route name to the roles allowed to call it. Routes missing
// from the policy are denied.
type Policy map[string][]models.Role

// DefaultPolicy returns the built-in access rules.
func DefaultPolicy() Policy {
	reviewers := []models.Role{models.RolePreSale, models.RoleFinancial, models.RoleAdmin}
	admin := []models.Role{models.RoleAdmin}

	return Policy{
		RouteApproveBudgetRequest: {models.RolePreSale, models.RoleFinancial},
		RouteListBudgetRequests:   reviewers,
		RouteGetBudgetRequest:     reviewers,
		RouteListClients:          reviewers,
		RouteGetClient:            reviewers,
		RouteDeleteClient:         admin,
		RouteCreateQuestion:       admin,
		RouteDeleteQuestion:       admin,
		RouteCreateTeam:           admin,
		RouteListTeams:            allRoles,
		RouteCreateAlternative:    admin,
		RouteGetAlternative:       reviewers,
		RouteUpdateAlternative:    admin,
		RouteDeleteAlternative:    admin,
		RouteCreateUser:           admin,
		RouteMe:                   allRoles,
		RouteCreateProject:        {models.RoleAdmin, models.RoleManager},
		RouteListProjects:         allRoles,
		RouteCreateOvertime:       {models.RoleProfessionalServices, models.RoleManager},
		RouteListOvertime:         {models.RoleProfessionalServices, models.RoleManager, models.RoleAdmin},
		RouteDecideOvertime:       {models.RoleManager, models.RoleAdmin},
		RouteNotifications:        allRoles,
	}
}

// Allows reports whether role may call route.
func (p Policy) Allows(route string, role models.Role) bool {
	return slices.Contains(p[route], role)
}

type policyFile struct {
	Routes map[string][]models.Role `yaml:"routes"`
}

// LoadPolicy reads route overrides from a YAML file and applies them on top
// of DefaultPolicy:
//
//	routes:
//	  clients.list: [admin]
//	  overtime.decide: [manager]
func LoadPolicy(path string) (Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read access policy: %w", err)
	}
	return ParsePolicy(raw)
}

// ParsePolicy applies YAML route overrides on top of DefaultPolicy.
func ParsePolicy(raw []byte) (Policy, error) {
	var file policyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse access policy: %w", err)
	}

	policy := DefaultPolicy()
	for _, route := range slices.Sorted(maps.Keys(file.Routes)) {
		if _, known := policy[route]; !known {
			return nil, fmt.Errorf("access policy: unknown route %q", route)
		}
		for _, role := range file.Routes[route] {
			if !role.Valid() {
				return nil, fmt.Errorf("access policy: route %q: unknown role %q", route, role)
			}
		}
		policy[route] = file.Routes[route]
	}
	return policy, nil
}
