// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema applies an ordered list of migrations inside one transaction:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: staff accounts with a role and bcrypt password hash
  - clients: intake clients, unique by normalized company_name
  - questions, alternatives: the intake form
  - teams, alternatives_teams: work hours each alternative costs each team
  - budget_requests: approval-tracked requests created from a response batch
  - clients_responses: one row per answered question
  - projects, overtime_requests: overtime tracking
  - notifications: messages for a role audience or a single user

# Relationships

	clients 1──* budget_requests 1──* clients_responses
	questions 1──* alternatives *──* teams (via alternatives_teams)
	questions 1──* clients_responses *──1 alternatives
	projects 1──* overtime_requests *──1 users

# Constraints

Foreign keys and unique keys carry explicit names (exported as
Constraint* constants) so store/postgres can map an integrity violation
to the offending reference without parsing error messages.
clients_responses enforces that exactly one of alternative_id and
response_details is set.
*/
package db
