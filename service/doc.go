// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package service implements the intake and approval workflows on top of the
// repository interfaces in package store.
//
// # Client Intake
//
// A prospective client registers once per company (the company name is
// trimmed and lower-cased and acts as the uniqueness key) and then submits
// a batch of responses to the questionnaire. Each response selects one
// alternative of a question or carries free-text details. A valid batch
// creates one budget request and all its response rows in one transaction.
//
// # Budget Approval
//
// Budget requests start pending. Pre-sale approves or rejects first, then
// financial takes the final decision:
//
//	pending -> pre_sale_approved -> approved
//	   |              |
//	   +-> rejected <-+
//
// # Overtime
//
// Professional services staff file overtime requests against projects;
// managers and admins decide them. Every step notifies the next audience.
//
// Errors returned from this package are *apperr.Error values.
package service
