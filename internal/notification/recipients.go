package notification

import (
	"fmt"
	"net/mail"
	"strings"

	"leavedesk/internal/employee"
)

// Recipient is one validated delivery target.
type Recipient struct {
	EmployeeID int64
	Name       string
	Address    string
}

// RecipientPlan is the outcome of pure address resolution: who will be
// delivered to, and which contacts were skipped and why. Computing the
// plan touches no transport, so it is unit-testable on its own.
type RecipientPlan struct {
	Supervisors []Recipient
	Skipped     []string
}

// BuildRecipientPlan de-duplicates the supervisor contacts by address
// and filters out empty or syntactically invalid ones. Invalid contacts
// are recorded, not fatal.
func BuildRecipientPlan(contacts []employee.Contact) RecipientPlan {
	var plan RecipientPlan
	seen := make(map[string]struct{}, len(contacts))

	for _, c := range contacts {
		addr := strings.TrimSpace(c.Email)
		if addr == "" {
			plan.Skipped = append(plan.Skipped,
				fmt.Sprintf("supervisor %d (%s) has no email address", c.EmployeeID, c.Name))
			continue
		}
		if _, err := mail.ParseAddress(addr); err != nil {
			plan.Skipped = append(plan.Skipped,
				fmt.Sprintf("supervisor %d (%s) has an invalid email address: %s", c.EmployeeID, c.Name, addr))
			continue
		}
		key := strings.ToLower(addr)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		plan.Supervisors = append(plan.Supervisors, Recipient{
			EmployeeID: c.EmployeeID,
			Name:       c.Name,
			Address:    addr,
		})
	}
	return plan
}

// validAddress reports whether the contact can receive the applicant
// confirmation copy.
func validAddress(c employee.Contact) (string, bool) {
	addr := strings.TrimSpace(c.Email)
	if addr == "" {
		return "", false
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return "", false
	}
	return addr, true
}
