package directory

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp-forge/appsdir/pkg/atom"
	"github.com/hashicorp-forge/appsdir/pkg/rest"
	"github.com/hashicorp-forge/appsdir/pkg/session"
)

// usersSeparator joins several users in one usersToMove value.
const usersSeparator = ", "

// MoveRequest builds the document that moves users into orgUnit.
func MoveRequest(customerID, orgUnit string, users ...string) atom.Entry {
	return atom.NewEntry(
		atom.Property{Name: PropertyCustomerID, Value: customerID},
		atom.Property{Name: PropertyName, Value: orgUnit},
		atom.Property{Name: PropertyUsersToMove, Value: strings.Join(users, usersSeparator)},
	)
}

// MoveUserToOrgUnit moves user into orgUnit.
//
// It reports false without an error when the server accepts the call but
// answers with an empty body. Errors are returned for failed calls only.
func (c *Client) MoveUserToOrgUnit(ctx context.Context, user, orgUnit string) (bool, error) {
	return c.MoveUsersToOrgUnit(ctx, []string{user}, orgUnit)
}

// MoveUsersToOrgUnit moves every user in users into orgUnit with one call.
// The move is not safe to retry blindly.
func (c *Client) MoveUsersToOrgUnit(ctx context.Context, users []string, orgUnit string) (bool, error) {
	if len(users) == 0 {
		return false, fmt.Errorf("at least one user is required")
	}
	for _, u := range users {
		if u == "" {
			return false, fmt.Errorf("user must not be empty")
		}
	}
	if orgUnit == "" {
		return false, fmt.Errorf("org unit is required")
	}

	logger := c.logger.With("org_unit", orgUnit, "users", len(users))

	token, err := c.Token(ctx)
	if err != nil {
		return false, err
	}

	customer, err := c.Customer(ctx, token)
	if err != nil {
		return false, err
	}
	customerID, ok := customer.CustomerID()
	if !ok || customerID == "" {
		return false, ErrNoCustomerID
	}

	uri := c.endpoints.MoveToGroupURL + url.PathEscape(customerID) + "/" + escapeOrgUnitPath(orgUnit)
	req := rest.Put(uri).
		WithParam(TokenParam, token).
		WithBody(MoveRequest(customerID, orgUnit, users...))

	logger.Debug("moving users", "customer_id", customerID)

	result, err := session.Run(ctx, c.session, func(ctx context.Context, doer rest.Doer) ([]byte, error) {
		return rest.Execute(ctx, doer, req, rest.Bytes)
	})
	if err != nil {
		return false, fmt.Errorf("failed to move users to %s: %w", orgUnit, err)
	}

	if len(result) == 0 {
		logger.Warn("move returned an empty response")
		return false, nil
	}

	logger.Info("moved users")
	return true, nil
}
