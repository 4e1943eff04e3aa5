// Package scenario loads the fixture data that drives the data-driven specs:
// named credential and customer-info scenarios with their expected errors.
package scenario

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownScenario is returned when a spec asks for a scenario the
// fixture file does not define.
var ErrUnknownScenario = errors.New("unknown scenario")

// ErrInvalidFixture is returned when fixture data fails validation.
var ErrInvalidFixture = errors.New("invalid fixture data")

// Credentials is one login scenario.
type Credentials struct {
	Username     string `json:"username" yaml:"username"`
	Password     string `json:"password" yaml:"password"`
	ErrorMessage string `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
}

// CustomerInfo is one checkout information scenario.
type CustomerInfo struct {
	FirstName    string `json:"firstName" yaml:"firstName"`
	LastName     string `json:"lastName" yaml:"lastName"`
	PostalCode   string `json:"postalCode" yaml:"postalCode"`
	ErrorMessage string `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
}

// CustomerScenarios groups customer info by expected outcome.
type CustomerScenarios struct {
	Valid   CustomerInfo            `json:"valid" yaml:"valid"`
	Invalid map[string]CustomerInfo `json:"invalid" yaml:"invalid"`
}

// Users is the users fixture file.
type Users struct {
	ValidUsers   map[string]Credentials `json:"validUsers" yaml:"validUsers"`
	InvalidUsers map[string]Credentials `json:"invalidUsers" yaml:"invalidUsers"`
	CustomerInfo CustomerScenarios      `json:"customerInfo" yaml:"customerInfo"`
}

// Validate rejects fixtures a spec could not use: no valid user, invalid
// scenarios without an expected error, or valid scenarios that carry one.
func (u *Users) Validate() error {
	if len(u.ValidUsers) == 0 {
		return fmt.Errorf("%w: no valid users", ErrInvalidFixture)
	}
	for name, c := range u.ValidUsers {
		if c.Username == "" {
			return fmt.Errorf("%w: valid user %q has no username", ErrInvalidFixture, name)
		}
		if c.ErrorMessage != "" {
			return fmt.Errorf("%w: valid user %q expects an error", ErrInvalidFixture, name)
		}
	}
	for name, c := range u.InvalidUsers {
		if c.ErrorMessage == "" {
			return fmt.Errorf("%w: invalid user %q has no expected error", ErrInvalidFixture, name)
		}
	}
	if u.CustomerInfo.Valid.ErrorMessage != "" {
		return fmt.Errorf("%w: valid customer info expects an error", ErrInvalidFixture)
	}
	for name, c := range u.CustomerInfo.Invalid {
		if c.ErrorMessage == "" {
			return fmt.Errorf("%w: invalid customer %q has no expected error", ErrInvalidFixture, name)
		}
	}
	return nil
}

// ValidUser returns the named valid-credential scenario.
func (u *Users) ValidUser(name string) (Credentials, error) {
	c, ok := u.ValidUsers[name]
	if !ok {
		return Credentials{}, fmt.Errorf("%w: valid user %q", ErrUnknownScenario, name)
	}
	return c, nil
}

// InvalidUser returns the named invalid-credential scenario.
func (u *Users) InvalidUser(name string) (Credentials, error) {
	c, ok := u.InvalidUsers[name]
	if !ok {
		return Credentials{}, fmt.Errorf("%w: invalid user %q", ErrUnknownScenario, name)
	}
	return c, nil
}

// InvalidCustomer returns the named invalid customer-info scenario.
func (u *Users) InvalidCustomer(name string) (CustomerInfo, error) {
	c, ok := u.CustomerInfo.Invalid[name]
	if !ok {
		return CustomerInfo{}, fmt.Errorf("%w: invalid customer %q", ErrUnknownScenario, name)
	}
	return c, nil
}

// InvalidUserNames lists the invalid-credential scenarios in name order.
func (u *Users) InvalidUserNames() []string {
	return sortedKeys(u.InvalidUsers)
}

// InvalidCustomerNames lists the invalid customer scenarios in name order.
func (u *Users) InvalidCustomerNames() []string {
	return sortedKeys(u.CustomerInfo.Invalid)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
