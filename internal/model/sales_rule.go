// Package model holds the domain types shared by the repository, service
// and handler layers, together with the request payloads the API accepts.
package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SalesRule maps a country (and optionally a region) to the sales
// organization and representative responsible for it.
//
// A nil Region means the rule applies to every region of the country.
type SalesRule struct {
	ID            uuid.UUID `json:"id"`
	Country       string    `json:"country"`
	Region        *string   `json:"region"`
	SalesOrg      string    `json:"salesOrg"`
	SalesRepEmail string    `json:"salesRepEmail"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Key returns the (country, region) pair the rule is looked up by.
func (r *SalesRule) Key() RuleKey {
	return RuleKey{Country: r.Country, Region: r.Region}
}

// RuleKey is the exact-match lookup key of a SalesRule.
type RuleKey struct {
	Country string
	Region  *string
}

// RegionLabel renders the region for messages, "null" when absent.
func (k RuleKey) RegionLabel() string {
	if k.Region == nil {
		return "null"
	}
	return *k.Region
}

// LookupResponse is the public result of a lookup. It intentionally carries
// nothing but the organization and the representative.
type LookupResponse struct {
	SalesOrg      string `json:"salesOrg"`
	SalesRepEmail string `json:"salesRepEmail"`
}

// NullString is an optional, nullable JSON string that remembers whether
// the key was present at all.
//
//	absent        -> Set=false
//	"region":null -> Set=true, Valid=false
//	"region":"EU" -> Set=true, Valid=true, Value="EU"
type NullString struct {
	Value string
	Valid bool
	Set   bool
}

// NewNullString returns a present, non-null NullString.
func NewNullString(v string) NullString {
	return NullString{Value: v, Valid: true, Set: true}
}

func (n *NullString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Valid = false
		n.Value = ""
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n NullString) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns the value as a *string, nil when null.
func (n NullString) Ptr() *string {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// SalesRuleChanges is the change set of a create or update, before it is
// persisted. Nil pointers (and an unset Region) mean "not part of the
// change". Before-write hooks operate on this type.
type SalesRuleChanges struct {
	Country       *string
	Region        NullString
	SalesOrg      *string
	SalesRepEmail *string
}

// Apply copies every present field onto rule.
func (c *SalesRuleChanges) Apply(rule *SalesRule) {
	if c.Country != nil {
		rule.Country = *c.Country
	}
	if c.Region.Set {
		rule.Region = c.Region.Ptr()
	}
	if c.SalesOrg != nil {
		rule.SalesOrg = *c.SalesOrg
	}
	if c.SalesRepEmail != nil {
		rule.SalesRepEmail = *c.SalesRepEmail
	}
}

// ListFilter narrows and pages a listing of sales rules.
type ListFilter struct {
	Country *string
	Limit   int
	Offset  int
}

// Page is a window over a listing.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
