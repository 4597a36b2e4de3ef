package model

import (
	"github.com/deppfellow/sales-org-service/internal/validation"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LookupRequest is the body of POST /api/v1/sales/lookup:
//
//	{"request": {"country": "FR", "region": "EU"}}
//
// The required country is checked by the lookup itself so that every
// caller, not only HTTP, gets the same error.
type LookupRequest struct {
	Request LookupInput `json:"request"`
}

// LookupInput carries the lookup key. A missing or null region matches
// only rules without a region. Values are not length-checked: a key no
// rule can have is simply not found.
type LookupInput struct {
	Country string  `json:"country"`
	Region  *string `json:"region"`
}

func (r *LookupRequest) Validate() error {
	return validate.Struct(r)
}

// CreateSalesRuleRequest is the body of POST /api/v1/sales-rules.
type CreateSalesRuleRequest struct {
	Country       string  `json:"country" validate:"required,len=2,alpha"`
	Region        *string `json:"region" validate:"omitempty,max=100"`
	SalesOrg      string  `json:"salesOrg" validate:"required,max=100"`
	SalesRepEmail string  `json:"salesRepEmail" validate:"required,email,max=254"`
}

func (r *CreateSalesRuleRequest) Validate() error {
	return validate.Struct(r)
}

// Changes converts the request into a change set with every field present.
func (r *CreateSalesRuleRequest) Changes() SalesRuleChanges {
	region := NullString{Set: true}
	if r.Region != nil {
		region = NewNullString(*r.Region)
	}

	return SalesRuleChanges{
		Country:       StringPtr(r.Country),
		Region:        region,
		SalesOrg:      StringPtr(r.SalesOrg),
		SalesRepEmail: StringPtr(r.SalesRepEmail),
	}
}

// UpdateSalesRuleRequest is the body of PATCH /api/v1/sales-rules/:id.
// Absent fields keep their stored value; "region": null clears the region.
type UpdateSalesRuleRequest struct {
	ID            string     `param:"id" json:"-" validate:"required,uuid"`
	Country       *string    `json:"country" validate:"omitempty,len=2,alpha"`
	Region        NullString `json:"region"`
	SalesOrg      *string    `json:"salesOrg" validate:"omitempty,min=1,max=100"`
	SalesRepEmail *string    `json:"salesRepEmail" validate:"omitempty,email,max=254"`
}

func (r *UpdateSalesRuleRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Region.Valid && len(r.Region.Value) > 100 {
		return validation.CustomValidationErrors{
			{Field: "region", Message: "must not exceed 100 characters"},
		}
	}
	return nil
}

// Changes converts the request into a partial change set.
func (r *UpdateSalesRuleRequest) Changes() SalesRuleChanges {
	return SalesRuleChanges{
		Country:       r.Country,
		Region:        r.Region,
		SalesOrg:      r.SalesOrg,
		SalesRepEmail: r.SalesRepEmail,
	}
}

// SalesRuleIDRequest addresses a single rule by path id.
type SalesRuleIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *SalesRuleIDRequest) Validate() error {
	return validate.Struct(r)
}

// ListSalesRulesRequest holds the query parameters of GET /api/v1/sales-rules.
type ListSalesRulesRequest struct {
	Country string `query:"country" validate:"omitempty,len=2,alpha"`
	Limit   int    `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset  int    `query:"offset" validate:"omitempty,min=0"`
}

func (r *ListSalesRulesRequest) Validate() error {
	return validate.Struct(r)
}

// Filter converts the query into a ListFilter.
func (r *ListSalesRulesRequest) Filter() ListFilter {
	filter := ListFilter{Limit: r.Limit, Offset: r.Offset}
	if r.Country != "" {
		filter.Country = StringPtr(r.Country)
	}
	return filter
}
