package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/deppfellow/sales-org-service/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullString_UnmarshalJSON(t *testing.T) {
	var req UpdateSalesRuleRequest

	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.False(t, req.Region.Set)

	req = UpdateSalesRuleRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"region":null}`), &req))
	assert.True(t, req.Region.Set)
	assert.False(t, req.Region.Valid)
	assert.Nil(t, req.Region.Ptr())

	req = UpdateSalesRuleRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"region":""}`), &req))
	assert.True(t, req.Region.Valid)
	require.NotNil(t, req.Region.Ptr())
	assert.Equal(t, "", *req.Region.Ptr())

	assert.Error(t, json.Unmarshal([]byte(`{"region":42}`), &req))
}

func TestNullString_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(NullString{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	out, err = json.Marshal(NewNullString("EU"))
	require.NoError(t, err)
	assert.Equal(t, `"EU"`, string(out))
}

func TestSalesRuleChanges_Apply(t *testing.T) {
	rule := SalesRule{Country: "FR", Region: StringPtr("EU"), SalesOrg: "S1", SalesRepEmail: "a@x.com"}

	changes := SalesRuleChanges{SalesOrg: StringPtr("S2")}
	changes.Apply(&rule)
	assert.Equal(t, "FR", rule.Country)
	require.NotNil(t, rule.Region)
	assert.Equal(t, "EU", *rule.Region)
	assert.Equal(t, "S2", rule.SalesOrg)

	changes = SalesRuleChanges{Region: NullString{Set: true}}
	changes.Apply(&rule)
	assert.Nil(t, rule.Region)
	assert.Equal(t, "a@x.com", rule.SalesRepEmail)
}

func TestCreateSalesRuleRequest_Changes(t *testing.T) {
	req := CreateSalesRuleRequest{Country: "fr", SalesOrg: "S1", SalesRepEmail: "a@x.com"}
	changes := req.Changes()

	assert.True(t, changes.Region.Set)
	assert.False(t, changes.Region.Valid)
	assert.Equal(t, "fr", *changes.Country)

	req.Region = StringPtr("EU")
	changes = req.Changes()
	assert.Equal(t, "EU", *changes.Region.Ptr())
}

func TestCreateSalesRuleRequest_Validate(t *testing.T) {
	valid := CreateSalesRuleRequest{Country: "fr", SalesOrg: "S1", SalesRepEmail: "a@x.com"}
	assert.NoError(t, valid.Validate())

	for name, req := range map[string]CreateSalesRuleRequest{
		"missing country": {SalesOrg: "S1", SalesRepEmail: "a@x.com"},
		"long country":    {Country: "FRA", SalesOrg: "S1", SalesRepEmail: "a@x.com"},
		"digit country":   {Country: "F1", SalesOrg: "S1", SalesRepEmail: "a@x.com"},
		"bad email":       {Country: "FR", SalesOrg: "S1", SalesRepEmail: "nope"},
		"missing org":     {Country: "FR", SalesRepEmail: "a@x.com"},
	} {
		var verrs validator.ValidationErrors
		assert.True(t, errors.As(req.Validate(), &verrs), name)
	}
}

func TestUpdateSalesRuleRequest_Validate(t *testing.T) {
	req := UpdateSalesRuleRequest{ID: "7b0c5a43-4f0e-4d8e-9a51-2a3b6cb1f0a2"}
	assert.NoError(t, req.Validate())

	req.Region = NewNullString(string(make([]byte, 101)))
	var custom validation.CustomValidationErrors
	require.True(t, errors.As(req.Validate(), &custom))
	assert.Equal(t, "region", custom[0].Field)

	req = UpdateSalesRuleRequest{ID: "nope"}
	assert.Error(t, req.Validate())
}

func TestListSalesRulesRequest_Filter(t *testing.T) {
	assert.Equal(t, ListFilter{Limit: 10}, (&ListSalesRulesRequest{Limit: 10}).Filter())

	filter := (&ListSalesRulesRequest{Country: "fr", Offset: 5}).Filter()
	require.NotNil(t, filter.Country)
	assert.Equal(t, "fr", *filter.Country)
	assert.Equal(t, 5, filter.Offset)
}

func TestRuleKey_RegionLabel(t *testing.T) {
	assert.Equal(t, "null", RuleKey{Country: "FR"}.RegionLabel())
	assert.Equal(t, "", RuleKey{Country: "FR", Region: StringPtr("")}.RegionLabel())

	rule := SalesRule{Country: "FR", Region: StringPtr("EU")}
	assert.Equal(t, "EU", rule.Key().RegionLabel())
}

func TestLookupRequest_ValidateAcceptsAnyLength(t *testing.T) {
	long := strings.Repeat("X", 150)
	req := LookupRequest{Request: LookupInput{Country: long, Region: StringPtr(long)}}
	assert.NoError(t, req.Validate())
}
