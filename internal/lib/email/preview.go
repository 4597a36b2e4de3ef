package email

// PreviewData holds sample values for every template, keyed by template
// name then variable name.
var PreviewData = map[Template]map[string]string{
	TemplateRuleAssigned: {
		"Country":  "FR",
		"Region":   "EU",
		"SalesOrg": "FR-EU-01",
	},
}
