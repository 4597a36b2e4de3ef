package email

// SendRuleAssignedEmail tells a representative which scope now routes to
// them. A nil region reads as "All regions".
func (c *Client) SendRuleAssignedEmail(to, country string, region *string, salesOrg string) error {
	regionLabel := "All regions"
	if region != nil {
		regionLabel = *region
	}

	data := map[string]string{
		"Country":  country,
		"Region":   regionLabel,
		"SalesOrg": salesOrg,
	}

	return c.SendEmail(
		to,
		"You have been assigned sales scope "+country,
		TemplateRuleAssigned,
		data,
	)
}
