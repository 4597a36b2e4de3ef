package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Mailer sends the emails job handlers produce.
type Mailer interface {
	SendRuleAssignedEmail(to, country string, region *string, salesOrg string) error
}

func (j *JobService) handleRuleAssignedTask(ctx context.Context, t *asynq.Task) error {
	var p RuleAssignedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal rule assigned payload: %w: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", TaskRuleAssigned).
		Str("rule_id", p.RuleID).
		Str("to", p.SalesRepEmail).
		Logger()

	log.Info().Msg("processing rule assigned task")

	if err := j.mailer.SendRuleAssignedEmail(p.SalesRepEmail, p.Country, p.Region, p.SalesOrg); err != nil {
		log.Error().Err(err).Msg("failed to send rule assigned email")
		return err
	}

	log.Info().Msg("sent rule assigned email")
	return nil
}
