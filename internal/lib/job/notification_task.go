package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskRuleAssigned notifies a representative that a sales scope now
	// routes to them.
	TaskRuleAssigned = "sales_rule:assigned"
)

// RuleAssignedPayload is the JSON payload of TaskRuleAssigned.
type RuleAssignedPayload struct {
	RuleID        string  `json:"rule_id"`
	Country       string  `json:"country"`
	Region        *string `json:"region"`
	SalesOrg      string  `json:"sales_org"`
	SalesRepEmail string  `json:"sales_rep_email"`
}

// NewRuleAssignedTask builds the Asynq task for a rule assignment email.
// Retries up to 3 times on the default queue, 30s per attempt.
func NewRuleAssignedTask(p RuleAssignedPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskRuleAssigned,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
