package service

import (
	"context"
	"strings"

	"github.com/deppfellow/sales-org-service/internal/model"
)

// Operation names the write a hook runs for.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
)

// BeforeWriteHook may rewrite a change set before it is persisted. A
// non-nil error aborts the write.
type BeforeWriteHook func(ctx context.Context, op Operation, changes *model.SalesRuleChanges) error

// DefaultHooks are the hooks every SalesRuleService runs, in order.
func DefaultHooks() []BeforeWriteHook {
	return []BeforeWriteHook{NormalizeCountry}
}

// NormalizeCountry uppercases the country when the change carries one.
// It never rejects a change.
func NormalizeCountry(_ context.Context, _ Operation, changes *model.SalesRuleChanges) error {
	if changes.Country != nil && *changes.Country != "" {
		upper := strings.ToUpper(*changes.Country)
		changes.Country = &upper
	}
	return nil
}

func runHooks(ctx context.Context, hooks []BeforeWriteHook, op Operation, changes *model.SalesRuleChanges) error {
	for _, hook := range hooks {
		if err := hook(ctx, op, changes); err != nil {
			return err
		}
	}
	return nil
}
