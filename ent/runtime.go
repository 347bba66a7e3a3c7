// Code generated by ent, DO NOT EDIT.

package ent

import (
	"time"

	"github.com/droverhq/drover/ent/event"
	"github.com/droverhq/drover/ent/schema"
	"github.com/droverhq/drover/ent/task"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	eventFields := schema.Event{}.Fields()
	_ = eventFields
	// eventDescCreatedAt is the schema descriptor for created_at field.
	eventDescCreatedAt := eventFields[5].Descriptor()
	// event.DefaultCreatedAt holds the default value on creation for the created_at field.
	event.DefaultCreatedAt = eventDescCreatedAt.Default.(func() time.Time)
	taskFields := schema.Task{}.Fields()
	_ = taskFields
	// taskDescCostAccrued is the schema descriptor for cost_accrued field.
	taskDescCostAccrued := taskFields[11].Descriptor()
	// task.DefaultCostAccrued holds the default value on creation for the cost_accrued field.
	task.DefaultCostAccrued = taskDescCostAccrued.Default.(float64)
	// taskDescBudgetUsd is the schema descriptor for budget_usd field.
	taskDescBudgetUsd := taskFields[12].Descriptor()
	// task.DefaultBudgetUsd holds the default value on creation for the budget_usd field.
	task.DefaultBudgetUsd = taskDescBudgetUsd.Default.(float64)
	// taskDescIterationsUsed is the schema descriptor for iterations_used field.
	taskDescIterationsUsed := taskFields[13].Descriptor()
	// task.DefaultIterationsUsed holds the default value on creation for the iterations_used field.
	task.DefaultIterationsUsed = taskDescIterationsUsed.Default.(int)
	// taskDescCreatedAt is the schema descriptor for created_at field.
	taskDescCreatedAt := taskFields[14].Descriptor()
	// task.DefaultCreatedAt holds the default value on creation for the created_at field.
	task.DefaultCreatedAt = taskDescCreatedAt.Default.(func() time.Time)
	// taskDescUpdatedAt is the schema descriptor for updated_at field.
	taskDescUpdatedAt := taskFields[15].Descriptor()
	// task.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	task.DefaultUpdatedAt = taskDescUpdatedAt.Default.(func() time.Time)
	// task.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	task.UpdateDefaultUpdatedAt = taskDescUpdatedAt.UpdateDefault.(func() time.Time)
}
