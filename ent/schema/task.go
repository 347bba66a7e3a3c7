package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Task holds the schema definition for the Task entity.
type Task struct {
	ent.Schema
}

// Fields of the Task.
func (Task) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("task_id").
			Unique().
			Immutable(),
		field.String("agent_id").
			Comment("Agent this task is addressed to"),
		field.String("user_id"),
		field.String("workspace_id").
			Comment("Tenant scope for all reads and writes"),
		field.Text("query").
			Comment("Natural-language task prompt"),
		field.JSON("parameters", map[string]interface{}{}).
			Optional().
			Comment("Arbitrary caller parameters (success_criteria, max_iterations, ...)"),
		field.Enum("status").
			Values("submitted", "running", "paused", "cancelled", "completed", "failed").
			Default("submitted"),
		field.String("execution_id").
			Optional().
			Nillable().
			Comment("Durable workflow handle, set when the task starts running"),
		field.Text("result").
			Optional().
			Nillable().
			Comment("Final assistant response on terminal states"),
		field.String("error").
			Optional().
			Nillable(),
		field.String("error_kind").
			Optional().
			Nillable().
			Comment("Failure classification (provider_error, budget_exceeded, ...)"),
		field.Float("cost_accrued").
			Default(0),
		field.Float("budget_usd").
			Default(0),
		field.Int("iterations_used").
			Default(0),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
		field.Time("started_at").
			Optional().
			Nillable(),
		field.Time("completed_at").
			Optional().
			Nillable(),
	}
}

// Edges of the Task.
func (Task) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("events", Event.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Task.
func (Task) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("status"),
		index.Fields("agent_id"),
		index.Fields("workspace_id"),
		index.Fields("status", "created_at"),
		index.Fields("workspace_id", "created_at"),
	}
}
