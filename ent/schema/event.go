package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Event holds the schema definition for the Event entity: one row per durable
// task event, ordered per task by sequence. Chunk events are broker-only and
// never land here.
type Event struct {
	ent.Schema
}

// Fields of the Event.
func (Event) Fields() []ent.Field {
	return []ent.Field{
		field.String("event_id").
			Unique().
			Immutable().
			Comment("Stable UUID used for client-side de-duplication"),
		field.String("task_id").
			Immutable(),
		field.String("event_type").
			Immutable(),
		field.Int64("sequence").
			Immutable().
			Comment("Strictly increasing per task"),
		field.JSON("payload", map[string]interface{}{}).
			Comment("Event data object; envelope fields live in their own columns"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Event.
func (Event) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("task", Task.Type).
			Ref("events").
			Field("task_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Event.
func (Event) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("task_id", "sequence").
			Unique(),
		index.Fields("task_id", "event_type"),
		index.Fields("created_at"),
	}
}
