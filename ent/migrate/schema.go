// Code generated by ent, DO NOT EDIT.

package migrate

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// EventsColumns holds the columns for the "events" table.
	EventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "event_id", Type: field.TypeString, Unique: true},
		{Name: "event_type", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "payload", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "task_id", Type: field.TypeString},
	}
	// EventsTable holds the schema information for the "events" table.
	EventsTable = &schema.Table{
		Name:       "events",
		Columns:    EventsColumns,
		PrimaryKey: []*schema.Column{EventsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "events_tasks_events",
				Columns:    []*schema.Column{EventsColumns[6]},
				RefColumns: []*schema.Column{TasksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "event_task_id_sequence",
				Unique:  true,
				Columns: []*schema.Column{EventsColumns[6], EventsColumns[3]},
			},
			{
				Name:    "event_task_id_event_type",
				Unique:  false,
				Columns: []*schema.Column{EventsColumns[6], EventsColumns[2]},
			},
			{
				Name:    "event_created_at",
				Unique:  false,
				Columns: []*schema.Column{EventsColumns[5]},
			},
		},
	}
	// TasksColumns holds the columns for the "tasks" table.
	TasksColumns = []*schema.Column{
		{Name: "task_id", Type: field.TypeString, Unique: true},
		{Name: "agent_id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "workspace_id", Type: field.TypeString},
		{Name: "query", Type: field.TypeString, Size: 2147483647},
		{Name: "parameters", Type: field.TypeJSON, Nullable: true},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"submitted", "running", "paused", "cancelled", "completed", "failed"}, Default: "submitted"},
		{Name: "execution_id", Type: field.TypeString, Nullable: true},
		{Name: "result", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "error", Type: field.TypeString, Nullable: true},
		{Name: "error_kind", Type: field.TypeString, Nullable: true},
		{Name: "cost_accrued", Type: field.TypeFloat64, Default: 0},
		{Name: "budget_usd", Type: field.TypeFloat64, Default: 0},
		{Name: "iterations_used", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "started_at", Type: field.TypeTime, Nullable: true},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
	}
	// TasksTable holds the schema information for the "tasks" table.
	TasksTable = &schema.Table{
		Name:       "tasks",
		Columns:    TasksColumns,
		PrimaryKey: []*schema.Column{TasksColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "task_status",
				Unique:  false,
				Columns: []*schema.Column{TasksColumns[6]},
			},
			{
				Name:    "task_agent_id",
				Unique:  false,
				Columns: []*schema.Column{TasksColumns[1]},
			},
			{
				Name:    "task_workspace_id",
				Unique:  false,
				Columns: []*schema.Column{TasksColumns[3]},
			},
			{
				Name:    "task_status_created_at",
				Unique:  false,
				Columns: []*schema.Column{TasksColumns[6], TasksColumns[14]},
			},
			{
				Name:    "task_workspace_id_created_at",
				Unique:  false,
				Columns: []*schema.Column{TasksColumns[3], TasksColumns[14]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		EventsTable,
		TasksTable,
	}
)

func init() {
	EventsTable.ForeignKeys[0].RefTable = TasksTable
}
