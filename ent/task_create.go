// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/droverhq/drover/ent/event"
	"github.com/droverhq/drover/ent/task"
)

// TaskCreate is the builder for creating a Task entity.
type TaskCreate struct {
	config
	mutation *TaskMutation
	hooks    []Hook
}

// SetAgentID sets the "agent_id" field.
func (_c *TaskCreate) SetAgentID(v string) *TaskCreate {
	_c.mutation.SetAgentID(v)
	return _c
}

// SetUserID sets the "user_id" field.
func (_c *TaskCreate) SetUserID(v string) *TaskCreate {
	_c.mutation.SetUserID(v)
	return _c
}

// SetWorkspaceID sets the "workspace_id" field.
func (_c *TaskCreate) SetWorkspaceID(v string) *TaskCreate {
	_c.mutation.SetWorkspaceID(v)
	return _c
}

// SetQuery sets the "query" field.
func (_c *TaskCreate) SetQuery(v string) *TaskCreate {
	_c.mutation.SetQuery(v)
	return _c
}

// SetParameters sets the "parameters" field.
func (_c *TaskCreate) SetParameters(v map[string]interface{}) *TaskCreate {
	_c.mutation.SetParameters(v)
	return _c
}

// SetStatus sets the "status" field.
func (_c *TaskCreate) SetStatus(v task.Status) *TaskCreate {
	_c.mutation.SetStatus(v)
	return _c
}

// SetNillableStatus sets the "status" field if the given value is not nil.
func (_c *TaskCreate) SetNillableStatus(v *task.Status) *TaskCreate {
	if v != nil {
		_c.SetStatus(*v)
	}
	return _c
}

// SetExecutionID sets the "execution_id" field.
func (_c *TaskCreate) SetExecutionID(v string) *TaskCreate {
	_c.mutation.SetExecutionID(v)
	return _c
}

// SetNillableExecutionID sets the "execution_id" field if the given value is not nil.
func (_c *TaskCreate) SetNillableExecutionID(v *string) *TaskCreate {
	if v != nil {
		_c.SetExecutionID(*v)
	}
	return _c
}

// SetResult sets the "result" field.
func (_c *TaskCreate) SetResult(v string) *TaskCreate {
	_c.mutation.SetResult(v)
	return _c
}

// SetNillableResult sets the "result" field if the given value is not nil.
func (_c *TaskCreate) SetNillableResult(v *string) *TaskCreate {
	if v != nil {
		_c.SetResult(*v)
	}
	return _c
}

// SetError sets the "error" field.
func (_c *TaskCreate) SetError(v string) *TaskCreate {
	_c.mutation.SetError(v)
	return _c
}

// SetNillableError sets the "error" field if the given value is not nil.
func (_c *TaskCreate) SetNillableError(v *string) *TaskCreate {
	if v != nil {
		_c.SetError(*v)
	}
	return _c
}

// SetErrorKind sets the "error_kind" field.
func (_c *TaskCreate) SetErrorKind(v string) *TaskCreate {
	_c.mutation.SetErrorKind(v)
	return _c
}

// SetNillableErrorKind sets the "error_kind" field if the given value is not nil.
func (_c *TaskCreate) SetNillableErrorKind(v *string) *TaskCreate {
	if v != nil {
		_c.SetErrorKind(*v)
	}
	return _c
}

// SetCostAccrued sets the "cost_accrued" field.
func (_c *TaskCreate) SetCostAccrued(v float64) *TaskCreate {
	_c.mutation.SetCostAccrued(v)
	return _c
}

// SetNillableCostAccrued sets the "cost_accrued" field if the given value is not nil.
func (_c *TaskCreate) SetNillableCostAccrued(v *float64) *TaskCreate {
	if v != nil {
		_c.SetCostAccrued(*v)
	}
	return _c
}

// SetBudgetUsd sets the "budget_usd" field.
func (_c *TaskCreate) SetBudgetUsd(v float64) *TaskCreate {
	_c.mutation.SetBudgetUsd(v)
	return _c
}

// SetNillableBudgetUsd sets the "budget_usd" field if the given value is not nil.
func (_c *TaskCreate) SetNillableBudgetUsd(v *float64) *TaskCreate {
	if v != nil {
		_c.SetBudgetUsd(*v)
	}
	return _c
}

// SetIterationsUsed sets the "iterations_used" field.
func (_c *TaskCreate) SetIterationsUsed(v int) *TaskCreate {
	_c.mutation.SetIterationsUsed(v)
	return _c
}

// SetNillableIterationsUsed sets the "iterations_used" field if the given value is not nil.
func (_c *TaskCreate) SetNillableIterationsUsed(v *int) *TaskCreate {
	if v != nil {
		_c.SetIterationsUsed(*v)
	}
	return _c
}

// SetCreatedAt sets the "created_at" field.
func (_c *TaskCreate) SetCreatedAt(v time.Time) *TaskCreate {
	_c.mutation.SetCreatedAt(v)
	return _c
}

// SetNillableCreatedAt sets the "created_at" field if the given value is not nil.
func (_c *TaskCreate) SetNillableCreatedAt(v *time.Time) *TaskCreate {
	if v != nil {
		_c.SetCreatedAt(*v)
	}
	return _c
}

// SetUpdatedAt sets the "updated_at" field.
func (_c *TaskCreate) SetUpdatedAt(v time.Time) *TaskCreate {
	_c.mutation.SetUpdatedAt(v)
	return _c
}

// SetNillableUpdatedAt sets the "updated_at" field if the given value is not nil.
func (_c *TaskCreate) SetNillableUpdatedAt(v *time.Time) *TaskCreate {
	if v != nil {
		_c.SetUpdatedAt(*v)
	}
	return _c
}

// SetStartedAt sets the "started_at" field.
func (_c *TaskCreate) SetStartedAt(v time.Time) *TaskCreate {
	_c.mutation.SetStartedAt(v)
	return _c
}

// SetNillableStartedAt sets the "started_at" field if the given value is not nil.
func (_c *TaskCreate) SetNillableStartedAt(v *time.Time) *TaskCreate {
	if v != nil {
		_c.SetStartedAt(*v)
	}
	return _c
}

// SetCompletedAt sets the "completed_at" field.
func (_c *TaskCreate) SetCompletedAt(v time.Time) *TaskCreate {
	_c.mutation.SetCompletedAt(v)
	return _c
}

// SetNillableCompletedAt sets the "completed_at" field if the given value is not nil.
func (_c *TaskCreate) SetNillableCompletedAt(v *time.Time) *TaskCreate {
	if v != nil {
		_c.SetCompletedAt(*v)
	}
	return _c
}

// SetID sets the "id" field.
func (_c *TaskCreate) SetID(v string) *TaskCreate {
	_c.mutation.SetID(v)
	return _c
}

// AddEventIDs adds the "events" edge to the Event entity by IDs.
func (_c *TaskCreate) AddEventIDs(ids ...int) *TaskCreate {
	_c.mutation.AddEventIDs(ids...)
	return _c
}

// AddEvents adds the "events" edges to the Event entity.
func (_c *TaskCreate) AddEvents(v ...*Event) *TaskCreate {
	ids := make([]int, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _c.AddEventIDs(ids...)
}

// Mutation returns the TaskMutation object of the builder.
func (_c *TaskCreate) Mutation() *TaskMutation {
	return _c.mutation
}

// Save creates the Task in the database.
func (_c *TaskCreate) Save(ctx context.Context) (*Task, error) {
	_c.defaults()
	return withHooks(ctx, _c.sqlSave, _c.mutation, _c.hooks)
}

// SaveX calls Save and panics if Save returns an error.
func (_c *TaskCreate) SaveX(ctx context.Context) *Task {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *TaskCreate) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *TaskCreate) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_c *TaskCreate) defaults() {
	if _, ok := _c.mutation.Status(); !ok {
		v := task.DefaultStatus
		_c.mutation.SetStatus(v)
	}
	if _, ok := _c.mutation.CostAccrued(); !ok {
		v := task.DefaultCostAccrued
		_c.mutation.SetCostAccrued(v)
	}
	if _, ok := _c.mutation.BudgetUsd(); !ok {
		v := task.DefaultBudgetUsd
		_c.mutation.SetBudgetUsd(v)
	}
	if _, ok := _c.mutation.IterationsUsed(); !ok {
		v := task.DefaultIterationsUsed
		_c.mutation.SetIterationsUsed(v)
	}
	if _, ok := _c.mutation.CreatedAt(); !ok {
		v := task.DefaultCreatedAt()
		_c.mutation.SetCreatedAt(v)
	}
	if _, ok := _c.mutation.UpdatedAt(); !ok {
		v := task.DefaultUpdatedAt()
		_c.mutation.SetUpdatedAt(v)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_c *TaskCreate) check() error {
	if _, ok := _c.mutation.AgentID(); !ok {
		return &ValidationError{Name: "agent_id", err: errors.New(`ent: missing required field "Task.agent_id"`)}
	}
	if _, ok := _c.mutation.UserID(); !ok {
		return &ValidationError{Name: "user_id", err: errors.New(`ent: missing required field "Task.user_id"`)}
	}
	if _, ok := _c.mutation.WorkspaceID(); !ok {
		return &ValidationError{Name: "workspace_id", err: errors.New(`ent: missing required field "Task.workspace_id"`)}
	}
	if _, ok := _c.mutation.Query(); !ok {
		return &ValidationError{Name: "query", err: errors.New(`ent: missing required field "Task.query"`)}
	}
	if _, ok := _c.mutation.Status(); !ok {
		return &ValidationError{Name: "status", err: errors.New(`ent: missing required field "Task.status"`)}
	}
	if v, ok := _c.mutation.Status(); ok {
		if err := task.StatusValidator(v); err != nil {
			return &ValidationError{Name: "status", err: fmt.Errorf(`ent: validator failed for field "Task.status": %w`, err)}
		}
	}
	if _, ok := _c.mutation.CostAccrued(); !ok {
		return &ValidationError{Name: "cost_accrued", err: errors.New(`ent: missing required field "Task.cost_accrued"`)}
	}
	if _, ok := _c.mutation.BudgetUsd(); !ok {
		return &ValidationError{Name: "budget_usd", err: errors.New(`ent: missing required field "Task.budget_usd"`)}
	}
	if _, ok := _c.mutation.IterationsUsed(); !ok {
		return &ValidationError{Name: "iterations_used", err: errors.New(`ent: missing required field "Task.iterations_used"`)}
	}
	if _, ok := _c.mutation.CreatedAt(); !ok {
		return &ValidationError{Name: "created_at", err: errors.New(`ent: missing required field "Task.created_at"`)}
	}
	if _, ok := _c.mutation.UpdatedAt(); !ok {
		return &ValidationError{Name: "updated_at", err: errors.New(`ent: missing required field "Task.updated_at"`)}
	}
	return nil
}

func (_c *TaskCreate) sqlSave(ctx context.Context) (*Task, error) {
	if err := _c.check(); err != nil {
		return nil, err
	}
	_node, _spec := _c.createSpec()
	if err := sqlgraph.CreateNode(ctx, _c.driver, _spec); err != nil {
		if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	if _spec.ID.Value != nil {
		if id, ok := _spec.ID.Value.(string); ok {
			_node.ID = id
		} else {
			return nil, fmt.Errorf("unexpected Task.ID type: %T", _spec.ID.Value)
		}
	}
	_c.mutation.id = &_node.ID
	_c.mutation.done = true
	return _node, nil
}

func (_c *TaskCreate) createSpec() (*Task, *sqlgraph.CreateSpec) {
	var (
		_node = &Task{config: _c.config}
		_spec = sqlgraph.NewCreateSpec(task.Table, sqlgraph.NewFieldSpec(task.FieldID, field.TypeString))
	)
	if id, ok := _c.mutation.ID(); ok {
		_node.ID = id
		_spec.ID.Value = id
	}
	if value, ok := _c.mutation.AgentID(); ok {
		_spec.SetField(task.FieldAgentID, field.TypeString, value)
		_node.AgentID = value
	}
	if value, ok := _c.mutation.UserID(); ok {
		_spec.SetField(task.FieldUserID, field.TypeString, value)
		_node.UserID = value
	}
	if value, ok := _c.mutation.WorkspaceID(); ok {
		_spec.SetField(task.FieldWorkspaceID, field.TypeString, value)
		_node.WorkspaceID = value
	}
	if value, ok := _c.mutation.Query(); ok {
		_spec.SetField(task.FieldQuery, field.TypeString, value)
		_node.Query = value
	}
	if value, ok := _c.mutation.Parameters(); ok {
		_spec.SetField(task.FieldParameters, field.TypeJSON, value)
		_node.Parameters = value
	}
	if value, ok := _c.mutation.Status(); ok {
		_spec.SetField(task.FieldStatus, field.TypeEnum, value)
		_node.Status = value
	}
	if value, ok := _c.mutation.ExecutionID(); ok {
		_spec.SetField(task.FieldExecutionID, field.TypeString, value)
		_node.ExecutionID = &value
	}
	if value, ok := _c.mutation.Result(); ok {
		_spec.SetField(task.FieldResult, field.TypeString, value)
		_node.Result = &value
	}
	if value, ok := _c.mutation.Error(); ok {
		_spec.SetField(task.FieldError, field.TypeString, value)
		_node.Error = &value
	}
	if value, ok := _c.mutation.ErrorKind(); ok {
		_spec.SetField(task.FieldErrorKind, field.TypeString, value)
		_node.ErrorKind = &value
	}
	if value, ok := _c.mutation.CostAccrued(); ok {
		_spec.SetField(task.FieldCostAccrued, field.TypeFloat64, value)
		_node.CostAccrued = value
	}
	if value, ok := _c.mutation.BudgetUsd(); ok {
		_spec.SetField(task.FieldBudgetUsd, field.TypeFloat64, value)
		_node.BudgetUsd = value
	}
	if value, ok := _c.mutation.IterationsUsed(); ok {
		_spec.SetField(task.FieldIterationsUsed, field.TypeInt, value)
		_node.IterationsUsed = value
	}
	if value, ok := _c.mutation.CreatedAt(); ok {
		_spec.SetField(task.FieldCreatedAt, field.TypeTime, value)
		_node.CreatedAt = value
	}
	if value, ok := _c.mutation.UpdatedAt(); ok {
		_spec.SetField(task.FieldUpdatedAt, field.TypeTime, value)
		_node.UpdatedAt = value
	}
	if value, ok := _c.mutation.StartedAt(); ok {
		_spec.SetField(task.FieldStartedAt, field.TypeTime, value)
		_node.StartedAt = &value
	}
	if value, ok := _c.mutation.CompletedAt(); ok {
		_spec.SetField(task.FieldCompletedAt, field.TypeTime, value)
		_node.CompletedAt = &value
	}
	if nodes := _c.mutation.EventsIDs(); len(nodes) > 0 {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   task.EventsTable,
			Columns: []string{task.EventsColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(event.FieldID, field.TypeInt),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_spec.Edges = append(_spec.Edges, edge)
	}
	return _node, _spec
}

// TaskCreateBulk is the builder for creating many Task entities in bulk.
type TaskCreateBulk struct {
	config
	err      error
	builders []*TaskCreate
}

// Save creates the Task entities in the database.
func (_c *TaskCreateBulk) Save(ctx context.Context) ([]*Task, error) {
	if _c.err != nil {
		return nil, _c.err
	}
	specs := make([]*sqlgraph.CreateSpec, len(_c.builders))
	nodes := make([]*Task, len(_c.builders))
	mutators := make([]Mutator, len(_c.builders))
	for i := range _c.builders {
		func(i int, root context.Context) {
			builder := _c.builders[i]
			builder.defaults()
			var mut Mutator = MutateFunc(func(ctx context.Context, m Mutation) (Value, error) {
				mutation, ok := m.(*TaskMutation)
				if !ok {
					return nil, fmt.Errorf("unexpected mutation type %T", m)
				}
				if err := builder.check(); err != nil {
					return nil, err
				}
				builder.mutation = mutation
				var err error
				nodes[i], specs[i] = builder.createSpec()
				if i < len(mutators)-1 {
					_, err = mutators[i+1].Mutate(root, _c.builders[i+1].mutation)
				} else {
					spec := &sqlgraph.BatchCreateSpec{Nodes: specs}
					// Invoke the actual operation on the latest mutation in the chain.
					if err = sqlgraph.BatchCreate(ctx, _c.driver, spec); err != nil {
						if sqlgraph.IsConstraintError(err) {
							err = &ConstraintError{msg: err.Error(), wrap: err}
						}
					}
				}
				if err != nil {
					return nil, err
				}
				mutation.id = &nodes[i].ID
				mutation.done = true
				return nodes[i], nil
			})
			for i := len(builder.hooks) - 1; i >= 0; i-- {
				mut = builder.hooks[i](mut)
			}
			mutators[i] = mut
		}(i, ctx)
	}
	if len(mutators) > 0 {
		if _, err := mutators[0].Mutate(ctx, _c.builders[0].mutation); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// SaveX is like Save, but panics if an error occurs.
func (_c *TaskCreateBulk) SaveX(ctx context.Context) []*Task {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *TaskCreateBulk) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *TaskCreateBulk) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}
