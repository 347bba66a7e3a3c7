// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/droverhq/drover/ent/event"
	"github.com/droverhq/drover/ent/predicate"
	"github.com/droverhq/drover/ent/task"
)

// TaskUpdate is the builder for updating Task entities.
type TaskUpdate struct {
	config
	hooks    []Hook
	mutation *TaskMutation
}

// Where appends a list predicates to the TaskUpdate builder.
func (_u *TaskUpdate) Where(ps ...predicate.Task) *TaskUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetAgentID sets the "agent_id" field.
func (_u *TaskUpdate) SetAgentID(v string) *TaskUpdate {
	_u.mutation.SetAgentID(v)
	return _u
}

// SetNillableAgentID sets the "agent_id" field if the given value is not nil.
func (_u *TaskUpdate) SetNillableAgentID(v *string) *TaskUpdate {
	if v != nil {
		_u.SetAgentID(*v)
	}
	return _u
}

// SetUserID sets the "user_id" field.
func (_u *TaskUpdate) SetUserID(v string) *TaskUpdate {
	_u.mutation.SetUserID(v)
	return _u
}

// SetNillableUserID sets the "user_id" field if the given value is not nil.
func (_u *TaskUpdate) SetNillableUserID(v *string) *TaskUpdate {
	if v != nil {
		_u.SetUserID(*v)
	}
	return _u
}

// SetWorkspaceID sets the "workspace_id" field.
func (_u *TaskUpdate) SetWorkspaceID(v string) *TaskUpdate {
	_u.mutation.SetWorkspaceID(v)
	return _u
}

// SetNillableWorkspaceID sets the "workspace_id" field if the given value is not nil.
func (_u *TaskUpdate) SetNillableWorkspaceID(v *string) *TaskUpdate {
	if v != nil {
		_u.SetWorkspaceID(*v)
	}
	return _u
}

// SetQuery sets the "query" field.
func (_u *TaskUpdate) SetQuery(v string) *TaskUpdate {
	_u.mutation.SetQuery(v)
	return _u
}

// SetNillableQuery sets the "query" field if the given value is not nil.
func (_u *TaskUpdate) SetNillableQuery(v *string) *TaskUpdate {
	if v != nil {
		_u.SetQuery(*v)
	}
	return _u
}

// SetParameters sets the "parameters" field.
func (_u *TaskUpdate) SetParameters(v map[string]interface{}) *TaskUpdate {
	_u.mutation.SetParameters(v)
	return _u
}

// ClearParameters clears the value of the "parameters" field.
func (_u *TaskUpdate) ClearParameters() *TaskUpdate {
	_u.mutation.ClearParameters()
	return _u
}

// SetStatus sets the "status" field.
func (_u *TaskUpdate) SetStatus(v task.Status) *TaskUpdate {
	_u.mutation.SetStatus(v)
	return _u
}

// SetNillableStatus sets the "status" field if the given value is not nil.
func (_u *TaskUpdate) SetNillableStatus(v *task.Status) *TaskUpdate {
	if v != nil {
		_u.SetStatus(*v)
	}
	return _u
}

// SetExecutionID sets the "execution_id" field.
func (_u *TaskUpdate) SetExecutionID(v string) *TaskUpdate {
	_u.mutation.SetExecutionID(v)
	return _u
}

// SetNillableExecutionID sets the "execution_id" field if the given value is not nil.
func (_u *TaskUpdate) SetNillableExecutionID(v *string) *TaskUpdate {
	if v != nil {
		_u.SetExecutionID(*v)
	}
	return _u
}

// ClearExecutionID clears the value of the "execution_id" field.
func (_u *TaskUpdate) ClearExecutionID() *TaskUpdate {
	_u.mutation.ClearExecutionID()
	return _u
}

// SetResult sets the "result" field.
func (_u *TaskUpdate) SetResult(v string) *TaskUpdate {
	_u.mutation.SetResult(v)
	return _u
}

// SetNillableResult sets the "result" field if the given value is not nil.
func (_u *TaskUpdate) SetNillableResult(v *string) *TaskUpdate {
	if v != nil {
		_u.SetResult(*v)
	}
	return _u
}

// ClearResult clears the value of the "result" field.
func (_u *TaskUpdate) ClearResult() *TaskUpdate {
	_u.mutation.ClearResult()
	return _u
}

// SetError sets the "error" field.
func (_u *TaskUpdate) SetError(v string) *TaskUpdate {
	_u.mutation.SetError(v)
	return _u
}

// SetNillableError sets the "error" field if the given value is not nil.
func (_u *TaskUpdate) SetNillableError(v *string) *TaskUpdate {
	if v != nil {
		_u.SetError(*v)
	}
	return _u
}

// ClearError clears the value of the "error" field.
func (_u *TaskUpdate) ClearError() *TaskUpdate {
	_u.mutation.ClearError()
	return _u
}

// SetErrorKind sets the "error_kind" field.
func (_u *TaskUpdate) SetErrorKind(v string) *TaskUpdate {
	_u.mutation.SetErrorKind(v)
	return _u
}

// SetNillableErrorKind sets the "error_kind" field if the given value is not nil.
func (_u *TaskUpdate) SetNillableErrorKind(v *string) *TaskUpdate {
	if v != nil {
		_u.SetErrorKind(*v)
	}
	return _u
}

// ClearErrorKind clears the value of the "error_kind" field.
func (_u *TaskUpdate) ClearErrorKind() *TaskUpdate {
	_u.mutation.ClearErrorKind()
	return _u
}

// SetCostAccrued sets the "cost_accrued" field.
func (_u *TaskUpdate) SetCostAccrued(v float64) *TaskUpdate {
	_u.mutation.ResetCostAccrued()
	_u.mutation.SetCostAccrued(v)
	return _u
}

// SetNillableCostAccrued sets the "cost_accrued" field if the given value is not nil.
func (_u *TaskUpdate) SetNillableCostAccrued(v *float64) *TaskUpdate {
	if v != nil {
		_u.SetCostAccrued(*v)
	}
	return _u
}

// AddCostAccrued adds value to the "cost_accrued" field.
func (_u *TaskUpdate) AddCostAccrued(v float64) *TaskUpdate {
	_u.mutation.AddCostAccrued(v)
	return _u
}

// SetBudgetUsd sets the "budget_usd" field.
func (_u *TaskUpdate) SetBudgetUsd(v float64) *TaskUpdate {
	_u.mutation.ResetBudgetUsd()
	_u.mutation.SetBudgetUsd(v)
	return _u
}

// SetNillableBudgetUsd sets the "budget_usd" field if the given value is not nil.
func (_u *TaskUpdate) SetNillableBudgetUsd(v *float64) *TaskUpdate {
	if v != nil {
		_u.SetBudgetUsd(*v)
	}
	return _u
}

// AddBudgetUsd adds value to the "budget_usd" field.
func (_u *TaskUpdate) AddBudgetUsd(v float64) *TaskUpdate {
	_u.mutation.AddBudgetUsd(v)
	return _u
}

// SetIterationsUsed sets the "iterations_used" field.
func (_u *TaskUpdate) SetIterationsUsed(v int) *TaskUpdate {
	_u.mutation.ResetIterationsUsed()
	_u.mutation.SetIterationsUsed(v)
	return _u
}

// SetNillableIterationsUsed sets the "iterations_used" field if the given value is not nil.
func (_u *TaskUpdate) SetNillableIterationsUsed(v *int) *TaskUpdate {
	if v != nil {
		_u.SetIterationsUsed(*v)
	}
	return _u
}

// AddIterationsUsed adds value to the "iterations_used" field.
func (_u *TaskUpdate) AddIterationsUsed(v int) *TaskUpdate {
	_u.mutation.AddIterationsUsed(v)
	return _u
}

// SetUpdatedAt sets the "updated_at" field.
func (_u *TaskUpdate) SetUpdatedAt(v time.Time) *TaskUpdate {
	_u.mutation.SetUpdatedAt(v)
	return _u
}

// SetStartedAt sets the "started_at" field.
func (_u *TaskUpdate) SetStartedAt(v time.Time) *TaskUpdate {
	_u.mutation.SetStartedAt(v)
	return _u
}

// SetNillableStartedAt sets the "started_at" field if the given value is not nil.
func (_u *TaskUpdate) SetNillableStartedAt(v *time.Time) *TaskUpdate {
	if v != nil {
		_u.SetStartedAt(*v)
	}
	return _u
}

// ClearStartedAt clears the value of the "started_at" field.
func (_u *TaskUpdate) ClearStartedAt() *TaskUpdate {
	_u.mutation.ClearStartedAt()
	return _u
}

// SetCompletedAt sets the "completed_at" field.
func (_u *TaskUpdate) SetCompletedAt(v time.Time) *TaskUpdate {
	_u.mutation.SetCompletedAt(v)
	return _u
}

// SetNillableCompletedAt sets the "completed_at" field if the given value is not nil.
func (_u *TaskUpdate) SetNillableCompletedAt(v *time.Time) *TaskUpdate {
	if v != nil {
		_u.SetCompletedAt(*v)
	}
	return _u
}

// ClearCompletedAt clears the value of the "completed_at" field.
func (_u *TaskUpdate) ClearCompletedAt() *TaskUpdate {
	_u.mutation.ClearCompletedAt()
	return _u
}

// AddEventIDs adds the "events" edge to the Event entity by IDs.
func (_u *TaskUpdate) AddEventIDs(ids ...int) *TaskUpdate {
	_u.mutation.AddEventIDs(ids...)
	return _u
}

// AddEvents adds the "events" edges to the Event entity.
func (_u *TaskUpdate) AddEvents(v ...*Event) *TaskUpdate {
	ids := make([]int, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.AddEventIDs(ids...)
}

// Mutation returns the TaskMutation object of the builder.
func (_u *TaskUpdate) Mutation() *TaskMutation {
	return _u.mutation
}

// ClearEvents clears all "events" edges to the Event entity.
func (_u *TaskUpdate) ClearEvents() *TaskUpdate {
	_u.mutation.ClearEvents()
	return _u
}

// RemoveEventIDs removes the "events" edge to Event entities by IDs.
func (_u *TaskUpdate) RemoveEventIDs(ids ...int) *TaskUpdate {
	_u.mutation.RemoveEventIDs(ids...)
	return _u
}

// RemoveEvents removes "events" edges to Event entities.
func (_u *TaskUpdate) RemoveEvents(v ...*Event) *TaskUpdate {
	ids := make([]int, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.RemoveEventIDs(ids...)
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *TaskUpdate) Save(ctx context.Context) (int, error) {
	_u.defaults()
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *TaskUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *TaskUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *TaskUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_u *TaskUpdate) defaults() {
	if _, ok := _u.mutation.UpdatedAt(); !ok {
		v := task.UpdateDefaultUpdatedAt()
		_u.mutation.SetUpdatedAt(v)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *TaskUpdate) check() error {
	if v, ok := _u.mutation.Status(); ok {
		if err := task.StatusValidator(v); err != nil {
			return &ValidationError{Name: "status", err: fmt.Errorf(`ent: validator failed for field "Task.status": %w`, err)}
		}
	}
	return nil
}

func (_u *TaskUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(task.Table, task.Columns, sqlgraph.NewFieldSpec(task.FieldID, field.TypeString))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.AgentID(); ok {
		_spec.SetField(task.FieldAgentID, field.TypeString, value)
	}
	if value, ok := _u.mutation.UserID(); ok {
		_spec.SetField(task.FieldUserID, field.TypeString, value)
	}
	if value, ok := _u.mutation.WorkspaceID(); ok {
		_spec.SetField(task.FieldWorkspaceID, field.TypeString, value)
	}
	if value, ok := _u.mutation.Query(); ok {
		_spec.SetField(task.FieldQuery, field.TypeString, value)
	}
	if value, ok := _u.mutation.Parameters(); ok {
		_spec.SetField(task.FieldParameters, field.TypeJSON, value)
	}
	if _u.mutation.ParametersCleared() {
		_spec.ClearField(task.FieldParameters, field.TypeJSON)
	}
	if value, ok := _u.mutation.Status(); ok {
		_spec.SetField(task.FieldStatus, field.TypeEnum, value)
	}
	if value, ok := _u.mutation.ExecutionID(); ok {
		_spec.SetField(task.FieldExecutionID, field.TypeString, value)
	}
	if _u.mutation.ExecutionIDCleared() {
		_spec.ClearField(task.FieldExecutionID, field.TypeString)
	}
	if value, ok := _u.mutation.Result(); ok {
		_spec.SetField(task.FieldResult, field.TypeString, value)
	}
	if _u.mutation.ResultCleared() {
		_spec.ClearField(task.FieldResult, field.TypeString)
	}
	if value, ok := _u.mutation.Error(); ok {
		_spec.SetField(task.FieldError, field.TypeString, value)
	}
	if _u.mutation.ErrorCleared() {
		_spec.ClearField(task.FieldError, field.TypeString)
	}
	if value, ok := _u.mutation.ErrorKind(); ok {
		_spec.SetField(task.FieldErrorKind, field.TypeString, value)
	}
	if _u.mutation.ErrorKindCleared() {
		_spec.ClearField(task.FieldErrorKind, field.TypeString)
	}
	if value, ok := _u.mutation.CostAccrued(); ok {
		_spec.SetField(task.FieldCostAccrued, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.AddedCostAccrued(); ok {
		_spec.AddField(task.FieldCostAccrued, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.BudgetUsd(); ok {
		_spec.SetField(task.FieldBudgetUsd, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.AddedBudgetUsd(); ok {
		_spec.AddField(task.FieldBudgetUsd, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.IterationsUsed(); ok {
		_spec.SetField(task.FieldIterationsUsed, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedIterationsUsed(); ok {
		_spec.AddField(task.FieldIterationsUsed, field.TypeInt, value)
	}
	if value, ok := _u.mutation.UpdatedAt(); ok {
		_spec.SetField(task.FieldUpdatedAt, field.TypeTime, value)
	}
	if value, ok := _u.mutation.StartedAt(); ok {
		_spec.SetField(task.FieldStartedAt, field.TypeTime, value)
	}
	if _u.mutation.StartedAtCleared() {
		_spec.ClearField(task.FieldStartedAt, field.TypeTime)
	}
	if value, ok := _u.mutation.CompletedAt(); ok {
		_spec.SetField(task.FieldCompletedAt, field.TypeTime, value)
	}
	if _u.mutation.CompletedAtCleared() {
		_spec.ClearField(task.FieldCompletedAt, field.TypeTime)
	}
	if _u.mutation.EventsCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.RemovedEventsIDs(); len(nodes) > 0 && !_u.mutation.EventsCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.EventsIDs(); len(nodes) > 0 {
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
		_spec.Edges.Add = append(_spec.Edges.Add, edge)
	}
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{task.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// TaskUpdateOne is the builder for updating a single Task entity.
type TaskUpdateOne struct {
	config
	fields   []string
	hooks    []Hook
	mutation *TaskMutation
}

// SetAgentID sets the "agent_id" field.
func (_u *TaskUpdateOne) SetAgentID(v string) *TaskUpdateOne {
	_u.mutation.SetAgentID(v)
	return _u
}

// SetNillableAgentID sets the "agent_id" field if the given value is not nil.
func (_u *TaskUpdateOne) SetNillableAgentID(v *string) *TaskUpdateOne {
	if v != nil {
		_u.SetAgentID(*v)
	}
	return _u
}

// SetUserID sets the "user_id" field.
func (_u *TaskUpdateOne) SetUserID(v string) *TaskUpdateOne {
	_u.mutation.SetUserID(v)
	return _u
}

// SetNillableUserID sets the "user_id" field if the given value is not nil.
func (_u *TaskUpdateOne) SetNillableUserID(v *string) *TaskUpdateOne {
	if v != nil {
		_u.SetUserID(*v)
	}
	return _u
}

// SetWorkspaceID sets the "workspace_id" field.
func (_u *TaskUpdateOne) SetWorkspaceID(v string) *TaskUpdateOne {
	_u.mutation.SetWorkspaceID(v)
	return _u
}

// SetNillableWorkspaceID sets the "workspace_id" field if the given value is not nil.
func (_u *TaskUpdateOne) SetNillableWorkspaceID(v *string) *TaskUpdateOne {
	if v != nil {
		_u.SetWorkspaceID(*v)
	}
	return _u
}

// SetQuery sets the "query" field.
func (_u *TaskUpdateOne) SetQuery(v string) *TaskUpdateOne {
	_u.mutation.SetQuery(v)
	return _u
}

// SetNillableQuery sets the "query" field if the given value is not nil.
func (_u *TaskUpdateOne) SetNillableQuery(v *string) *TaskUpdateOne {
	if v != nil {
		_u.SetQuery(*v)
	}
	return _u
}

// SetParameters sets the "parameters" field.
func (_u *TaskUpdateOne) SetParameters(v map[string]interface{}) *TaskUpdateOne {
	_u.mutation.SetParameters(v)
	return _u
}

// ClearParameters clears the value of the "parameters" field.
func (_u *TaskUpdateOne) ClearParameters() *TaskUpdateOne {
	_u.mutation.ClearParameters()
	return _u
}

// SetStatus sets the "status" field.
func (_u *TaskUpdateOne) SetStatus(v task.Status) *TaskUpdateOne {
	_u.mutation.SetStatus(v)
	return _u
}

// SetNillableStatus sets the "status" field if the given value is not nil.
func (_u *TaskUpdateOne) SetNillableStatus(v *task.Status) *TaskUpdateOne {
	if v != nil {
		_u.SetStatus(*v)
	}
	return _u
}

// SetExecutionID sets the "execution_id" field.
func (_u *TaskUpdateOne) SetExecutionID(v string) *TaskUpdateOne {
	_u.mutation.SetExecutionID(v)
	return _u
}

// SetNillableExecutionID sets the "execution_id" field if the given value is not nil.
func (_u *TaskUpdateOne) SetNillableExecutionID(v *string) *TaskUpdateOne {
	if v != nil {
		_u.SetExecutionID(*v)
	}
	return _u
}

// ClearExecutionID clears the value of the "execution_id" field.
func (_u *TaskUpdateOne) ClearExecutionID() *TaskUpdateOne {
	_u.mutation.ClearExecutionID()
	return _u
}

// SetResult sets the "result" field.
func (_u *TaskUpdateOne) SetResult(v string) *TaskUpdateOne {
	_u.mutation.SetResult(v)
	return _u
}

// SetNillableResult sets the "result" field if the given value is not nil.
func (_u *TaskUpdateOne) SetNillableResult(v *string) *TaskUpdateOne {
	if v != nil {
		_u.SetResult(*v)
	}
	return _u
}

// ClearResult clears the value of the "result" field.
func (_u *TaskUpdateOne) ClearResult() *TaskUpdateOne {
	_u.mutation.ClearResult()
	return _u
}

// SetError sets the "error" field.
func (_u *TaskUpdateOne) SetError(v string) *TaskUpdateOne {
	_u.mutation.SetError(v)
	return _u
}

// SetNillableError sets the "error" field if the given value is not nil.
func (_u *TaskUpdateOne) SetNillableError(v *string) *TaskUpdateOne {
	if v != nil {
		_u.SetError(*v)
	}
	return _u
}

// ClearError clears the value of the "error" field.
func (_u *TaskUpdateOne) ClearError() *TaskUpdateOne {
	_u.mutation.ClearError()
	return _u
}

// SetErrorKind sets the "error_kind" field.
func (_u *TaskUpdateOne) SetErrorKind(v string) *TaskUpdateOne {
	_u.mutation.SetErrorKind(v)
	return _u
}

// SetNillableErrorKind sets the "error_kind" field if the given value is not nil.
func (_u *TaskUpdateOne) SetNillableErrorKind(v *string) *TaskUpdateOne {
	if v != nil {
		_u.SetErrorKind(*v)
	}
	return _u
}

// ClearErrorKind clears the value of the "error_kind" field.
func (_u *TaskUpdateOne) ClearErrorKind() *TaskUpdateOne {
	_u.mutation.ClearErrorKind()
	return _u
}

// SetCostAccrued sets the "cost_accrued" field.
func (_u *TaskUpdateOne) SetCostAccrued(v float64) *TaskUpdateOne {
	_u.mutation.ResetCostAccrued()
	_u.mutation.SetCostAccrued(v)
	return _u
}

// SetNillableCostAccrued sets the "cost_accrued" field if the given value is not nil.
func (_u *TaskUpdateOne) SetNillableCostAccrued(v *float64) *TaskUpdateOne {
	if v != nil {
		_u.SetCostAccrued(*v)
	}
	return _u
}

// AddCostAccrued adds value to the "cost_accrued" field.
func (_u *TaskUpdateOne) AddCostAccrued(v float64) *TaskUpdateOne {
	_u.mutation.AddCostAccrued(v)
	return _u
}

// SetBudgetUsd sets the "budget_usd" field.
func (_u *TaskUpdateOne) SetBudgetUsd(v float64) *TaskUpdateOne {
	_u.mutation.ResetBudgetUsd()
	_u.mutation.SetBudgetUsd(v)
	return _u
}

// SetNillableBudgetUsd sets the "budget_usd" field if the given value is not nil.
func (_u *TaskUpdateOne) SetNillableBudgetUsd(v *float64) *TaskUpdateOne {
	if v != nil {
		_u.SetBudgetUsd(*v)
	}
	return _u
}

// AddBudgetUsd adds value to the "budget_usd" field.
func (_u *TaskUpdateOne) AddBudgetUsd(v float64) *TaskUpdateOne {
	_u.mutation.AddBudgetUsd(v)
	return _u
}

// SetIterationsUsed sets the "iterations_used" field.
func (_u *TaskUpdateOne) SetIterationsUsed(v int) *TaskUpdateOne {
	_u.mutation.ResetIterationsUsed()
	_u.mutation.SetIterationsUsed(v)
	return _u
}

// SetNillableIterationsUsed sets the "iterations_used" field if the given value is not nil.
func (_u *TaskUpdateOne) SetNillableIterationsUsed(v *int) *TaskUpdateOne {
	if v != nil {
		_u.SetIterationsUsed(*v)
	}
	return _u
}

// AddIterationsUsed adds value to the "iterations_used" field.
func (_u *TaskUpdateOne) AddIterationsUsed(v int) *TaskUpdateOne {
	_u.mutation.AddIterationsUsed(v)
	return _u
}

// SetUpdatedAt sets the "updated_at" field.
func (_u *TaskUpdateOne) SetUpdatedAt(v time.Time) *TaskUpdateOne {
	_u.mutation.SetUpdatedAt(v)
	return _u
}

// SetStartedAt sets the "started_at" field.
func (_u *TaskUpdateOne) SetStartedAt(v time.Time) *TaskUpdateOne {
	_u.mutation.SetStartedAt(v)
	return _u
}

// SetNillableStartedAt sets the "started_at" field if the given value is not nil.
func (_u *TaskUpdateOne) SetNillableStartedAt(v *time.Time) *TaskUpdateOne {
	if v != nil {
		_u.SetStartedAt(*v)
	}
	return _u
}

// ClearStartedAt clears the value of the "started_at" field.
func (_u *TaskUpdateOne) ClearStartedAt() *TaskUpdateOne {
	_u.mutation.ClearStartedAt()
	return _u
}

// SetCompletedAt sets the "completed_at" field.
func (_u *TaskUpdateOne) SetCompletedAt(v time.Time) *TaskUpdateOne {
	_u.mutation.SetCompletedAt(v)
	return _u
}

// SetNillableCompletedAt sets the "completed_at" field if the given value is not nil.
func (_u *TaskUpdateOne) SetNillableCompletedAt(v *time.Time) *TaskUpdateOne {
	if v != nil {
		_u.SetCompletedAt(*v)
	}
	return _u
}

// ClearCompletedAt clears the value of the "completed_at" field.
func (_u *TaskUpdateOne) ClearCompletedAt() *TaskUpdateOne {
	_u.mutation.ClearCompletedAt()
	return _u
}

// AddEventIDs adds the "events" edge to the Event entity by IDs.
func (_u *TaskUpdateOne) AddEventIDs(ids ...int) *TaskUpdateOne {
	_u.mutation.AddEventIDs(ids...)
	return _u
}

// AddEvents adds the "events" edges to the Event entity.
func (_u *TaskUpdateOne) AddEvents(v ...*Event) *TaskUpdateOne {
	ids := make([]int, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.AddEventIDs(ids...)
}

// Mutation returns the TaskMutation object of the builder.
func (_u *TaskUpdateOne) Mutation() *TaskMutation {
	return _u.mutation
}

// ClearEvents clears all "events" edges to the Event entity.
func (_u *TaskUpdateOne) ClearEvents() *TaskUpdateOne {
	_u.mutation.ClearEvents()
	return _u
}

// RemoveEventIDs removes the "events" edge to Event entities by IDs.
func (_u *TaskUpdateOne) RemoveEventIDs(ids ...int) *TaskUpdateOne {
	_u.mutation.RemoveEventIDs(ids...)
	return _u
}

// RemoveEvents removes "events" edges to Event entities.
func (_u *TaskUpdateOne) RemoveEvents(v ...*Event) *TaskUpdateOne {
	ids := make([]int, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.RemoveEventIDs(ids...)
}

// Where appends a list predicates to the TaskUpdate builder.
func (_u *TaskUpdateOne) Where(ps ...predicate.Task) *TaskUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *TaskUpdateOne) Select(field string, fields ...string) *TaskUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated Task entity.
func (_u *TaskUpdateOne) Save(ctx context.Context) (*Task, error) {
	_u.defaults()
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *TaskUpdateOne) SaveX(ctx context.Context) *Task {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *TaskUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *TaskUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_u *TaskUpdateOne) defaults() {
	if _, ok := _u.mutation.UpdatedAt(); !ok {
		v := task.UpdateDefaultUpdatedAt()
		_u.mutation.SetUpdatedAt(v)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *TaskUpdateOne) check() error {
	if v, ok := _u.mutation.Status(); ok {
		if err := task.StatusValidator(v); err != nil {
			return &ValidationError{Name: "status", err: fmt.Errorf(`ent: validator failed for field "Task.status": %w`, err)}
		}
	}
	return nil
}

func (_u *TaskUpdateOne) sqlSave(ctx context.Context) (_node *Task, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(task.Table, task.Columns, sqlgraph.NewFieldSpec(task.FieldID, field.TypeString))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "Task.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, task.FieldID)
		for _, f := range fields {
			if !task.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != task.FieldID {
				_spec.Node.Columns = append(_spec.Node.Columns, f)
			}
		}
	}
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.AgentID(); ok {
		_spec.SetField(task.FieldAgentID, field.TypeString, value)
	}
	if value, ok := _u.mutation.UserID(); ok {
		_spec.SetField(task.FieldUserID, field.TypeString, value)
	}
	if value, ok := _u.mutation.WorkspaceID(); ok {
		_spec.SetField(task.FieldWorkspaceID, field.TypeString, value)
	}
	if value, ok := _u.mutation.Query(); ok {
		_spec.SetField(task.FieldQuery, field.TypeString, value)
	}
	if value, ok := _u.mutation.Parameters(); ok {
		_spec.SetField(task.FieldParameters, field.TypeJSON, value)
	}
	if _u.mutation.ParametersCleared() {
		_spec.ClearField(task.FieldParameters, field.TypeJSON)
	}
	if value, ok := _u.mutation.Status(); ok {
		_spec.SetField(task.FieldStatus, field.TypeEnum, value)
	}
	if value, ok := _u.mutation.ExecutionID(); ok {
		_spec.SetField(task.FieldExecutionID, field.TypeString, value)
	}
	if _u.mutation.ExecutionIDCleared() {
		_spec.ClearField(task.FieldExecutionID, field.TypeString)
	}
	if value, ok := _u.mutation.Result(); ok {
		_spec.SetField(task.FieldResult, field.TypeString, value)
	}
	if _u.mutation.ResultCleared() {
		_spec.ClearField(task.FieldResult, field.TypeString)
	}
	if value, ok := _u.mutation.Error(); ok {
		_spec.SetField(task.FieldError, field.TypeString, value)
	}
	if _u.mutation.ErrorCleared() {
		_spec.ClearField(task.FieldError, field.TypeString)
	}
	if value, ok := _u.mutation.ErrorKind(); ok {
		_spec.SetField(task.FieldErrorKind, field.TypeString, value)
	}
	if _u.mutation.ErrorKindCleared() {
		_spec.ClearField(task.FieldErrorKind, field.TypeString)
	}
	if value, ok := _u.mutation.CostAccrued(); ok {
		_spec.SetField(task.FieldCostAccrued, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.AddedCostAccrued(); ok {
		_spec.AddField(task.FieldCostAccrued, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.BudgetUsd(); ok {
		_spec.SetField(task.FieldBudgetUsd, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.AddedBudgetUsd(); ok {
		_spec.AddField(task.FieldBudgetUsd, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.IterationsUsed(); ok {
		_spec.SetField(task.FieldIterationsUsed, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedIterationsUsed(); ok {
		_spec.AddField(task.FieldIterationsUsed, field.TypeInt, value)
	}
	if value, ok := _u.mutation.UpdatedAt(); ok {
		_spec.SetField(task.FieldUpdatedAt, field.TypeTime, value)
	}
	if value, ok := _u.mutation.StartedAt(); ok {
		_spec.SetField(task.FieldStartedAt, field.TypeTime, value)
	}
	if _u.mutation.StartedAtCleared() {
		_spec.ClearField(task.FieldStartedAt, field.TypeTime)
	}
	if value, ok := _u.mutation.CompletedAt(); ok {
		_spec.SetField(task.FieldCompletedAt, field.TypeTime, value)
	}
	if _u.mutation.CompletedAtCleared() {
		_spec.ClearField(task.FieldCompletedAt, field.TypeTime)
	}
	if _u.mutation.EventsCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.RemovedEventsIDs(); len(nodes) > 0 && !_u.mutation.EventsCleared() {
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
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.EventsIDs(); len(nodes) > 0 {
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
		_spec.Edges.Add = append(_spec.Edges.Add, edge)
	}
	_node = &Task{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{task.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
