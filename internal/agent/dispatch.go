package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/chris/taskrelay/internal/llm"
	"github.com/tidwall/gjson"
)

const (
	TasksTable        = "GPT master list"
	CurrentTasksView  = "Current tasks only"
	DailyContextTable = "Daily Context"

	entryTimestampField = "Entry Timestamp"
)

var (
	ErrUnsupportedTool = errors.New("unsupported tool")
	ErrInvalidInput    = errors.New("invalid tool input")
)

// RecordStore is the subset of the Airtable client the tools need.
type RecordStore interface {
	List(ctx context.Context, table string, query url.Values) (json.RawMessage, error)
	Create(ctx context.Context, table string, fields json.RawMessage) (json.RawMessage, error)
	Update(ctx context.Context, table, recordID string, fields json.RawMessage) (json.RawMessage, error)
}

type Dispatcher struct {
	store RecordStore
}

func NewDispatcher(store RecordStore) *Dispatcher {
	return &Dispatcher{store: store}
}

// Dispatch maps a tool call onto one record store request and returns the
// store's response body.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, input json.RawMessage) (json.RawMessage, error) {
	if len(input) > 0 && !gjson.ValidBytes(input) {
		return nil, fmt.Errorf("%w: %s: malformed JSON", ErrInvalidInput, name)
	}

	switch name {
	case llm.ToolListCurrentTasks:
		return d.store.List(ctx, TasksTable, url.Values{"view": {CurrentTasksView}})

	case llm.ToolCreateTask:
		fields, ok := getObject(input, "fields")
		if !ok {
			return nil, fmt.Errorf("%w: %s: fields must be an object", ErrInvalidInput, name)
		}
		return d.store.Create(ctx, TasksTable, fields)

	case llm.ToolUpdateTask:
		recordID, ok := getString(input, "record_id")
		if !ok || recordID == "" {
			return nil, fmt.Errorf("%w: %s: record_id is required", ErrInvalidInput, name)
		}
		fields, ok := getObject(input, "fields")
		if !ok {
			return nil, fmt.Errorf("%w: %s: fields must be an object", ErrInvalidInput, name)
		}
		return d.store.Update(ctx, TasksTable, recordID, fields)

	case llm.ToolGetTaskByName:
		taskName, ok := getString(input, "task_name")
		if !ok {
			return nil, fmt.Errorf("%w: %s: task_name is required", ErrInvalidInput, name)
		}
		query := url.Values{}
		query.Set("view", CurrentTasksView)
		query.Set("filterByFormula", SearchFormula(taskName))
		return d.store.List(ctx, TasksTable, query)

	case llm.ToolCreateDailyContext:
		fields, ok := getObject(input, "fields")
		if !ok {
			return nil, fmt.Errorf("%w: %s: fields must be an object", ErrInvalidInput, name)
		}
		if !gjson.GetBytes(fields, entryTimestampField).Exists() {
			return nil, fmt.Errorf("%w: %s: fields.%s is required", ErrInvalidInput, name, entryTimestampField)
		}
		return d.store.Create(ctx, DailyContextTable, fields)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTool, name)
	}
}

var formulaQuoter = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// SearchFormula builds a case-insensitive substring match on the task name.
func SearchFormula(taskName string) string {
	return fmt.Sprintf("SEARCH(LOWER('%s'), LOWER({Task Name}))", formulaQuoter.Replace(taskName))
}

// Param extraction helpers. Input is the raw tool-use JSON from the model.

func getString(input json.RawMessage, key string) (string, bool) {
	r := gjson.GetBytes(input, key)
	if r.Type != gjson.String {
		return "", false
	}
	return r.String(), true
}

func getObject(input json.RawMessage, key string) (json.RawMessage, bool) {
	r := gjson.GetBytes(input, key)
	if !r.IsObject() {
		return nil, false
	}
	return json.RawMessage(r.Raw), true
}
