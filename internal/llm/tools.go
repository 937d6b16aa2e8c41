package llm

// Tool names understood by the dispatcher.
const (
	ToolListCurrentTasks   = "list_current_tasks"
	ToolCreateTask         = "create_task"
	ToolUpdateTask         = "update_task"
	ToolGetTaskByName      = "get_task_by_name"
	ToolCreateDailyContext = "createDailyContext"
)

// TaskTools returns the fixed tool set. Each call builds a fresh copy so a
// request can never mutate the definitions another request sees.
func TaskTools() []Tool {
	return []Tool{
		{
			Name:        ToolListCurrentTasks,
			Description: "List tasks from Airtable 'Current tasks only' view.",
			InputSchema: objReq(nil),
		},
		{
			Name:        ToolCreateTask,
			Description: "Create a new task in Airtable.",
			InputSchema: objReq(map[string]any{
				"fields": anyObj(),
			}, "fields"),
		},
		{
			Name:        ToolUpdateTask,
			Description: "Update an existing task in Airtable by Record ID.",
			InputSchema: objReq(map[string]any{
				"record_id": typ("string"),
				"fields":    anyObj(),
			}, "record_id", "fields"),
		},
		{
			Name:        ToolGetTaskByName,
			Description: "Find a task by searching for its name or description in Airtable.",
			InputSchema: objReq(map[string]any{
				"task_name": typ("string"),
			}, "task_name"),
		},
		{
			Name:        ToolCreateDailyContext,
			Description: "Create a new entry in Airtable Daily Context table for mood, energy, or events.",
			InputSchema: objReq(map[string]any{
				"fields": objReq(map[string]any{
					"Entry Timestamp":           typ("string"),
					"Mood":                      typ("string"),
					"Availability":              typ("string"),
					"Weather":                   typ("string"),
					"Notes":                     typ("string"),
					"Mental Energy Available":   typ("string"),
					"Physical Energy Available": typ("string"),
					"Focus Level":               typ("string"),
				}, "Entry Timestamp"),
			}, "fields"),
		},
	}
}

// Helper functions for building JSON Schema objects.

func typ(t string) map[string]any {
	return map[string]any{"type": t}
}

func anyObj() map[string]any {
	return typ("object")
}

func obj(properties map[string]any) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

func objReq(properties map[string]any, required ...string) map[string]any {
	s := obj(properties)
	if required == nil {
		required = []string{}
	}
	s["required"] = required
	return s
}
