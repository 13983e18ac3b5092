package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hirelens/hirelens/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// The employee_crud tool parses every request into exactly one of the
// action variants below before any store call runs. Malformed shapes
// (unknown action, missing id or name) fail at construction, so the
// run methods only ever see valid payloads.

type crudAction interface {
	run(ctx context.Context, cfg ServerConfig) (*mcp.CallToolResult, error)
}

type createAction struct{ fields employeeFields }

type readAction struct{ id int64 }

type updateAction struct {
	id     int64
	fields employeeFields
}

type deleteAction struct{ id int64 }

// employeeFields is the optional field bag shared by create and
// update. Empty strings mean "not provided".
type employeeFields struct {
	name       string
	email      string
	phone      string
	department string
	position   string
	location   string
	skills     []string
}

func registerCrudTool(s *server.MCPServer, cfg ServerConfig) {
	tool := mcp.NewTool("employee_crud",
		mcp.WithDescription("Create, read, update, or delete one employee record. Create requires name; update and delete require id. Deletes are soft: the record leaves search and resolution but its audit trail survives."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("One of: create, read, update, delete"),
			mcp.Enum("create", "read", "update", "delete"),
		),
		mcp.WithNumber("id",
			mcp.Description("Employee id (required for read, update, delete)"),
		),
		mcp.WithString("name", mcp.Description("Full name (required for create)")),
		mcp.WithString("email", mcp.Description("Email address")),
		mcp.WithString("phone", mcp.Description("Phone number")),
		mcp.WithString("department", mcp.Description("Department name")),
		mcp.WithString("position", mcp.Description("Job title")),
		mcp.WithString("location", mcp.Description("City or 'remote'")),
		mcp.WithString("skills",
			mcp.Description("Comma-separated skill list, e.g. 'go, python, kubernetes'"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		act, err := parseCrudRequest(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return act.run(ctx, cfg)
	})
}

// parseCrudRequest validates the request shape and builds the matching
// action variant.
func parseCrudRequest(req mcp.CallToolRequest) (crudAction, error) {
	action, err := req.RequireString("action")
	if err != nil {
		return nil, fmt.Errorf("action is required")
	}

	var id int64
	if v, err := req.RequireFloat("id"); err == nil {
		id = int64(v)
	}
	fields := parseEmployeeFields(req)

	switch action {
	case "create":
		if fields.name == "" {
			return nil, fmt.Errorf("name is required for create")
		}
		return createAction{fields: fields}, nil
	case "read":
		if id == 0 {
			return nil, fmt.Errorf("id is required for read")
		}
		return readAction{id: id}, nil
	case "update":
		if id == 0 {
			return nil, fmt.Errorf("id is required for update")
		}
		return updateAction{id: id, fields: fields}, nil
	case "delete":
		if id == 0 {
			return nil, fmt.Errorf("id is required for delete")
		}
		return deleteAction{id: id}, nil
	default:
		return nil, fmt.Errorf("invalid action: %q", action)
	}
}

func parseEmployeeFields(req mcp.CallToolRequest) employeeFields {
	str := func(key string) string {
		if v, err := req.RequireString(key); err == nil {
			return strings.TrimSpace(v)
		}
		return ""
	}
	f := employeeFields{
		name:       str("name"),
		email:      str("email"),
		phone:      str("phone"),
		department: str("department"),
		position:   str("position"),
		location:   str("location"),
	}
	if v := str("skills"); v != "" {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				f.skills = append(f.skills, s)
			}
		}
	}
	return f
}

// apply copies the provided fields onto emp, leaving absent ones alone.
func (f employeeFields) apply(emp *store.Employee) {
	set := func(v string, dst *string) {
		if v != "" {
			*dst = v
		}
	}
	set(f.name, &emp.Name)
	set(f.email, &emp.Email)
	set(f.phone, &emp.Phone)
	set(f.department, &emp.Department)
	set(f.position, &emp.Position)
	set(f.location, &emp.Location)
	if len(f.skills) > 0 {
		emp.Skills = f.skills
	}
}

func (a createAction) run(ctx context.Context, cfg ServerConfig) (*mcp.CallToolResult, error) {
	emp := &store.Employee{}
	a.fields.apply(emp)

	id, err := cfg.Store.AddEmployee(ctx, emp)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("creating employee: %v", err)), nil
	}
	_ = cfg.Store.LogEvent(ctx, &store.IngestEvent{
		EventType: "create", EmployeeID: id, Detail: "manual create",
	})
	data, _ := json.MarshalIndent(map[string]any{
		"employee_id": id, "display_id": store.FormatDisplayID(id),
	}, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (a readAction) run(ctx context.Context, cfg ServerConfig) (*mcp.CallToolResult, error) {
	emp, err := cfg.Store.GetEmployee(ctx, a.id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, _ := json.MarshalIndent(emp, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (a updateAction) run(ctx context.Context, cfg ServerConfig) (*mcp.CallToolResult, error) {
	emp, err := cfg.Store.GetEmployee(ctx, a.id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a.fields.apply(emp)

	if err := cfg.Store.UpdateEmployee(ctx, emp); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("updating employee: %v", err)), nil
	}
	_ = cfg.Store.LogEvent(ctx, &store.IngestEvent{
		EventType: "update", EmployeeID: a.id,
	})
	data, _ := json.MarshalIndent(emp, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (a deleteAction) run(ctx context.Context, cfg ServerConfig) (*mcp.CallToolResult, error) {
	if err := cfg.Store.DeleteEmployee(ctx, a.id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if cfg.Index != nil {
		cfg.Index.Remove(a.id)
	}
	_ = cfg.Store.LogEvent(ctx, &store.IngestEvent{
		EventType: "delete", EmployeeID: a.id,
	})
	data, _ := json.MarshalIndent(map[string]any{
		"deleted": true, "employee_id": a.id,
	}, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}
