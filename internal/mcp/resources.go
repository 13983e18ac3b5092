package mcp

import (
	"context"
	"encoding/json"

	"github.com/hirelens/hirelens/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerStatsResource(s *server.MCPServer, cfg ServerConfig) {
	resource := mcp.NewResource(
		"hirelens://stats",
		"Catalog Statistics",
		mcp.WithResourceDescription("Employee counts, per-department headcount, ingest event counts, and storage size."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		data, err := statsPayload(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}

func registerRecentResource(s *server.MCPServer, st store.Store) {
	resource := mcp.NewResource(
		"hirelens://employees/recent",
		"Recent Employees",
		mcp.WithResourceDescription("The 20 most recently ingested employees."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		employees, err := st.ListEmployees(ctx, store.ListOpts{Limit: 100000})
		if err != nil {
			return nil, err
		}
		// ListEmployees returns id order; take the tail, newest first.
		n := 20
		if len(employees) < n {
			n = len(employees)
		}
		recent := make([]map[string]any, 0, n)
		for i := len(employees) - 1; i >= len(employees)-n; i-- {
			e := employees[i]
			recent = append(recent, map[string]any{
				"employee_id": e.ID,
				"display_id":  e.DisplayID(),
				"name":        e.Name,
				"position":    e.Position,
				"department":  e.Department,
				"created_at":  e.CreatedAt,
			})
		}

		data, _ := json.MarshalIndent(map[string]any{
			"employees": recent,
			"count":     len(recent),
		}, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}
