package mcp

import (
	"database/sql"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/hpungsan/molgraph/internal/config"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"molecule", "batch"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"molecule_decode": {def: decodeToolDef, handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDecode }},
	"molecule_fetch":  {def: fetchToolDef, handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch }},
	"molecule_list":   {def: listToolDef, handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList }},
	"molecule_delete": {def: deleteToolDef, handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete }},
	"molecule_purge":  {def: purgeToolDef, handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePurge }},
	"molecule_export": {def: exportToolDef, handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport }},
	"batch_run":       {def: batchRunToolDef, handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBatchRun }},
	"batch_failures":  {def: batchFailuresToolDef, handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBatchFailures }},
}

// AllToolNames returns every tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if !slices.Contains(KnownTypes, name) {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "batch_run" → "batch").
func GetTypeForTool(toolName string) string {
	if typ, _, ok := strings.Cut(toolName, "_"); ok && typ != "" {
		return typ
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	tools := make([]string, 0)
	for _, name := range AllToolNames() {
		if slices.Contains(types, GetTypeForTool(name)) {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates an MCP server with the molgraph tools registered.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, log *zap.SugaredLogger, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"molgraph",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg, log)

	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for _, name := range AllToolNames() {
		if disabled[name] {
			continue
		}
		entry := toolRegistry[name]
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, log *zap.SugaredLogger, version string) error {
	s := NewServer(db, cfg, log, version)
	return server.ServeStdio(s)
}
