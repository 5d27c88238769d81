package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/hpungsan/molgraph/internal/config"
	"github.com/hpungsan/molgraph/internal/errors"
	"github.com/hpungsan/molgraph/internal/logging"
	"github.com/hpungsan/molgraph/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
	log *zap.SugaredLogger
}

// NewHandlers creates a new Handlers instance. A nil log discards output.
func NewHandlers(db *sql.DB, cfg *config.Config, log *zap.SugaredLogger) *Handlers {
	if log == nil {
		log = logging.Nop()
	}
	return &Handlers{db: db, cfg: cfg, log: log}
}

// Request types for each tool

// DecodeRequest represents the arguments for molecule_decode.
type DecodeRequest struct {
	Smiles string `json:"smiles"`
	Name   string `json:"name,omitempty"`
	Store  bool   `json:"store,omitempty"`
}

// FetchRequest represents the arguments for molecule_fetch.
type FetchRequest struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
	IncludeGraph   *bool  `json:"include_graph,omitempty"`
}

// ListRequest represents the arguments for molecule_list.
type ListRequest struct {
	BatchID        *string `json:"batch_id,omitempty"`
	Limit          int     `json:"limit,omitempty"`
	Offset         int     `json:"offset,omitempty"`
	IncludeDeleted bool    `json:"include_deleted,omitempty"`
}

// DeleteRequest represents the arguments for molecule_delete.
type DeleteRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// PurgeRequest represents the arguments for molecule_purge.
type PurgeRequest struct {
	OlderThanDays *int `json:"older_than_days,omitempty"`
}

// ExportRequest represents the arguments for molecule_export.
type ExportRequest struct {
	Path           string  `json:"path,omitempty"`
	Format         string  `json:"format,omitempty"`
	BatchID        *string `json:"batch_id,omitempty"`
	IncludeDeleted bool    `json:"include_deleted,omitempty"`
}

// BatchRunRequest represents the arguments for batch_run.
type BatchRunRequest struct {
	Path    string `json:"path"`
	Workers int    `json:"workers,omitempty"`
}

// BatchFailuresRequest represents the arguments for batch_failures.
type BatchFailuresRequest struct {
	BatchID string `json:"batch_id"`
}

// Handler implementations

// HandleDecode handles the molecule_decode tool call.
func (h *Handlers) HandleDecode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DecodeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Decode(ctx, h.db, h.cfg, ops.DecodeInput{
		SMILES: input.Smiles,
		Name:   input.Name,
		Store:  input.Store,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the molecule_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(ctx, h.db, ops.FetchInput{
		ID:             input.ID,
		Name:           input.Name,
		IncludeDeleted: input.IncludeDeleted,
		IncludeGraph:   input.IncludeGraph,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the molecule_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.db, ops.ListInput{
		BatchID:        input.BatchID,
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the molecule_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(ctx, h.db, ops.DeleteInput{
		ID:   input.ID,
		Name: input.Name,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePurge handles the molecule_purge tool call.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PurgeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Purge(ctx, h.db, ops.PurgeInput{OlderThanDays: input.OlderThanDays})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the molecule_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{
		Path:           input.Path,
		Format:         ops.ExportFormat(strings.ToLower(strings.TrimSpace(input.Format))),
		BatchID:        input.BatchID,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBatchRun handles the batch_run tool call.
func (h *Handlers) HandleBatchRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BatchRunRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Batch(ctx, h.db, h.cfg, h.log, ops.BatchInput{
		Path:    input.Path,
		Workers: input.Workers,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBatchFailures handles the batch_failures tool call.
func (h *Handlers) HandleBatchFailures(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BatchFailuresRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Failures(ctx, h.db, ops.FailuresInput{BatchID: input.BatchID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// INTERNAL details are never exposed; they may carry paths or SQL.
func errorResult(err error) *mcp.CallToolResult {
	errorObj := map[string]any{
		"code":    string(errors.ErrInternal),
		"message": "an internal error occurred",
		"status":  500,
	}

	if molErr, ok := errors.As(err); ok {
		// Keep wrapper context such as "row 3: ..." in front of the message
		prefix := strings.TrimSuffix(err.Error(), molErr.Error())
		errorObj["code"] = string(molErr.Code)
		errorObj["message"] = prefix + molErr.Message
		errorObj["status"] = molErr.Status
		if molErr.Code != errors.ErrInternal && molErr.Details != nil {
			errorObj["details"] = molErr.Details
		}
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
