// ABOUTME: MCP tool implementations for body-measurement records.
// ABOUTME: Exposes the six store operations as list, get, exists, add, update, delete tools.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/bodylog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 20

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_records",
		Description: "List body-measurement records, most recent last",
	}, s.handleListRecords)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_record",
		Description: "Get a single record by ID",
	}, s.handleGetRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "record_exists",
		Description: "Check whether a record with the given ID exists",
	}, s.handleRecordExists)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_record",
		Description: "Record weight (kg) and five circumferences (cm); all must be greater than 0",
	}, s.handleAddRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_record",
		Description: "Change one or more measurements of an existing record",
	}, s.handleUpdateRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_record",
		Description: "Delete a record by ID",
	}, s.handleDeleteRecord)
}

// Tool input/output types

type recordView struct {
	ID         int64   `json:"id"`
	Weight     float64 `json:"weight"`
	LeftBicep  float64 `json:"left_bicep"`
	RightBicep float64 `json:"right_bicep"`
	Waist      float64 `json:"waist"`
	Quadriceps float64 `json:"quadriceps"`
	Calves     float64 `json:"calves"`
	RecordedAt string  `json:"recorded_at,omitempty"`
}

func viewOf(r models.Record) recordView {
	v := recordView{
		ID:         r.ID,
		Weight:     r.Weight,
		LeftBicep:  r.LeftBicep,
		RightBicep: r.RightBicep,
		Waist:      r.Waist,
		Quadriceps: r.Quadriceps,
		Calves:     r.Calves,
	}
	if !r.RecordedAt.IsZero() {
		v.RecordedAt = r.RecordedAt.Format(time.RFC3339)
	}
	return v
}

type listRecordsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results, taken from the most recent (default 20)"`
}

type listRecordsOutput struct {
	Records []recordView `json:"records"`
	Total   int          `json:"total"`
	Message string       `json:"message"`
}

type idInput struct {
	ID int64 `json:"id" jsonschema:"Record ID"`
}

type recordOutput struct {
	Found   bool        `json:"found"`
	Record  *recordView `json:"record,omitempty"`
	Message string      `json:"message"`
}

type existsOutput struct {
	ID      int64  `json:"id"`
	Exists  bool   `json:"exists"`
	Message string `json:"message"`
}

type addRecordInput struct {
	Weight     float64 `json:"weight" jsonschema:"Body weight in kg"`
	LeftBicep  float64 `json:"left_bicep" jsonschema:"Left bicep circumference in cm"`
	RightBicep float64 `json:"right_bicep" jsonschema:"Right bicep circumference in cm"`
	Waist      float64 `json:"waist" jsonschema:"Waist circumference in cm"`
	Quadriceps float64 `json:"quadriceps" jsonschema:"Quadriceps circumference in cm"`
	Calves     float64 `json:"calves" jsonschema:"Calves circumference in cm"`
}

type updateRecordInput struct {
	ID         int64   `json:"id" jsonschema:"Record ID"`
	Weight     float64 `json:"weight,omitempty" jsonschema:"New weight in kg"`
	LeftBicep  float64 `json:"left_bicep,omitempty" jsonschema:"New left bicep in cm"`
	RightBicep float64 `json:"right_bicep,omitempty" jsonschema:"New right bicep in cm"`
	Waist      float64 `json:"waist,omitempty" jsonschema:"New waist in cm"`
	Quadriceps float64 `json:"quadriceps,omitempty" jsonschema:"New quadriceps in cm"`
	Calves     float64 `json:"calves,omitempty" jsonschema:"New calves in cm"`
}

func (in updateRecordInput) changes() map[string]float64 {
	all := map[string]float64{
		models.FieldWeight:     in.Weight,
		models.FieldLeftBicep:  in.LeftBicep,
		models.FieldRightBicep: in.RightBicep,
		models.FieldWaist:      in.Waist,
		models.FieldQuadriceps: in.Quadriceps,
		models.FieldCalves:     in.Calves,
	}
	for f, v := range all {
		if v == 0 {
			delete(all, f)
		}
	}
	return all
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleListRecords(ctx context.Context, req *mcp.CallToolRequest, input listRecordsInput) (*mcp.CallToolResult, listRecordsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}

	records := s.repo.List(ctx)
	total := len(records)
	if total > input.Limit {
		records = records[total-input.Limit:]
	}

	views := make([]recordView, 0, len(records))
	for _, r := range records {
		views = append(views, viewOf(r))
	}

	msg := fmt.Sprintf("Showing %d of %d records.", len(views), total)
	if total == 0 {
		msg = "No records found."
	}
	return nil, listRecordsOutput{Records: views, Total: total, Message: msg}, nil
}

func (s *Server) handleGetRecord(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, recordOutput, error) {
	r := &models.Record{ID: input.ID}
	found, err := s.repo.FindByID(ctx, r)
	if err != nil {
		return nil, recordOutput{}, err
	}
	if !found {
		return nil, recordOutput{Message: fmt.Sprintf("Record %d not found.", input.ID)}, nil
	}

	v := viewOf(*r)
	return nil, recordOutput{Found: true, Record: &v, Message: r.String()}, nil
}

func (s *Server) handleRecordExists(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, existsOutput, error) {
	exists, err := s.repo.Exists(ctx, input.ID)
	if err != nil {
		return nil, existsOutput{}, err
	}

	msg := fmt.Sprintf("Record %d exists.", input.ID)
	if !exists {
		msg = fmt.Sprintf("Record %d does not exist.", input.ID)
	}
	return nil, existsOutput{ID: input.ID, Exists: exists, Message: msg}, nil
}

func (s *Server) handleAddRecord(ctx context.Context, req *mcp.CallToolRequest, input addRecordInput) (*mcp.CallToolResult, recordOutput, error) {
	r, err := models.NewRecord(input.Weight, input.LeftBicep, input.RightBicep,
		input.Waist, input.Quadriceps, input.Calves)
	if err != nil {
		return nil, recordOutput{}, err
	}

	ok, err := s.repo.Insert(ctx, r)
	if err != nil {
		return nil, recordOutput{}, err
	}
	if !ok {
		return nil, recordOutput{}, fmt.Errorf("failed to save record")
	}

	v := viewOf(*r)
	return nil, recordOutput{
		Found:   true,
		Record:  &v,
		Message: fmt.Sprintf("Added record %d: %.2f kg", r.ID, r.Weight),
	}, nil
}

func (s *Server) handleUpdateRecord(ctx context.Context, req *mcp.CallToolRequest, input updateRecordInput) (*mcp.CallToolResult, recordOutput, error) {
	changes := input.changes()
	if len(changes) == 0 {
		return nil, recordOutput{}, fmt.Errorf("no measurements to update")
	}

	r := &models.Record{ID: input.ID}
	found, err := s.repo.FindByID(ctx, r)
	if err != nil {
		return nil, recordOutput{}, err
	}
	if !found {
		return nil, recordOutput{Message: fmt.Sprintf("Record %d not found.", input.ID)}, nil
	}

	for field, v := range changes {
		if err := r.Set(field, v); err != nil {
			return nil, recordOutput{}, err
		}
	}

	ok, err := s.repo.Update(ctx, r)
	if err != nil {
		return nil, recordOutput{}, err
	}
	if !ok {
		return nil, recordOutput{}, fmt.Errorf("failed to update record %d", input.ID)
	}

	v := viewOf(*r)
	return nil, recordOutput{
		Found:   true,
		Record:  &v,
		Message: fmt.Sprintf("Updated record %d (%d fields)", r.ID, len(changes)),
	}, nil
}

func (s *Server) handleDeleteRecord(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	ok, err := s.repo.Delete(ctx, &models.Record{ID: input.ID})
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if !ok {
		return nil, simpleOutput{}, fmt.Errorf("record %d not deleted", input.ID)
	}

	return nil, simpleOutput{Message: fmt.Sprintf("Deleted record %d", input.ID)}, nil
}
