package api

import (
	"context"
	"fmt"
)

// BlueprintService calls the /v1/blueprints endpoints.
type BlueprintService struct {
	client *Client
}

// CreateBlueprintRequest are the parameters accepted by blueprint creation
// and preview.
type CreateBlueprintRequest struct {
	Name                string            `json:"name"`
	Dockerfile          string            `json:"dockerfile,omitempty"`
	SystemSetupCommands []string          `json:"system_setup_commands,omitempty"`
	LaunchParameters    *LaunchParameters `json:"launch_parameters,omitempty"`
}

// Validate checks locally enforceable constraints.
func (r *CreateBlueprintRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("blueprint name is required")
	}
	return nil
}

// Create starts building a new blueprint.
func (s *BlueprintService) Create(ctx context.Context, req CreateBlueprintRequest) (*Blueprint, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out Blueprint
	if err := s.client.post(ctx, "/v1/blueprints", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Preview returns the Dockerfile the platform would build for the request
// without actually building it.
func (s *BlueprintService) Preview(ctx context.Context, req CreateBlueprintRequest) (*Blueprint, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out Blueprint
	if err := s.client.post(ctx, "/v1/blueprints/preview", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BlueprintListOptions extend the shared cursor options with a name filter.
type BlueprintListOptions struct {
	ListOptions
	Name string
}

type blueprintListResponse struct {
	Blueprints []Blueprint `json:"blueprints"`
	HasMore    bool        `json:"has_more"`
	TotalCount int64       `json:"total_count"`
}

// List returns one page of blueprints.
func (s *BlueprintService) List(ctx context.Context, opts BlueprintListOptions) (Page[Blueprint], error) {
	q := opts.query()
	if opts.Name != "" {
		q.Set("name", opts.Name)
	}
	var resp blueprintListResponse
	if err := s.client.get(ctx, "/v1/blueprints", q, &resp); err != nil {
		return Page[Blueprint]{}, err
	}
	return newPage(resp.Blueprints, resp.HasMore, resp.TotalCount, func(b Blueprint) string { return b.ID }), nil
}

// Retrieve fetches a single blueprint by id.
func (s *BlueprintService) Retrieve(ctx context.Context, id string) (*Blueprint, error) {
	var out Blueprint
	if err := s.client.get(ctx, "/v1/blueprints/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type blueprintLogsResponse struct {
	Logs []BlueprintBuildLog `json:"logs"`
}

// Logs returns the build log for a blueprint.
func (s *BlueprintService) Logs(ctx context.Context, id string) ([]BlueprintBuildLog, error) {
	var resp blueprintLogsResponse
	if err := s.client.get(ctx, "/v1/blueprints/"+id+"/logs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

// Delete removes a blueprint. Devboxes already built from it are unaffected.
func (s *BlueprintService) Delete(ctx context.Context, id string) error {
	return s.client.post(ctx, "/v1/blueprints/"+id+"/delete", nil, nil)
}
