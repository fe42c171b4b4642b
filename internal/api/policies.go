package api

import "context"

// NetworkPolicyService calls the /v1/network_policies endpoints.
type NetworkPolicyService struct {
	client *Client
}

type networkPolicyListResponse struct {
	NetworkPolicies []NetworkPolicy `json:"network_policies"`
	HasMore         bool            `json:"has_more"`
	TotalCount      int64           `json:"total_count"`
}

// List returns one page of network policies.
func (s *NetworkPolicyService) List(ctx context.Context, opts ListOptions) (Page[NetworkPolicy], error) {
	var resp networkPolicyListResponse
	if err := s.client.get(ctx, "/v1/network_policies", opts.query(), &resp); err != nil {
		return Page[NetworkPolicy]{}, err
	}
	return newPage(resp.NetworkPolicies, resp.HasMore, resp.TotalCount, func(p NetworkPolicy) string { return p.ID }), nil
}

// Retrieve fetches a single network policy by id.
func (s *NetworkPolicyService) Retrieve(ctx context.Context, id string) (*NetworkPolicy, error) {
	var out NetworkPolicy
	if err := s.client.get(ctx, "/v1/network_policies/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a network policy.
func (s *NetworkPolicyService) Delete(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/v1/network_policies/"+id)
}

// BenchmarkService calls the /v1/benchmarks endpoints.
type BenchmarkService struct {
	client *Client
}

type benchmarkListResponse struct {
	Benchmarks []Benchmark `json:"benchmarks"`
	HasMore    bool        `json:"has_more"`
	TotalCount int64       `json:"total_count"`
}

// List returns one page of benchmark definitions.
func (s *BenchmarkService) List(ctx context.Context, opts ListOptions) (Page[Benchmark], error) {
	var resp benchmarkListResponse
	if err := s.client.get(ctx, "/v1/benchmarks", opts.query(), &resp); err != nil {
		return Page[Benchmark]{}, err
	}
	return newPage(resp.Benchmarks, resp.HasMore, resp.TotalCount, func(b Benchmark) string { return b.ID }), nil
}

// Retrieve fetches a single benchmark by id.
func (s *BenchmarkService) Retrieve(ctx context.Context, id string) (*Benchmark, error) {
	var out Benchmark
	if err := s.client.get(ctx, "/v1/benchmarks/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BenchmarkRunListOptions optionally scope the run listing to a benchmark.
type BenchmarkRunListOptions struct {
	ListOptions
	BenchmarkID string
}

type benchmarkRunListResponse struct {
	Runs       []BenchmarkRun `json:"runs"`
	HasMore    bool           `json:"has_more"`
	TotalCount int64          `json:"total_count"`
}

// ListRuns returns one page of benchmark runs (invocations).
func (s *BenchmarkService) ListRuns(ctx context.Context, opts BenchmarkRunListOptions) (Page[BenchmarkRun], error) {
	q := opts.query()
	if opts.BenchmarkID != "" {
		q.Set("benchmark_id", opts.BenchmarkID)
	}
	var resp benchmarkRunListResponse
	if err := s.client.get(ctx, "/v1/benchmarks/runs", q, &resp); err != nil {
		return Page[BenchmarkRun]{}, err
	}
	return newPage(resp.Runs, resp.HasMore, resp.TotalCount, func(r BenchmarkRun) string { return r.ID }), nil
}

// RetrieveRun fetches a single benchmark run by id.
func (s *BenchmarkService) RetrieveRun(ctx context.Context, id string) (*BenchmarkRun, error) {
	var out BenchmarkRun
	if err := s.client.get(ctx, "/v1/benchmarks/runs/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MCPConfigService calls the /v1/mcp_configs endpoints.
type MCPConfigService struct {
	client *Client
}

type mcpConfigListResponse struct {
	MCPConfigs []MCPConfig `json:"mcp_configs"`
	HasMore    bool        `json:"has_more"`
	TotalCount int64       `json:"total_count"`
}

// List returns one page of MCP gateway configurations.
func (s *MCPConfigService) List(ctx context.Context, opts ListOptions) (Page[MCPConfig], error) {
	var resp mcpConfigListResponse
	if err := s.client.get(ctx, "/v1/mcp_configs", opts.query(), &resp); err != nil {
		return Page[MCPConfig]{}, err
	}
	return newPage(resp.MCPConfigs, resp.HasMore, resp.TotalCount, func(c MCPConfig) string { return c.ID }), nil
}

// Retrieve fetches a single MCP configuration by id.
func (s *MCPConfigService) Retrieve(ctx context.Context, id string) (*MCPConfig, error) {
	var out MCPConfig
	if err := s.client.get(ctx, "/v1/mcp_configs/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GatewayConfigService calls the /v1/gateway_configs endpoints.
type GatewayConfigService struct {
	client *Client
}

type gatewayConfigListResponse struct {
	GatewayConfigs []GatewayConfig `json:"gateway_configs"`
	HasMore        bool            `json:"has_more"`
	TotalCount     int64           `json:"total_count"`
}

// List returns one page of gateway configurations.
func (s *GatewayConfigService) List(ctx context.Context, opts ListOptions) (Page[GatewayConfig], error) {
	var resp gatewayConfigListResponse
	if err := s.client.get(ctx, "/v1/gateway_configs", opts.query(), &resp); err != nil {
		return Page[GatewayConfig]{}, err
	}
	return newPage(resp.GatewayConfigs, resp.HasMore, resp.TotalCount, func(c GatewayConfig) string { return c.ID }), nil
}

// Retrieve fetches a single gateway configuration by id.
func (s *GatewayConfigService) Retrieve(ctx context.Context, id string) (*GatewayConfig, error) {
	var out GatewayConfig
	if err := s.client.get(ctx, "/v1/gateway_configs/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
