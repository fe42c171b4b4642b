package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/runloopai/rl-cli-sub001/internal/api"
)

// column describes one list column. Width is resolved at render time:
// fixed columns keep their Width, a single zero-width column absorbs
// the remaining space.
type column struct {
	Title string
	Width int
}

// rowData is one list row plus the identity the detail page needs.
type rowData struct {
	ID     string
	Cells  []string
	Status string
}

// kindPage is the kind-independent shape a list fetch produces.
type kindPage struct {
	Rows       []rowData
	NextCursor string
	TotalCount int64
}

// resourceKind wires one API resource into the browser: its columns,
// how to fetch a page, how to fetch a detail blob, and which actions
// apply to a selected row.
type resourceKind struct {
	Name    string // cache key and tab label, e.g. "devboxes"
	Title   string
	Columns []column

	// DashboardPath is appended to the dashboard URL for 'o'.
	DashboardPath string

	Fetch  func(ctx context.Context, c *api.Client, opts api.ListOptions) (kindPage, error)
	Detail func(ctx context.Context, c *api.Client, id string) ([]detailField, error)

	// CanDelete enables the 'x' action with the given verb.
	Delete func(ctx context.Context, c *api.Client, id string) error

	// Lifecycle actions, nil when the kind has none.
	Suspend  func(ctx context.Context, c *api.Client, id string) error
	Resume   func(ctx context.Context, c *api.Client, id string) error
	Shutdown func(ctx context.Context, c *api.Client, id string) error

	// HasLogs enables the 'l' log viewer.
	HasLogs bool
}

// detailField is one label/value line on the detail page.
type detailField struct {
	Label string
	Value string
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max <= 1 {
		return runewidth.Truncate(s, max, "")
	}
	return runewidth.Truncate(s, max, "…")
}

func formatTimeMs(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// resourceKinds builds the registry in tab order.
func resourceKinds() []resourceKind {
	return []resourceKind{
		devboxKind(),
		blueprintKind(),
		snapshotKind(),
		objectKind(),
		networkPolicyKind(),
		benchmarkKind(),
		invocationKind(),
		mcpConfigKind(),
		gatewayConfigKind(),
	}
}

func devboxKind() resourceKind {
	return resourceKind{
		Name:          "devboxes",
		Title:         "Devboxes",
		DashboardPath: "devboxes",
		Columns: []column{
			{Title: "ID", Width: 28},
			{Title: "Name", Width: 0},
			{Title: "Status", Width: 14},
			{Title: "Created", Width: 17},
		},
		Fetch: func(ctx context.Context, c *api.Client, opts api.ListOptions) (kindPage, error) {
			page, err := c.Devboxes.List(ctx, api.DevboxListOptions{ListOptions: opts})
			if err != nil {
				return kindPage{}, err
			}
			rows := make([]rowData, 0, len(page.Items))
			for _, d := range page.Items {
				rows = append(rows, rowData{
					ID:     d.ID,
					Status: d.Status,
					Cells:  []string{d.ID, dash(d.Name), d.Status, formatTimeMs(d.CreateTimeMs)},
				})
			}
			return kindPage{Rows: rows, NextCursor: page.NextCursor(), TotalCount: page.TotalCount}, nil
		},
		Detail: func(ctx context.Context, c *api.Client, id string) ([]detailField, error) {
			d, err := c.Devboxes.Retrieve(ctx, id)
			if err != nil {
				return nil, err
			}
			fields := []detailField{
				{"ID", d.ID},
				{"Name", dash(d.Name)},
				{"Status", d.Status},
				{"Created", formatTimeMs(d.CreateTimeMs)},
				{"Blueprint", dash(d.BlueprintID)},
				{"Snapshot", dash(d.SnapshotID)},
				{"User", d.Username()},
			}
			if d.LaunchParameters.Architecture != "" {
				fields = append(fields, detailField{"Architecture", d.LaunchParameters.Architecture})
			}
			if d.LaunchParameters.ResourceSizeRequest != "" {
				fields = append(fields, detailField{"Size", d.LaunchParameters.ResourceSizeRequest})
			}
			if d.FailureReason != "" {
				fields = append(fields, detailField{"Failure", d.FailureReason})
			}
			return fields, nil
		},
		Suspend: func(ctx context.Context, c *api.Client, id string) error {
			_, err := c.Devboxes.Suspend(ctx, id)
			return err
		},
		Resume: func(ctx context.Context, c *api.Client, id string) error {
			_, err := c.Devboxes.Resume(ctx, id)
			return err
		},
		Shutdown: func(ctx context.Context, c *api.Client, id string) error {
			_, err := c.Devboxes.Shutdown(ctx, id)
			return err
		},
		HasLogs: true,
	}
}

func blueprintKind() resourceKind {
	return resourceKind{
		Name:          "blueprints",
		Title:         "Blueprints",
		DashboardPath: "blueprints",
		Columns: []column{
			{Title: "ID", Width: 28},
			{Title: "Name", Width: 0},
			{Title: "Status", Width: 16},
			{Title: "Created", Width: 17},
		},
		Fetch: func(ctx context.Context, c *api.Client, opts api.ListOptions) (kindPage, error) {
			page, err := c.Blueprints.List(ctx, api.BlueprintListOptions{ListOptions: opts})
			if err != nil {
				return kindPage{}, err
			}
			rows := make([]rowData, 0, len(page.Items))
			for _, b := range page.Items {
				rows = append(rows, rowData{
					ID:     b.ID,
					Status: b.Status,
					Cells:  []string{b.ID, dash(b.Name), b.Status, formatTimeMs(b.CreateTimeMs)},
				})
			}
			return kindPage{Rows: rows, NextCursor: page.NextCursor(), TotalCount: page.TotalCount}, nil
		},
		Detail: func(ctx context.Context, c *api.Client, id string) ([]detailField, error) {
			b, err := c.Blueprints.Retrieve(ctx, id)
			if err != nil {
				return nil, err
			}
			fields := []detailField{
				{"ID", b.ID},
				{"Name", dash(b.Name)},
				{"Status", b.Status},
				{"Created", formatTimeMs(b.CreateTimeMs)},
			}
			if b.FailureReason != "" {
				fields = append(fields, detailField{"Failure", b.FailureReason})
			}
			return fields, nil
		},
		Delete: func(ctx context.Context, c *api.Client, id string) error {
			return c.Blueprints.Delete(ctx, id)
		},
		HasLogs: true,
	}
}

func snapshotKind() resourceKind {
	return resourceKind{
		Name:          "snapshots",
		Title:         "Snapshots",
		DashboardPath: "snapshots",
		Columns: []column{
			{Title: "ID", Width: 28},
			{Title: "Name", Width: 0},
			{Title: "Devbox", Width: 28},
			{Title: "Status", Width: 12},
		},
		Fetch: func(ctx context.Context, c *api.Client, opts api.ListOptions) (kindPage, error) {
			page, err := c.Devboxes.ListDiskSnapshots(ctx, api.SnapshotListOptions{ListOptions: opts})
			if err != nil {
				return kindPage{}, err
			}
			rows := make([]rowData, 0, len(page.Items))
			for _, s := range page.Items {
				rows = append(rows, rowData{
					ID:     s.ID,
					Status: s.Status,
					Cells:  []string{s.ID, dash(s.Name), dash(s.DevboxID), dash(s.Status)},
				})
			}
			return kindPage{Rows: rows, NextCursor: page.NextCursor(), TotalCount: page.TotalCount}, nil
		},
		Detail: func(ctx context.Context, c *api.Client, id string) ([]detailField, error) {
			s, err := c.Devboxes.SnapshotStatus(ctx, id)
			if err != nil {
				return nil, err
			}
			return []detailField{
				{"ID", s.ID},
				{"Name", dash(s.Name)},
				{"Devbox", dash(s.DevboxID)},
				{"Status", dash(s.Status)},
				{"Created", formatTimeMs(s.CreateTimeMs)},
			}, nil
		},
		Delete: func(ctx context.Context, c *api.Client, id string) error {
			return c.Devboxes.DeleteDiskSnapshot(ctx, id)
		},
	}
}

func objectKind() resourceKind {
	return resourceKind{
		Name:          "objects",
		Title:         "Objects",
		DashboardPath: "objects",
		Columns: []column{
			{Title: "ID", Width: 28},
			{Title: "Name", Width: 0},
			{Title: "Type", Width: 20},
			{Title: "Size", Width: 10},
			{Title: "State", Width: 10},
		},
		Fetch: func(ctx context.Context, c *api.Client, opts api.ListOptions) (kindPage, error) {
			page, err := c.Objects.List(ctx, api.ObjectListOptions{ListOptions: opts})
			if err != nil {
				return kindPage{}, err
			}
			rows := make([]rowData, 0, len(page.Items))
			for _, o := range page.Items {
				rows = append(rows, rowData{
					ID:     o.ID,
					Status: o.State,
					Cells:  []string{o.ID, dash(o.Name), dash(o.ContentType), formatBytes(o.SizeBytes), dash(o.State)},
				})
			}
			return kindPage{Rows: rows, NextCursor: page.NextCursor(), TotalCount: page.TotalCount}, nil
		},
		Detail: func(ctx context.Context, c *api.Client, id string) ([]detailField, error) {
			o, err := c.Objects.Retrieve(ctx, id)
			if err != nil {
				return nil, err
			}
			return []detailField{
				{"ID", o.ID},
				{"Name", dash(o.Name)},
				{"Content type", dash(o.ContentType)},
				{"Size", formatBytes(o.SizeBytes)},
				{"State", dash(o.State)},
				{"Public", fmt.Sprintf("%t", o.IsPublic)},
			}, nil
		},
		Delete: func(ctx context.Context, c *api.Client, id string) error {
			return c.Objects.Delete(ctx, id)
		},
	}
}

func networkPolicyKind() resourceKind {
	return resourceKind{
		Name:          "netpolicies",
		Title:         "Network Policies",
		DashboardPath: "network-policies",
		Columns: []column{
			{Title: "ID", Width: 28},
			{Title: "Name", Width: 0},
			{Title: "Created", Width: 17},
		},
		Fetch: func(ctx context.Context, c *api.Client, opts api.ListOptions) (kindPage, error) {
			page, err := c.NetworkPolicies.List(ctx, opts)
			if err != nil {
				return kindPage{}, err
			}
			rows := make([]rowData, 0, len(page.Items))
			for _, p := range page.Items {
				rows = append(rows, rowData{
					ID:    p.ID,
					Cells: []string{p.ID, dash(p.Name), formatTimeMs(p.CreateTimeMs)},
				})
			}
			return kindPage{Rows: rows, NextCursor: page.NextCursor(), TotalCount: page.TotalCount}, nil
		},
		Detail: func(ctx context.Context, c *api.Client, id string) ([]detailField, error) {
			p, err := c.NetworkPolicies.Retrieve(ctx, id)
			if err != nil {
				return nil, err
			}
			fields := []detailField{
				{"ID", p.ID},
				{"Name", dash(p.Name)},
				{"Created", formatTimeMs(p.CreateTimeMs)},
			}
			for _, host := range p.AllowedHosts {
				fields = append(fields, detailField{"Allowed", host})
			}
			for _, host := range p.DeniedHosts {
				fields = append(fields, detailField{"Denied", host})
			}
			return fields, nil
		},
		Delete: func(ctx context.Context, c *api.Client, id string) error {
			return c.NetworkPolicies.Delete(ctx, id)
		},
	}
}

func benchmarkKind() resourceKind {
	return resourceKind{
		Name:          "benchmarks",
		Title:         "Benchmarks",
		DashboardPath: "benchmarks",
		Columns: []column{
			{Title: "ID", Width: 28},
			{Title: "Name", Width: 0},
			{Title: "Scenarios", Width: 10},
		},
		Fetch: func(ctx context.Context, c *api.Client, opts api.ListOptions) (kindPage, error) {
			page, err := c.Benchmarks.List(ctx, opts)
			if err != nil {
				return kindPage{}, err
			}
			rows := make([]rowData, 0, len(page.Items))
			for _, b := range page.Items {
				rows = append(rows, rowData{
					ID:    b.ID,
					Cells: []string{b.ID, dash(b.Name), fmt.Sprintf("%d", len(b.ScenarioIDs))},
				})
			}
			return kindPage{Rows: rows, NextCursor: page.NextCursor(), TotalCount: page.TotalCount}, nil
		},
		Detail: func(ctx context.Context, c *api.Client, id string) ([]detailField, error) {
			b, err := c.Benchmarks.Retrieve(ctx, id)
			if err != nil {
				return nil, err
			}
			return []detailField{
				{"ID", b.ID},
				{"Name", dash(b.Name)},
				{"Scenarios", fmt.Sprintf("%d", len(b.ScenarioIDs))},
				{"Created", formatTimeMs(b.CreateTimeMs)},
			}, nil
		},
	}
}

func invocationKind() resourceKind {
	return resourceKind{
		Name:          "invocations",
		Title:         "Invocations",
		DashboardPath: "benchmark-runs",
		Columns: []column{
			{Title: "ID", Width: 28},
			{Title: "Benchmark", Width: 0},
			{Title: "Status", Width: 14},
			{Title: "Started", Width: 17},
		},
		Fetch: func(ctx context.Context, c *api.Client, opts api.ListOptions) (kindPage, error) {
			page, err := c.Benchmarks.ListRuns(ctx, api.BenchmarkRunListOptions{ListOptions: opts})
			if err != nil {
				return kindPage{}, err
			}
			rows := make([]rowData, 0, len(page.Items))
			for _, r := range page.Items {
				rows = append(rows, rowData{
					ID:     r.ID,
					Status: r.Status,
					Cells:  []string{r.ID, dash(r.BenchmarkID), dash(r.Status), formatTimeMs(r.StartTimeMs)},
				})
			}
			return kindPage{Rows: rows, NextCursor: page.NextCursor(), TotalCount: page.TotalCount}, nil
		},
		Detail: func(ctx context.Context, c *api.Client, id string) ([]detailField, error) {
			r, err := c.Benchmarks.RetrieveRun(ctx, id)
			if err != nil {
				return nil, err
			}
			fields := []detailField{
				{"ID", r.ID},
				{"Benchmark", dash(r.BenchmarkID)},
				{"Status", dash(r.Status)},
				{"Started", formatTimeMs(r.StartTimeMs)},
			}
			if r.Score != nil {
				fields = append(fields, detailField{"Score", fmt.Sprintf("%.3f", *r.Score)})
			}
			return fields, nil
		},
	}
}

func mcpConfigKind() resourceKind {
	return resourceKind{
		Name:          "mcpconfigs",
		Title:         "MCP Configs",
		DashboardPath: "settings/mcp",
		Columns: []column{
			{Title: "ID", Width: 28},
			{Title: "Name", Width: 0},
			{Title: "Created", Width: 17},
		},
		Fetch: func(ctx context.Context, c *api.Client, opts api.ListOptions) (kindPage, error) {
			page, err := c.MCPConfigs.List(ctx, opts)
			if err != nil {
				return kindPage{}, err
			}
			rows := make([]rowData, 0, len(page.Items))
			for _, m := range page.Items {
				rows = append(rows, rowData{
					ID:    m.ID,
					Cells: []string{m.ID, dash(m.Name), formatTimeMs(m.CreateTimeMs)},
				})
			}
			return kindPage{Rows: rows, NextCursor: page.NextCursor(), TotalCount: page.TotalCount}, nil
		},
		Detail: func(ctx context.Context, c *api.Client, id string) ([]detailField, error) {
			m, err := c.MCPConfigs.Retrieve(ctx, id)
			if err != nil {
				return nil, err
			}
			return []detailField{
				{"ID", m.ID},
				{"Name", dash(m.Name)},
				{"Created", formatTimeMs(m.CreateTimeMs)},
			}, nil
		},
	}
}

func gatewayConfigKind() resourceKind {
	return resourceKind{
		Name:          "gatewayconfigs",
		Title:         "Gateway Configs",
		DashboardPath: "settings/gateway",
		Columns: []column{
			{Title: "ID", Width: 28},
			{Title: "Name", Width: 0},
			{Title: "Created", Width: 17},
		},
		Fetch: func(ctx context.Context, c *api.Client, opts api.ListOptions) (kindPage, error) {
			page, err := c.GatewayConfigs.List(ctx, opts)
			if err != nil {
				return kindPage{}, err
			}
			rows := make([]rowData, 0, len(page.Items))
			for _, g := range page.Items {
				rows = append(rows, rowData{
					ID:    g.ID,
					Cells: []string{g.ID, dash(g.Name), formatTimeMs(g.CreateTimeMs)},
				})
			}
			return kindPage{Rows: rows, NextCursor: page.NextCursor(), TotalCount: page.TotalCount}, nil
		},
		Detail: func(ctx context.Context, c *api.Client, id string) ([]detailField, error) {
			g, err := c.GatewayConfigs.Retrieve(ctx, id)
			if err != nil {
				return nil, err
			}
			return []detailField{
				{"ID", g.ID},
				{"Name", dash(g.Name)},
				{"Created", formatTimeMs(g.CreateTimeMs)},
			}, nil
		},
	}
}
