package api

import (
	"context"
	"net/url"
	"strconv"
)

// ObjectService calls the /v1/objects endpoints.
type ObjectService struct {
	client *Client
}

// ObjectListOptions carry the storage listing filters. Public switches the
// call to the public-objects endpoint.
type ObjectListOptions struct {
	ListOptions
	Name        string
	ContentType string
	State       string
	Search      string
	Public      bool
}

type objectListResponse struct {
	Objects    []Object `json:"objects"`
	HasMore    bool     `json:"has_more"`
	TotalCount int64    `json:"total_count"`
}

// List returns one page of storage objects.
func (s *ObjectService) List(ctx context.Context, opts ObjectListOptions) (Page[Object], error) {
	q := opts.query()
	if opts.Name != "" {
		q.Set("name", opts.Name)
	}
	if opts.ContentType != "" {
		q.Set("content_type", opts.ContentType)
	}
	if opts.State != "" {
		q.Set("state", opts.State)
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	path := "/v1/objects"
	if opts.Public {
		path = "/v1/objects/list_public"
	}
	var resp objectListResponse
	if err := s.client.get(ctx, path, q, &resp); err != nil {
		return Page[Object]{}, err
	}
	return newPage(resp.Objects, resp.HasMore, resp.TotalCount, func(o Object) string { return o.ID }), nil
}

// Retrieve fetches a single object by id.
func (s *ObjectService) Retrieve(ctx context.Context, id string) (*Object, error) {
	var out Object
	if err := s.client.get(ctx, "/v1/objects/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateDownloadURL mints a presigned URL valid for the given duration
// (seconds). The platform default of one hour applies when zero.
func (s *ObjectService) GenerateDownloadURL(ctx context.Context, id string, durationSeconds int) (*ObjectDownloadURL, error) {
	q := url.Values{}
	if durationSeconds > 0 {
		q.Set("duration_seconds", strconv.Itoa(durationSeconds))
	}
	var out ObjectDownloadURL
	if err := s.client.doBody(ctx, "POST", "/v1/objects/"+id+"/download", q, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a stored object.
func (s *ObjectService) Delete(ctx context.Context, id string) error {
	return s.client.delete(ctx, "/v1/objects/"+id)
}
