package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/listview"
)

// ImportResult is the answer of POST /{entity}/import. Counts are nil when
// the server did not report them.
type ImportResult struct {
	Success  bool `json:"success"`
	Inserted *int `json:"insertedEntries,omitempty"`
	// The server spells this field "Entires".
	SkippedDuplicates *int   `json:"skippedDuplicateEntires,omitempty"`
	Total             *int   `json:"totalEntries,omitempty"`
	Message           string `json:"message,omitempty"`
}

// Resource is the typed endpoint set of one entity collection.
type Resource[R any] struct {
	client *Client
	entity domain.Entity
}

// NewResource binds a collection to a client.
func NewResource[R any](client *Client, entity domain.Entity) *Resource[R] {
	return &Resource[R]{client: client, entity: entity}
}

// Entity returns the bound collection.
func (r *Resource[R]) Entity() domain.Entity { return r.entity }

func (r *Resource[R]) auth() AuthMode {
	if r.entity.RequiresAuth {
		return AuthRequired
	}
	return AuthOptional
}

type pageMeta struct {
	Total      *int `json:"total"`
	TotalCount *int `json:"totalCount"`
	Page       *int `json:"page"`
	TotalPages *int `json:"totalPages"`
	Limit      *int `json:"limit"`
}

type listEnvelope[R any] struct {
	Data []R `json:"data"`
	pageMeta
	Meta       *pageMeta `json:"meta"`
	Pagination *pageMeta `json:"pagination"`
}

// List calls GET /{entity} and normalizes the page envelope, which may
// carry its counters at the top level or under "meta" or "pagination".
func (r *Resource[R]) List(ctx context.Context, q url.Values) (listview.Page[R], error) {
	var env listEnvelope[R]
	err := r.client.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   r.entity.Path(),
		Query:  q,
		Auth:   r.auth(),
	}, &env)
	if err != nil {
		return listview.Page[R]{}, err
	}

	meta := env.pageMeta
	for _, m := range []*pageMeta{env.Meta, env.Pagination} {
		if m != nil {
			meta = meta.merge(*m)
		}
	}
	page := listview.Page[R]{Data: env.Data}
	page.Total = firstInt(meta.Total, meta.TotalCount)
	if page.Total == 0 && meta.Total == nil && meta.TotalCount == nil {
		page.Total = len(env.Data)
	}
	page.Page = firstInt(meta.Page)
	page.TotalPages = firstInt(meta.TotalPages)
	if page.TotalPages == 0 {
		limit := firstInt(meta.Limit)
		if limit == 0 {
			limit, _ = strconv.Atoi(q.Get(listview.ParamLimit))
		}
		page.TotalPages = listview.TotalPagesFor(page.Total, limit)
	}
	return page, nil
}

// Get calls GET /{entity}/{id}.
func (r *Resource[R]) Get(ctx context.Context, id string) (R, error) {
	return r.one(ctx, Request{Method: http.MethodGet, Path: r.itemPath(id), Auth: r.auth()})
}

// Create calls POST /{entity} with the full payload.
func (r *Resource[R]) Create(ctx context.Context, payload any) (R, error) {
	return r.one(ctx, Request{Method: http.MethodPost, Path: r.entity.Path(), JSON: payload, Auth: r.auth()})
}

// Patch calls PATCH /{entity}/{id} with only the changed fields.
func (r *Resource[R]) Patch(ctx context.Context, id string, diff map[string]any) (R, error) {
	return r.one(ctx, Request{Method: http.MethodPatch, Path: r.itemPath(id), JSON: diff, Auth: r.auth()})
}

// Delete calls DELETE /{entity}/{id}.
func (r *Resource[R]) Delete(ctx context.Context, id string) error {
	return r.client.Do(ctx, Request{Method: http.MethodDelete, Path: r.itemPath(id), Auth: r.auth()}, nil)
}

// Import uploads one file as multipart field "file" to POST
// /{entity}/import.
func (r *Resource[R]) Import(ctx context.Context, filename, contentType string, content io.Reader) (ImportResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		return ImportResult{}, fmt.Errorf("creating form part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return ImportResult{}, fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return ImportResult{}, err
	}

	var res ImportResult
	err = r.client.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        r.entity.Path() + "/import",
		Body:        &buf,
		ContentType: mw.FormDataContentType(),
		Auth:        r.auth(),
	}, &res)
	return res, err
}

func (r *Resource[R]) one(ctx context.Context, req Request) (R, error) {
	var zero R
	var raw json.RawMessage
	if err := r.client.Do(ctx, req, &raw); err != nil {
		return zero, err
	}
	if len(raw) == 0 {
		return zero, nil
	}
	var rec R
	if err := json.Unmarshal(unwrapData(raw), &rec); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return rec, nil
}

func (r *Resource[R]) itemPath(id string) string {
	return path.Join(r.entity.Path(), url.PathEscape(id))
}

// unwrapData returns the "data" member of {"data": {...}} bodies and the
// body itself otherwise.
func unwrapData(raw json.RawMessage) json.RawMessage {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if json.Unmarshal(raw, &env) == nil {
		if d := bytes.TrimSpace(env.Data); len(d) > 0 && d[0] == '{' {
			return env.Data
		}
	}
	return raw
}

func (m pageMeta) merge(o pageMeta) pageMeta {
	if m.Total == nil {
		m.Total = o.Total
	}
	if m.TotalCount == nil {
		m.TotalCount = o.TotalCount
	}
	if m.Page == nil {
		m.Page = o.Page
	}
	if m.TotalPages == nil {
		m.TotalPages = o.TotalPages
	}
	if m.Limit == nil {
		m.Limit = o.Limit
	}
	return m
}

func firstInt(ptrs ...*int) int {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return 0
}
