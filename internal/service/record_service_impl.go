package service

import (
	"context"
	"io"
	"net/url"

	"github.com/alexanderramin/estatedesk/internal/cms"
	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/listview"
)

type recordService[R any] struct {
	resource *cms.Resource[R]
	observer UseCaseObserver
}

func NewRecordService[R any](resource *cms.Resource[R], observers ...UseCaseObserver) RecordService[R] {
	return &recordService[R]{resource: resource, observer: useCaseObserverOrNoop(observers)}
}

func (s *recordService[R]) Entity() domain.Entity { return s.resource.Entity() }

func (s *recordService[R]) List(ctx context.Context, q url.Values) (page listview.Page[R], err error) {
	fields := map[string]any{"page": q.Get(listview.ParamPage), "limit": q.Get(listview.ParamLimit)}
	defer observe(ctx, s.observer, "list", s.Entity().Name, fields)(&err)

	page, err = s.resource.List(ctx, q)
	fields["total"] = page.Total
	return page, err
}

func (s *recordService[R]) Get(ctx context.Context, id string) (rec R, err error) {
	defer observe(ctx, s.observer, "get", s.Entity().Name, map[string]any{"id": id})(&err)
	return s.resource.Get(ctx, id)
}

func (s *recordService[R]) Create(ctx context.Context, payload map[string]any) (rec R, err error) {
	defer observe(ctx, s.observer, "create", s.Entity().Name, map[string]any{"field_count": len(payload)})(&err)
	return s.resource.Create(ctx, payload)
}

func (s *recordService[R]) Update(ctx context.Context, id string, diff map[string]any) (rec R, err error) {
	defer observe(ctx, s.observer, "update", s.Entity().Name, map[string]any{"id": id, "field_count": len(diff)})(&err)
	return s.resource.Patch(ctx, id, diff)
}

func (s *recordService[R]) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete", s.Entity().Name, map[string]any{"id": id})(&err)
	return s.resource.Delete(ctx, id)
}

func (s *recordService[R]) Import(ctx context.Context, filename, contentType string, content io.Reader) (res cms.ImportResult, err error) {
	fields := map[string]any{"file": filename}
	defer observe(ctx, s.observer, "import", s.Entity().Name, fields)(&err)

	res, err = s.resource.Import(ctx, filename, contentType, content)
	if res.Inserted != nil {
		fields["inserted"] = *res.Inserted
	}
	return res, err
}
