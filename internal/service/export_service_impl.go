package service

import (
	"context"

	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/listview"
	"github.com/alexanderramin/estatedesk/internal/repository"
)

type exportLogService struct {
	log repository.ExportLogRepo
}

func NewExportLogService(log repository.ExportLogRepo) ExportLogService {
	return &exportLogService{log: log}
}

func (s *exportLogService) Record(ctx context.Context, entity domain.Entity, res listview.ExportResult) error {
	return s.log.Append(ctx, domain.NewExportRecord(entity, res))
}

func (s *exportLogService) History(ctx context.Context, entity string, limit int) ([]*domain.ExportRecord, error) {
	return s.log.List(ctx, entity, limit)
}

// ExportService runs an entity export and records it in the history.
type ExportService[R any] struct {
	exporter *listview.Exporter[R]
	entity   domain.Entity
	history  ExportLogService
	observer UseCaseObserver
}

// NewExportService wraps exporter. A nil history skips recording.
func NewExportService[R any](exporter *listview.Exporter[R], entity domain.Entity, history ExportLogService, observers ...UseCaseObserver) *ExportService[R] {
	return &ExportService[R]{
		exporter: exporter,
		entity:   entity,
		history:  history,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Export writes the export file. A failure to record history does not
// fail the export; the file is already on disk.
func (s *ExportService[R]) Export(ctx context.Context, req listview.ExportRequest) (res listview.ExportResult, err error) {
	fields := map[string]any{"with_filters": req.WithFilters, "cap": listview.ClampCap(req.Cap)}
	defer observe(ctx, s.observer, "export", s.entity.Name, fields)(&err)

	res, err = s.exporter.Export(ctx, req)
	if err != nil {
		return res, err
	}
	fields["count"] = res.Count
	fields["path"] = res.Path
	s.record(ctx, res, fields)
	return res, nil
}

// ExportSelection writes the selected rows and records the export.
func (s *ExportService[R]) ExportSelection(ctx context.Context, rows []R, columnKeys []string) (res listview.ExportResult, err error) {
	fields := map[string]any{"rows": len(rows), "columns": len(columnKeys)}
	defer observe(ctx, s.observer, "export-selection", s.entity.Name, fields)(&err)

	res, err = s.exporter.ExportSelection(rows, columnKeys)
	if err != nil {
		return res, err
	}
	s.record(ctx, res, fields)
	return res, nil
}

func (s *ExportService[R]) record(ctx context.Context, res listview.ExportResult, fields map[string]any) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, s.entity, res); err != nil {
		fields["history_error"] = err.Error()
	}
}
