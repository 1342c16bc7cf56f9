package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/estatedesk/internal/db"
	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/listview"
	"github.com/alexanderramin/estatedesk/internal/repository"
)

type savedFilterService struct {
	filters  repository.SavedFilterRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewSavedFilterService(filters repository.SavedFilterRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SavedFilterService {
	return &savedFilterService{filters: filters, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *savedFilterService) Save(ctx context.Context, entity domain.Entity, name string, schema listview.FilterSchema, fs listview.FilterState, sort listview.Sort) (saved *domain.SavedFilter, err error) {
	fields := map[string]any{"name": name}
	defer observe(ctx, s.observer, "save-filter", entity.Name, fields)(&err)

	saved, err = domain.NewSavedFilter(entity, name, schema, fs, sort)
	if err != nil {
		return nil, err
	}
	fields["active_filters"] = len(saved.Filters)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFilters := repository.NewSQLiteSavedFilterRepo(tx)

		existing, err := txFilters.GetByName(ctx, entity.Name, saved.Name)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return txFilters.Create(ctx, saved)
		case err != nil:
			return err
		}
		existing.Name = saved.Name
		existing.Filters = saved.Filters
		existing.Sort = saved.Sort
		existing.UpdatedAt = time.Now().UTC()
		saved = existing
		fields["replaced"] = true
		return txFilters.Update(ctx, existing)
	})
	if err != nil {
		return nil, fmt.Errorf("saving filter %q: %w", name, err)
	}
	return saved, nil
}

func (s *savedFilterService) Get(ctx context.Context, entity domain.Entity, name string) (*domain.SavedFilter, error) {
	return s.filters.GetByName(ctx, entity.Name, strings.TrimSpace(name))
}

func (s *savedFilterService) List(ctx context.Context, entity domain.Entity) ([]*domain.SavedFilter, error) {
	return s.filters.ListByEntity(ctx, entity.Name)
}

func (s *savedFilterService) Delete(ctx context.Context, entity domain.Entity, name string) (err error) {
	defer observe(ctx, s.observer, "delete-filter", entity.Name, map[string]any{"name": name})(&err)

	f, err := s.filters.GetByName(ctx, entity.Name, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	return s.filters.Delete(ctx, f.ID)
}
