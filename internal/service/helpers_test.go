package service

import (
	"context"
	"sync"
	"testing"

	"github.com/alexanderramin/estatedesk/internal/cms"
	"github.com/alexanderramin/estatedesk/internal/db"
	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/repository"
	"github.com/alexanderramin/estatedesk/internal/testutil"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Name
	}
	return out
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

func newFakeCMS(t *testing.T) *testutil.FakeCMS {
	t.Helper()
	fake := testutil.NewFakeCMS(t)
	fake.Token = "session-token"
	return fake
}

func customerService(fake *testutil.FakeCMS, obs ...UseCaseObserver) RecordService[domain.Customer] {
	return NewRecordService(cms.NewResource[domain.Customer](fake.Client(), domain.CustomersEntity), obs...)
}

func subDevService(fake *testutil.FakeCMS, obs ...UseCaseObserver) RecordService[domain.SubDevelopment] {
	return NewRecordService(cms.NewResource[domain.SubDevelopment](fake.Client(), domain.SubDevelopmentsEntity), obs...)
}

func setupStore(t *testing.T) (repository.SavedFilterRepo, repository.ExportLogRepo, db.UnitOfWork) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repository.NewSQLiteSavedFilterRepo(database),
		repository.NewSQLiteExportLogRepo(database),
		testutil.NewTestUoW(database)
}
