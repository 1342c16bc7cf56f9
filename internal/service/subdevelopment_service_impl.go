package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/estatedesk/internal/domain"
)

type subDevelopmentCustomers struct {
	records  RecordService[domain.SubDevelopment]
	observer UseCaseObserver
}

func NewSubDevelopmentCustomers(records RecordService[domain.SubDevelopment], observers ...UseCaseObserver) SubDevelopmentCustomers {
	return &subDevelopmentCustomers{records: records, observer: useCaseObserverOrNoop(observers)}
}

func (s *subDevelopmentCustomers) Add(ctx context.Context, subDevelopmentID, customerID string) (domain.SubDevelopment, bool, error) {
	return s.change(ctx, "add-customer", subDevelopmentID, customerID, domain.SubDevelopment.WithCustomer)
}

func (s *subDevelopmentCustomers) Remove(ctx context.Context, subDevelopmentID, customerID string) (domain.SubDevelopment, bool, error) {
	return s.change(ctx, "remove-customer", subDevelopmentID, customerID, domain.SubDevelopment.WithoutCustomer)
}

func (s *subDevelopmentCustomers) change(
	ctx context.Context,
	name, subDevelopmentID, customerID string,
	apply func(domain.SubDevelopment, string) ([]string, bool),
) (sub domain.SubDevelopment, changed bool, err error) {
	fields := map[string]any{"id": subDevelopmentID, "customer": customerID}
	defer observe(ctx, s.observer, name, domain.SubDevelopmentsEntity.Name, fields)(&err)

	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return sub, false, fmt.Errorf("customer id is required")
	}
	sub, err = s.records.Get(ctx, subDevelopmentID)
	if err != nil {
		return sub, false, err
	}
	customers, changed := apply(sub, customerID)
	fields["changed"] = changed
	if !changed {
		return sub, false, nil
	}
	updated, err := s.records.Update(ctx, subDevelopmentID, map[string]any{"customers": customers})
	if err != nil {
		return sub, false, err
	}
	return updated, true, nil
}
