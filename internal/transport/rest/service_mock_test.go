package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/tofix-backend/internal/domain"
	"github.com/heartmarshall/tofix-backend/internal/service/ingest"
	"github.com/heartmarshall/tofix-backend/internal/service/tracking"
)

var (
	_ leaseService    = &leaseServiceMock{}
	_ trackingService = &trackingServiceMock{}
	_ registryService = &registryServiceMock{}
	_ ingestService   = &ingestServiceMock{}
)

type leaseServiceMock struct {
	NextFunc func(ctx context.Context, taskType string) (domain.Assignment, error)

	mu        sync.Mutex
	nextCalls []string
}

func (mock *leaseServiceMock) Next(ctx context.Context, taskType string) (domain.Assignment, error) {
	if mock.NextFunc == nil {
		panic("leaseServiceMock.NextFunc: method is nil but leaseService.Next was just called")
	}
	mock.mu.Lock()
	mock.nextCalls = append(mock.nextCalls, taskType)
	mock.mu.Unlock()
	return mock.NextFunc(ctx, taskType)
}

func (mock *leaseServiceMock) NextCalls() []string {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.nextCalls
}

type trackingServiceMock struct {
	RecordFunc       func(ctx context.Context, input tracking.RecordInput) error
	MarkResolvedFunc func(ctx context.Context, input tracking.MarkResolvedInput) error

	mu            sync.Mutex
	recordCalls   []tracking.RecordInput
	resolvedCalls []tracking.MarkResolvedInput
}

func (mock *trackingServiceMock) Record(ctx context.Context, input tracking.RecordInput) error {
	if mock.RecordFunc == nil {
		panic("trackingServiceMock.RecordFunc: method is nil but trackingService.Record was just called")
	}
	mock.mu.Lock()
	mock.recordCalls = append(mock.recordCalls, input)
	mock.mu.Unlock()
	return mock.RecordFunc(ctx, input)
}

func (mock *trackingServiceMock) RecordCalls() []tracking.RecordInput {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.recordCalls
}

func (mock *trackingServiceMock) MarkResolved(ctx context.Context, input tracking.MarkResolvedInput) error {
	if mock.MarkResolvedFunc == nil {
		panic("trackingServiceMock.MarkResolvedFunc: method is nil but trackingService.MarkResolved was just called")
	}
	mock.mu.Lock()
	mock.resolvedCalls = append(mock.resolvedCalls, input)
	mock.mu.Unlock()
	return mock.MarkResolvedFunc(ctx, input)
}

func (mock *trackingServiceMock) MarkResolvedCalls() []tracking.MarkResolvedInput {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.resolvedCalls
}

type registryServiceMock struct {
	GetFunc          func(ctx context.Context, taskType string) (domain.TaskEntry, error)
	ListAllFunc      func(ctx context.Context) ([]domain.TaskEntry, error)
	CountsFunc       func(ctx context.Context, taskType string) (domain.ItemCounts, error)
	ActionStatsFunc  func(ctx context.Context, taskType string, from, to int64) ([]domain.ActionCount, error)
	CountHistoryFunc func(ctx context.Context, taskType, grouping string) ([]domain.HistoryBucket, error)
	FindEventsFunc   func(ctx context.Context, taskType, key, value string, to int64) ([]domain.Event, error)
}

func (mock *registryServiceMock) Get(ctx context.Context, taskType string) (domain.TaskEntry, error) {
	if mock.GetFunc == nil {
		panic("registryServiceMock.GetFunc: method is nil but registryService.Get was just called")
	}
	return mock.GetFunc(ctx, taskType)
}

func (mock *registryServiceMock) ListAll(ctx context.Context) ([]domain.TaskEntry, error) {
	if mock.ListAllFunc == nil {
		panic("registryServiceMock.ListAllFunc: method is nil but registryService.ListAll was just called")
	}
	return mock.ListAllFunc(ctx)
}

func (mock *registryServiceMock) Counts(ctx context.Context, taskType string) (domain.ItemCounts, error) {
	if mock.CountsFunc == nil {
		panic("registryServiceMock.CountsFunc: method is nil but registryService.Counts was just called")
	}
	return mock.CountsFunc(ctx, taskType)
}

func (mock *registryServiceMock) ActionStats(ctx context.Context, taskType string, from, to int64) ([]domain.ActionCount, error) {
	if mock.ActionStatsFunc == nil {
		panic("registryServiceMock.ActionStatsFunc: method is nil but registryService.ActionStats was just called")
	}
	return mock.ActionStatsFunc(ctx, taskType, from, to)
}

func (mock *registryServiceMock) CountHistory(ctx context.Context, taskType, grouping string) ([]domain.HistoryBucket, error) {
	if mock.CountHistoryFunc == nil {
		panic("registryServiceMock.CountHistoryFunc: method is nil but registryService.CountHistory was just called")
	}
	return mock.CountHistoryFunc(ctx, taskType, grouping)
}

func (mock *registryServiceMock) FindEvents(ctx context.Context, taskType, key, value string, to int64) ([]domain.Event, error) {
	if mock.FindEventsFunc == nil {
		panic("registryServiceMock.FindEventsFunc: method is nil but registryService.FindEvents was just called")
	}
	return mock.FindEventsFunc(ctx, taskType, key, value, to)
}

type ingestServiceMock struct {
	IngestFunc func(ctx context.Context, input ingest.Input) (ingest.Result, error)

	mu          sync.Mutex
	ingestCalls []ingest.Input
}

func (mock *ingestServiceMock) Ingest(ctx context.Context, input ingest.Input) (ingest.Result, error) {
	if mock.IngestFunc == nil {
		panic("ingestServiceMock.IngestFunc: method is nil but ingestService.Ingest was just called")
	}
	mock.mu.Lock()
	mock.ingestCalls = append(mock.ingestCalls, input)
	mock.mu.Unlock()
	return mock.IngestFunc(ctx, input)
}

func (mock *ingestServiceMock) IngestCalls() []ingest.Input {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.ingestCalls
}
