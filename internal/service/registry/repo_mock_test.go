package registry

import (
	"context"
	"sync"

	"github.com/heartmarshall/tofix-backend/internal/domain"
)

var _ taskRepo = &taskRepoMock{}

type taskRepoMock struct {
	GetFunc     func(ctx context.Context, id string) (domain.TaskEntry, error)
	ListAllFunc func(ctx context.Context) ([]domain.TaskEntry, error)

	calls struct {
		Get []struct {
			Ctx context.Context
			ID  string
		}
		ListAll []struct {
			Ctx context.Context
		}
	}
	lockGet     sync.RWMutex
	lockListAll sync.RWMutex
}

func (mock *taskRepoMock) Get(ctx context.Context, id string) (domain.TaskEntry, error) {
	if mock.GetFunc == nil {
		panic("taskRepoMock.GetFunc: method is nil but taskRepo.Get was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
	}{Ctx: ctx, ID: id}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, id)
}

func (mock *taskRepoMock) GetCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *taskRepoMock) ListAll(ctx context.Context) ([]domain.TaskEntry, error) {
	if mock.ListAllFunc == nil {
		panic("taskRepoMock.ListAllFunc: method is nil but taskRepo.ListAll was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockListAll.Lock()
	mock.calls.ListAll = append(mock.calls.ListAll, callInfo)
	mock.lockListAll.Unlock()
	return mock.ListAllFunc(ctx)
}

var _ itemRepo = &itemRepoMock{}

type itemRepoMock struct {
	CountsFunc func(ctx context.Context, task string, now int64) (domain.ItemCounts, error)

	calls struct {
		Counts []struct {
			Ctx  context.Context
			Task string
			Now  int64
		}
	}
	lockCounts sync.RWMutex
}

func (mock *itemRepoMock) Counts(ctx context.Context, task string, now int64) (domain.ItemCounts, error) {
	if mock.CountsFunc == nil {
		panic("itemRepoMock.CountsFunc: method is nil but itemRepo.Counts was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Task string
		Now  int64
	}{Ctx: ctx, Task: task, Now: now}
	mock.lockCounts.Lock()
	mock.calls.Counts = append(mock.calls.Counts, callInfo)
	mock.lockCounts.Unlock()
	return mock.CountsFunc(ctx, task, now)
}

func (mock *itemRepoMock) CountsCalls() []struct {
	Ctx  context.Context
	Task string
	Now  int64
} {
	mock.lockCounts.RLock()
	calls := mock.calls.Counts
	mock.lockCounts.RUnlock()
	return calls
}

var _ eventRepo = &eventRepoMock{}

type eventRepoMock struct {
	CountActionsFunc    func(ctx context.Context, task string, from int64, to int64) ([]domain.ActionCount, error)
	CountHistoryFunc    func(ctx context.Context, task string, grouping domain.HistoryGrouping) ([]domain.HistoryBucket, error)
	FindByAttributeFunc func(ctx context.Context, task string, key string, value string, to int64, limit uint64) ([]domain.Event, error)

	calls struct {
		CountActions []struct {
			Ctx  context.Context
			Task string
			From int64
			To   int64
		}
		CountHistory []struct {
			Ctx      context.Context
			Task     string
			Grouping domain.HistoryGrouping
		}
		FindByAttribute []struct {
			Ctx   context.Context
			Task  string
			Key   string
			Value string
			To    int64
			Limit uint64
		}
	}
	lockCountActions    sync.RWMutex
	lockCountHistory    sync.RWMutex
	lockFindByAttribute sync.RWMutex
}

func (mock *eventRepoMock) CountActions(ctx context.Context, task string, from int64, to int64) ([]domain.ActionCount, error) {
	if mock.CountActionsFunc == nil {
		panic("eventRepoMock.CountActionsFunc: method is nil but eventRepo.CountActions was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Task string
		From int64
		To   int64
	}{Ctx: ctx, Task: task, From: from, To: to}
	mock.lockCountActions.Lock()
	mock.calls.CountActions = append(mock.calls.CountActions, callInfo)
	mock.lockCountActions.Unlock()
	return mock.CountActionsFunc(ctx, task, from, to)
}

func (mock *eventRepoMock) CountActionsCalls() []struct {
	Ctx  context.Context
	Task string
	From int64
	To   int64
} {
	mock.lockCountActions.RLock()
	calls := mock.calls.CountActions
	mock.lockCountActions.RUnlock()
	return calls
}

func (mock *eventRepoMock) CountHistory(ctx context.Context, task string, grouping domain.HistoryGrouping) ([]domain.HistoryBucket, error) {
	if mock.CountHistoryFunc == nil {
		panic("eventRepoMock.CountHistoryFunc: method is nil but eventRepo.CountHistory was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Task     string
		Grouping domain.HistoryGrouping
	}{Ctx: ctx, Task: task, Grouping: grouping}
	mock.lockCountHistory.Lock()
	mock.calls.CountHistory = append(mock.calls.CountHistory, callInfo)
	mock.lockCountHistory.Unlock()
	return mock.CountHistoryFunc(ctx, task, grouping)
}

func (mock *eventRepoMock) CountHistoryCalls() []struct {
	Ctx      context.Context
	Task     string
	Grouping domain.HistoryGrouping
} {
	mock.lockCountHistory.RLock()
	calls := mock.calls.CountHistory
	mock.lockCountHistory.RUnlock()
	return calls
}

func (mock *eventRepoMock) FindByAttribute(ctx context.Context, task string, key string, value string, to int64, limit uint64) ([]domain.Event, error) {
	if mock.FindByAttributeFunc == nil {
		panic("eventRepoMock.FindByAttributeFunc: method is nil but eventRepo.FindByAttribute was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Task  string
		Key   string
		Value string
		To    int64
		Limit uint64
	}{Ctx: ctx, Task: task, Key: key, Value: value, To: to, Limit: limit}
	mock.lockFindByAttribute.Lock()
	mock.calls.FindByAttribute = append(mock.calls.FindByAttribute, callInfo)
	mock.lockFindByAttribute.Unlock()
	return mock.FindByAttributeFunc(ctx, task, key, value, to, limit)
}

func (mock *eventRepoMock) FindByAttributeCalls() []struct {
	Ctx   context.Context
	Task  string
	Key   string
	Value string
	To    int64
	Limit uint64
} {
	mock.lockFindByAttribute.RLock()
	calls := mock.calls.FindByAttribute
	mock.lockFindByAttribute.RUnlock()
	return calls
}
