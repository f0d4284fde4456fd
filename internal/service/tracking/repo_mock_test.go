package tracking

import (
	"context"
	"sync"

	"github.com/heartmarshall/tofix-backend/internal/domain"
)

var _ eventRepo = &eventRepoMock{}

type eventRepoMock struct {
	AppendFunc func(ctx context.Context, task string, ev domain.Event) error

	calls struct {
		Append []struct {
			Ctx  context.Context
			Task string
			Ev   domain.Event
		}
	}
	lockAppend sync.RWMutex
}

func (mock *eventRepoMock) Append(ctx context.Context, task string, ev domain.Event) error {
	if mock.AppendFunc == nil {
		panic("eventRepoMock.AppendFunc: method is nil but eventRepo.Append was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Task string
		Ev   domain.Event
	}{Ctx: ctx, Task: task, Ev: ev}
	mock.lockAppend.Lock()
	mock.calls.Append = append(mock.calls.Append, callInfo)
	mock.lockAppend.Unlock()
	return mock.AppendFunc(ctx, task, ev)
}

func (mock *eventRepoMock) AppendCalls() []struct {
	Ctx  context.Context
	Task string
	Ev   domain.Event
} {
	mock.lockAppend.RLock()
	calls := mock.calls.Append
	mock.lockAppend.RUnlock()
	return calls
}

var _ itemRepo = &itemRepoMock{}

type itemRepoMock struct {
	MarkResolvedFunc func(ctx context.Context, task string, key string) error

	calls struct {
		MarkResolved []struct {
			Ctx  context.Context
			Task string
			Key  string
		}
	}
	lockMarkResolved sync.RWMutex
}

func (mock *itemRepoMock) MarkResolved(ctx context.Context, task string, key string) error {
	if mock.MarkResolvedFunc == nil {
		panic("itemRepoMock.MarkResolvedFunc: method is nil but itemRepo.MarkResolved was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Task string
		Key  string
	}{Ctx: ctx, Task: task, Key: key}
	mock.lockMarkResolved.Lock()
	mock.calls.MarkResolved = append(mock.calls.MarkResolved, callInfo)
	mock.lockMarkResolved.Unlock()
	return mock.MarkResolvedFunc(ctx, task, key)
}

func (mock *itemRepoMock) MarkResolvedCalls() []struct {
	Ctx  context.Context
	Task string
	Key  string
} {
	mock.lockMarkResolved.RLock()
	calls := mock.calls.MarkResolved
	mock.lockMarkResolved.RUnlock()
	return calls
}
