package lease

import (
	"context"
	"sync"

	"github.com/heartmarshall/tofix-backend/internal/domain"
)

var _ itemRepo = &itemRepoMock{}

type itemRepoMock struct {
	AssignNextFunc func(ctx context.Context, task string, now int64, leaseUntil int64) (domain.Item, bool, error)

	calls struct {
		AssignNext []struct {
			Ctx        context.Context
			Task       string
			Now        int64
			LeaseUntil int64
		}
	}
	lockAssignNext sync.RWMutex
}

func (mock *itemRepoMock) AssignNext(ctx context.Context, task string, now int64, leaseUntil int64) (domain.Item, bool, error) {
	if mock.AssignNextFunc == nil {
		panic("itemRepoMock.AssignNextFunc: method is nil but itemRepo.AssignNext was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		Task       string
		Now        int64
		LeaseUntil int64
	}{Ctx: ctx, Task: task, Now: now, LeaseUntil: leaseUntil}
	mock.lockAssignNext.Lock()
	mock.calls.AssignNext = append(mock.calls.AssignNext, callInfo)
	mock.lockAssignNext.Unlock()
	return mock.AssignNextFunc(ctx, task, now, leaseUntil)
}

func (mock *itemRepoMock) AssignNextCalls() []struct {
	Ctx        context.Context
	Task       string
	Now        int64
	LeaseUntil int64
} {
	mock.lockAssignNext.RLock()
	calls := mock.calls.AssignNext
	mock.lockAssignNext.RUnlock()
	return calls
}
