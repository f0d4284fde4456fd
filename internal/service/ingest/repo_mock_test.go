package ingest

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/tofix-backend/internal/domain"
)

var _ ingestRepo = &ingestRepoMock{}

type ingestRepoMock struct {
	LockTaskNameFunc   func(ctx context.Context, task string) error
	TablesExistFunc    func(ctx context.Context, task string) (bool, error)
	CreateStagingFunc  func(ctx context.Context, task string) error
	CopyStagingFunc    func(ctx context.Context, task string, src pgx.CopyFromSource) (int64, error)
	MaterializeFunc    func(ctx context.Context, task string, preserveOrder bool) (int64, error)
	CreateIndexesFunc  func(ctx context.Context, task string) error
	CreateEventLogFunc func(ctx context.Context, task string) error
	DropStagingFunc    func(ctx context.Context, task string) error

	mu    sync.Mutex
	calls []string
}

func (mock *ingestRepoMock) record(name string) {
	mock.mu.Lock()
	mock.calls = append(mock.calls, name)
	mock.mu.Unlock()
}

// Calls returns the names of the methods called, in order.
func (mock *ingestRepoMock) Calls() []string {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return append([]string(nil), mock.calls...)
}

func (mock *ingestRepoMock) LockTaskName(ctx context.Context, task string) error {
	if mock.LockTaskNameFunc == nil {
		panic("ingestRepoMock.LockTaskNameFunc: method is nil but ingestRepo.LockTaskName was just called")
	}
	mock.record("LockTaskName")
	return mock.LockTaskNameFunc(ctx, task)
}

func (mock *ingestRepoMock) TablesExist(ctx context.Context, task string) (bool, error) {
	if mock.TablesExistFunc == nil {
		panic("ingestRepoMock.TablesExistFunc: method is nil but ingestRepo.TablesExist was just called")
	}
	mock.record("TablesExist")
	return mock.TablesExistFunc(ctx, task)
}

func (mock *ingestRepoMock) CreateStaging(ctx context.Context, task string) error {
	if mock.CreateStagingFunc == nil {
		panic("ingestRepoMock.CreateStagingFunc: method is nil but ingestRepo.CreateStaging was just called")
	}
	mock.record("CreateStaging")
	return mock.CreateStagingFunc(ctx, task)
}

func (mock *ingestRepoMock) CopyStaging(ctx context.Context, task string, src pgx.CopyFromSource) (int64, error) {
	if mock.CopyStagingFunc == nil {
		panic("ingestRepoMock.CopyStagingFunc: method is nil but ingestRepo.CopyStaging was just called")
	}
	mock.record("CopyStaging")
	return mock.CopyStagingFunc(ctx, task, src)
}

func (mock *ingestRepoMock) Materialize(ctx context.Context, task string, preserveOrder bool) (int64, error) {
	if mock.MaterializeFunc == nil {
		panic("ingestRepoMock.MaterializeFunc: method is nil but ingestRepo.Materialize was just called")
	}
	mock.record("Materialize")
	return mock.MaterializeFunc(ctx, task, preserveOrder)
}

func (mock *ingestRepoMock) CreateIndexes(ctx context.Context, task string) error {
	if mock.CreateIndexesFunc == nil {
		panic("ingestRepoMock.CreateIndexesFunc: method is nil but ingestRepo.CreateIndexes was just called")
	}
	mock.record("CreateIndexes")
	return mock.CreateIndexesFunc(ctx, task)
}

func (mock *ingestRepoMock) CreateEventLog(ctx context.Context, task string) error {
	if mock.CreateEventLogFunc == nil {
		panic("ingestRepoMock.CreateEventLogFunc: method is nil but ingestRepo.CreateEventLog was just called")
	}
	mock.record("CreateEventLog")
	return mock.CreateEventLogFunc(ctx, task)
}

func (mock *ingestRepoMock) DropStaging(ctx context.Context, task string) error {
	if mock.DropStagingFunc == nil {
		panic("ingestRepoMock.DropStagingFunc: method is nil but ingestRepo.DropStaging was just called")
	}
	mock.record("DropStaging")
	return mock.DropStagingFunc(ctx, task)
}

var _ registryRepo = &registryRepoMock{}

type registryRepoMock struct {
	ExistsFunc   func(ctx context.Context, id string) (bool, error)
	RegisterFunc func(ctx context.Context, e domain.TaskEntry) error

	calls struct {
		Exists []struct {
			Ctx context.Context
			ID  string
		}
		Register []struct {
			Ctx context.Context
			E   domain.TaskEntry
		}
	}
	lockExists   sync.RWMutex
	lockRegister sync.RWMutex
}

func (mock *registryRepoMock) Exists(ctx context.Context, id string) (bool, error) {
	if mock.ExistsFunc == nil {
		panic("registryRepoMock.ExistsFunc: method is nil but registryRepo.Exists was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  string
	}{Ctx: ctx, ID: id}
	mock.lockExists.Lock()
	mock.calls.Exists = append(mock.calls.Exists, callInfo)
	mock.lockExists.Unlock()
	return mock.ExistsFunc(ctx, id)
}

func (mock *registryRepoMock) ExistsCalls() []struct {
	Ctx context.Context
	ID  string
} {
	mock.lockExists.RLock()
	calls := mock.calls.Exists
	mock.lockExists.RUnlock()
	return calls
}

func (mock *registryRepoMock) Register(ctx context.Context, e domain.TaskEntry) error {
	if mock.RegisterFunc == nil {
		panic("registryRepoMock.RegisterFunc: method is nil but registryRepo.Register was just called")
	}
	callInfo := struct {
		Ctx context.Context
		E   domain.TaskEntry
	}{Ctx: ctx, E: e}
	mock.lockRegister.Lock()
	mock.calls.Register = append(mock.calls.Register, callInfo)
	mock.lockRegister.Unlock()
	return mock.RegisterFunc(ctx, e)
}

func (mock *registryRepoMock) RegisterCalls() []struct {
	Ctx context.Context
	E   domain.TaskEntry
} {
	mock.lockRegister.RLock()
	calls := mock.calls.Register
	mock.lockRegister.RUnlock()
	return calls
}

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct {
			Ctx context.Context
		}
	}
	lockRunInTx sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockRunInTx.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, callInfo)
	mock.lockRunInTx.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct {
	Ctx context.Context
} {
	mock.lockRunInTx.RLock()
	calls := mock.calls.RunInTx
	mock.lockRunInTx.RUnlock()
	return calls
}
