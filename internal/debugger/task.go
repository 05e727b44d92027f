package debugger

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/wnxd/symdbg/debugger"
)

const mainTaskName = "MainThread"

type dbgTask struct {
	id      int
	name    string
	ctx     context.Context
	cancel  context.CancelCauseFunc
	tracing atomic.Bool
	mu      sync.Mutex
	status  debugger.TaskStatus
}

func (t *dbgTask) Close() error {
	t.CancelCause(debugger.TaskStatus_Close)
	return nil
}

func (t *dbgTask) ID() int {
	return t.id
}

func (t *dbgTask) Name() string {
	return t.name
}

func (t *dbgTask) Status() debugger.TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *dbgTask) setStatus(status debugger.TaskStatus) {
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
}

func (t *dbgTask) Context() context.Context {
	return t.ctx
}

func (t *dbgTask) Done() <-chan struct{} {
	return t.ctx.Done()
}

func (t *dbgTask) Err() error {
	return context.Cause(t.ctx)
}

func (t *dbgTask) CancelCause(err error) {
	if status, ok := err.(debugger.TaskStatus); ok {
		t.setStatus(status)
	}
	t.cancel(err)
}

// enterTrace marks the thread as inside the trace callback. Events raised
// while it is set, such as by an evaluation at the prompt, skip dispatch the
// way host interpreters suppress nested tracing.
func (t *dbgTask) enterTrace() bool {
	return t.tracing.CompareAndSwap(false, true)
}

func (t *dbgTask) leaveTrace() {
	t.tracing.Store(false)
}

type taskManager struct {
	base   context.Context
	stop   context.CancelCauseFunc
	mu     sync.Mutex
	nextID int
	tasks  map[string]*dbgTask
	main   *dbgTask
}

func (tm *taskManager) ctor(dbg Debugger) {
	tm.base, tm.stop = context.WithCancelCause(context.Background())
	tm.tasks = make(map[string]*dbgTask)
	tm.main = tm.taskOf(mainTaskName)
}

func (tm *taskManager) dtor() {
	tm.CancelAll(debugger.TaskStatus_Close)
}

// taskOf returns the task tracking the named thread, registering it on
// first sight. The empty name means the main thread.
func (tm *taskManager) taskOf(name string) *dbgTask {
	if name == "" {
		name = mainTaskName
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if task, ok := tm.tasks[name]; ok {
		return task
	}
	tm.nextID++
	task := &dbgTask{id: tm.nextID, name: name, status: debugger.TaskStatus_Pending}
	task.ctx, task.cancel = context.WithCancelCause(tm.base)
	tm.tasks[name] = task
	return task
}

func (tm *taskManager) MainTask() debugger.Task {
	return tm.main
}

func (tm *taskManager) TaskOf(name string) debugger.Task {
	return tm.taskOf(name)
}

func (tm *taskManager) Tasks() []debugger.Task {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tasks := make([]debugger.Task, 0, len(tm.tasks))
	for _, task := range tm.tasks {
		tasks = append(tasks, task)
	}
	slices.SortFunc(tasks, func(a, b debugger.Task) int { return a.ID() - b.ID() })
	return tasks
}

func (tm *taskManager) CancelAll(cause error) {
	tm.mu.Lock()
	tasks := make([]*dbgTask, 0, len(tm.tasks))
	for _, task := range tm.tasks {
		tasks = append(tasks, task)
	}
	tm.mu.Unlock()
	for _, task := range tasks {
		task.CancelCause(cause)
	}
	tm.stop(cause)
}
