package debugger

import (
	"context"
	"io"
)

type TaskStatus int

const (
	TaskStatus_Pending TaskStatus = iota
	TaskStatus_Running
	TaskStatus_Stopped
	TaskStatus_Done
	TaskStatus_Close
)

// Task tracks one traced interpreter thread. Tasks are registered the first
// time an event arrives from a thread and cancelled as a group when the
// session quits; the task status doubles as the cancellation cause.
type Task interface {
	io.Closer
	ID() int
	Name() string
	Status() TaskStatus
	Context() context.Context
	Done() <-chan struct{}
	Err() error
	CancelCause(err error)
}

type TaskManager interface {
	MainTask() Task
	TaskOf(name string) Task
	Tasks() []Task
	CancelAll(cause error)
}

func (s TaskStatus) Error() string {
	switch s {
	case TaskStatus_Pending:
		return "pending"
	case TaskStatus_Running:
		return "running"
	case TaskStatus_Stopped:
		return "stopped"
	case TaskStatus_Done:
		return "done"
	case TaskStatus_Close:
		return "close"
	}
	return "unknown"
}
