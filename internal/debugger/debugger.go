package debugger

import (
	"sync"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/wnxd/symdbg/debugger"
	_ "github.com/wnxd/symdbg/internal/debugger/command"
	"github.com/wnxd/symdbg/interp"
	"github.com/wnxd/symdbg/source"
)

type Debugger interface {
	debugger.Debugger
	Lang() interp.Lang
	EventName(ev *interp.Event, filter []string) (string, bool)
	EventShort(kind interp.EventKind) (string, bool)
	SkipTrivial(ev *interp.Evaluation) bool
	Truthy(val any) bool
	DefaultPrompt() string
	logger() *zap.Logger
	setStatus(status string)
	fileRef() *fileManager
	filterRef() *filterManager
	hookRef() *hookManager
	stopRef() *stopManager
}

type Dbg struct {
	impl      Debugger
	in        interp.Interpreter
	log       *zap.Logger
	srcmap    *source.Map
	hook      interp.TraceHook
	statusMu  sync.RWMutex
	status    string
	unhandled sync.Map
	proc      *cmdProcessor
	settingsManager
	fileManager
	filterManager
	breakManager
	hookManager
	stopManager
	taskManager
	moduleManager
}

func (dbg *Dbg) Init(impl Debugger, in interp.Interpreter, opts *debugger.Options) error {
	dbg.impl = impl
	dbg.in = in
	dbg.log = opts.Logger
	if dbg.log == nil {
		dbg.log = zap.NewNop()
	}
	dbg.srcmap = source.NewMap()
	dbg.status = debugger.StatusPreExecution
	dbg.settingsManager.ctor(opts.Settings)
	dbg.fileManager.ctor(dbg.impl, in.MainFile(), opts.SearchPath)
	dbg.filterManager.ctor(opts)
	dbg.breakManager.ctor(dbg.impl)
	dbg.hookManager.ctor()
	dbg.stopManager.ctor(dbg.impl, opts.StepIgnore)
	dbg.taskManager.ctor(dbg.impl)
	dbg.moduleManager.ctor()
	dbg.proc = newCmdProcessor(dbg.impl, opts)
	for _, path := range opts.StartFiles {
		dbg.proc.QueueStartFile(path)
	}
	return nil
}

func (dbg *Dbg) Close() error {
	var result *multierror.Error
	if dbg.hook != nil {
		result = multierror.Append(result, dbg.hook.Close())
		dbg.hook = nil
	}
	result = multierror.Append(result, dbg.proc.dtor())
	dbg.taskManager.dtor()
	dbg.moduleManager.dtor()
	dbg.stopManager.dtor()
	dbg.hookManager.dtor()
	dbg.breakManager.dtor()
	dbg.filterManager.dtor()
	dbg.fileManager.dtor()
	dbg.settingsManager.dtor()
	return result.ErrorOrNil()
}

func (dbg *Dbg) Interpreter() interp.Interpreter {
	return dbg.in
}

func (dbg *Dbg) Start() error {
	if dbg.hook != nil {
		return nil
	}
	hook, err := dbg.in.AddTrace(dbg.impl.Dispatch)
	if err != nil {
		return err
	}
	dbg.hook = hook
	dbg.impl.setStatus(debugger.StatusRunning)
	return nil
}

func (dbg *Dbg) Stop() error {
	if dbg.hook == nil {
		return nil
	}
	err := dbg.hook.Close()
	dbg.hook = nil
	dbg.impl.setStatus(debugger.StatusPostExecution)
	return err
}

func (dbg *Dbg) ExecutionStatus() string {
	dbg.statusMu.RLock()
	defer dbg.statusMu.RUnlock()
	return dbg.status
}

func (dbg *Dbg) Processor() debugger.Processor {
	return dbg.proc
}

func (dbg *Dbg) SourceMap() *source.Map {
	return dbg.srcmap
}

func (dbg *Dbg) PushInterface(intf debugger.Interface) {
	dbg.proc.pushInterface(intf)
}

func (dbg *Dbg) QueueCommands(lines ...string) {
	dbg.proc.QueueCommands(lines...)
}

func (dbg *Dbg) logger() *zap.Logger {
	return dbg.log
}

func (dbg *Dbg) setStatus(status string) {
	dbg.statusMu.Lock()
	dbg.status = status
	dbg.statusMu.Unlock()
}

func (dbg *Dbg) fileRef() *fileManager {
	return &dbg.fileManager
}

func (dbg *Dbg) filterRef() *filterManager {
	return &dbg.filterManager
}

func (dbg *Dbg) hookRef() *hookManager {
	return &dbg.hookManager
}

func (dbg *Dbg) stopRef() *stopManager {
	return &dbg.stopManager
}
