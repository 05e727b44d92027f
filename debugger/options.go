package debugger

import (
	"go.uber.org/zap"

	"github.com/wnxd/symdbg/interp"
)

type Options struct {
	Logger         *zap.Logger
	Interface      Interface
	Prompt         string
	StepIgnore     int
	IgnoreFuncs    []string
	IgnoreCodes    []any
	UntilCondition string
	StartFiles     []string
	SearchPath     []string
	SkipTrivial    func(ev *interp.Evaluation) bool
	Settings       map[string]any
}

type Option func(*Options)

// NewOptions applies opts over the defaults. The prompt is left empty here
// so the language flavor can supply its own.
func NewOptions(opts ...Option) *Options {
	options := &Options{
		Logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func WithInterface(intf Interface) Option {
	return func(o *Options) {
		o.Interface = intf
	}
}

func WithPrompt(prompt string) Option {
	return func(o *Options) {
		o.Prompt = prompt
	}
}

// WithStepIgnore skips the first n potential stop events, letting the
// debugger trace through its own startup before the first prompt.
func WithStepIgnore(n int) Option {
	return func(o *Options) {
		o.StepIgnore = n
	}
}

func WithIgnoreFuncs(names ...string) Option {
	return func(o *Options) {
		o.IgnoreFuncs = append(o.IgnoreFuncs, names...)
	}
}

func WithIgnoreCodes(codes ...any) Option {
	return func(o *Options) {
		o.IgnoreCodes = append(o.IgnoreCodes, codes...)
	}
}

func WithUntilCondition(expr string) Option {
	return func(o *Options) {
		o.UntilCondition = expr
	}
}

func WithStartFiles(paths ...string) Option {
	return func(o *Options) {
		o.StartFiles = append(o.StartFiles, paths...)
	}
}

func WithSearchPath(dirs ...string) Option {
	return func(o *Options) {
		o.SearchPath = append(o.SearchPath, dirs...)
	}
}

func WithSkipTrivial(fn func(ev *interp.Evaluation) bool) Option {
	return func(o *Options) {
		o.SkipTrivial = fn
	}
}

func WithSetting(key string, value any) Option {
	return func(o *Options) {
		if o.Settings == nil {
			o.Settings = make(map[string]any)
		}
		o.Settings[key] = value
	}
}
