package rootfind

import "go.uber.org/zap"

const (
	DefaultBisectAccuracy = 1e-10
	DefaultNewtonAccuracy = 1e-5
	DefaultMaxIterations  = 100000
	DefaultStep           = 1e-5

	DefaultSearchStart        = 1.0
	DefaultSearchGrowth       = 10.0
	DefaultSearchMaxMagnitude = 1e11
	DefaultSearchMaxSteps     = 10000
)

// Options holds the convergence policy and diagnostic hooks for one solve.
type Options struct {
	Accuracy      float64
	MaxIterations int
	Step          float64
	Derivative    Func
	Logger        *zap.Logger
	OnIteration   func(Iteration) error
	OnExhausted   func(Result)
}

// Option mutates Options. Later options override earlier ones.
type Option func(*Options)

func WithAccuracy(eps float64) Option {
	return func(o *Options) { o.Accuracy = eps }
}

func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithStep sets the finite-difference step h used by Newton.
func WithStep(h float64) Option {
	return func(o *Options) { o.Step = h }
}

// WithDerivative supplies an analytic derivative, replacing the
// finite-difference estimate.
func WithDerivative(df Func) Option {
	return func(o *Options) { o.Derivative = df }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithObserver registers a per-iteration hook. Returning ErrStopped (or any
// other error) aborts the solve with that error.
func WithObserver(fn func(Iteration) error) Option {
	return func(o *Options) { o.OnIteration = fn }
}

// WithExhaustedHandler registers a hook called when the budget runs out.
func WithExhaustedHandler(fn func(Result)) Option {
	return func(o *Options) { o.OnExhausted = fn }
}

func newOptions(accuracy float64, opts []Option) (Options, error) {
	o := Options{
		Accuracy:      accuracy,
		MaxIterations: DefaultMaxIterations,
		Step:          DefaultStep,
		Logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.Accuracy > 0) || o.MaxIterations < 1 || !(o.Step > 0) {
		return o, ErrBadOption
	}
	return o, nil
}

func (o Options) observe(it Iteration) error {
	if o.OnIteration == nil {
		return nil
	}
	return o.OnIteration(it)
}

func (o Options) exhausted(r Result) {
	o.Logger.Warn("max iterations reached, returning best estimate",
		zap.String("method", r.Method),
		zap.Int("iterations", r.Iterations),
		zap.Float64("estimate", r.Root),
		zap.Float64("residual", r.Residual),
		zap.Float64("accuracy", o.Accuracy),
	)
	if o.OnExhausted != nil {
		o.OnExhausted(r)
	}
}
