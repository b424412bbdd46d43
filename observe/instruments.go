package observe

// Instruments bundles what the cache engine reports to.
// Nil fields are treated as no-ops.
type Instruments struct {
	Logger  Logger
	Metrics Metrics
	Tracer  Tracer
}

// WithDefaults returns a copy of i with every nil field replaced by its no-op.
func (i Instruments) WithDefaults() Instruments {
	if i.Logger == nil {
		i.Logger = NopLogger()
	}
	if i.Metrics == nil {
		i.Metrics = NopMetrics()
	}
	if i.Tracer == nil {
		i.Tracer = NopTracer()
	}
	return i
}

// InstrumentsFromObserver builds Instruments from the providers of obs.
func InstrumentsFromObserver(obs Observer) (Instruments, error) {
	if obs == nil {
		return Instruments{}, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return Instruments{}, err
	}

	return Instruments{
		Logger:  obs.Logger(),
		Metrics: metrics,
		Tracer:  NewTracer(obs.Tracer()),
	}, nil
}
