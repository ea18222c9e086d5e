package scoring

// Event describes one scored component. Calculators emit events through an
// Observer so tracing stays out of the computation path.
type Event struct {
	Calculator string
	Component  string
	Input      float64
	Score      float64
	Fallback   bool
}

// Observer receives scoring events. Implementations must be safe for
// concurrent use because calculators may be shared across goroutines.
type Observer interface {
	Observe(e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(e Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

// Nop discards every event.
var Nop Observer = ObserverFunc(func(Event) {})

// Multi fans events out to several observers. Nil entries are skipped.
func Multi(observers ...Observer) Observer {
	list := make([]Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return ObserverFunc(func(e Event) {
		for _, o := range list {
			o.Observe(e)
		}
	})
}

// Recorder collects events in memory. It is intended for tests and is not
// safe for concurrent use.
type Recorder struct {
	Events []Event
}

// Observe appends e.
func (r *Recorder) Observe(e Event) {
	r.Events = append(r.Events, e)
}
