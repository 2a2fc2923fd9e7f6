package app

import (
	"github.com/dshills/graphnudge/internal/binding"
	"github.com/dshills/graphnudge/internal/host"
	"github.com/dshills/graphnudge/internal/logging"
)

// Pipeline is the host input handler chain. Handlers run in registration
// order until one uses the event.
type Pipeline struct {
	handlers []host.Handler
	log      *logging.Logger
}

// NewPipeline creates an empty pipeline.
func NewPipeline(log *logging.Logger) *Pipeline {
	return &Pipeline{log: logging.OrDiscard(log)}
}

// AddHandler appends h.
func (p *Pipeline) AddHandler(h host.Handler) {
	if h != nil {
		p.handlers = append(p.handlers, h)
	}
}

// Len returns the number of handlers.
func (p *Pipeline) Len() int {
	return len(p.handlers)
}

// Dispatch runs ev through the handlers and reports whether it was used.
// A panicking handler is logged and skipped.
func (p *Pipeline) Dispatch(ev *host.Event) bool {
	for _, h := range p.handlers {
		if err := binding.Guard("input handler", func() { h(ev) }); err != nil {
			p.log.Error("%v", err)
		}
		if ev.Used() {
			return true
		}
	}
	return false
}

var _ host.Pipeline = (*Pipeline)(nil)
