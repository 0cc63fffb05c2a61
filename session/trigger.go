package session

import (
	"github.com/theoremus-urban-solutions/bikeshare-traffic/render"
)

// Trigger is an event that causes a recompute pass
type Trigger interface {
	isTrigger()
}

// FilterChanged selects a new time filter; -1 clears it
type FilterChanged struct {
	Minute int
}

// ViewportChanged replaces the projector, e.g. after a pan or zoom
type ViewportChanged struct {
	Projector render.Projector
}

func (FilterChanged) isTrigger()   {}
func (ViewportChanged) isTrigger() {}
