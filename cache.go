package bikesharetraffic

import (
	"bytes"
	"strconv"
	"sync"
	"time"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/formatter"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/session"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/traffic"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/utils"
)

// ViewCache memoizes stateless views per window. The dataset is immutable,
// so entries never go stale; each hit is stamped and serialized afresh.
type ViewCache struct {
	data *session.Data
	opts session.Options
	now  func() time.Time

	mu            sync.RWMutex
	responseCache map[string]*formatter.Response
}

// NewViewCache creates an empty cache over d
func NewViewCache(d *session.Data, opts session.Options) *ViewCache {
	return &ViewCache{data: d, opts: opts, now: time.Now, responseCache: map[string]*formatter.Response{}}
}

func (vc *ViewCache) memoKey(args ...string) string {
	var b bytes.Buffer
	for i, a := range args {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(a)
	}
	return b.String()
}

// GetStationsResponse returns the view of w serialized in format
func (vc *ViewCache) GetStationsResponse(w traffic.Window, format string) ([]byte, error) {
	key := vc.memoKey("stations", strconv.Itoa(w.Minute()))
	vc.mu.RLock()
	cached, ok := vc.responseCache[key]
	vc.mu.RUnlock()
	if !ok {
		view := session.Compute(vc.data, w, vc.opts)
		cached = formatter.WrapStations(vc.data.System, view, time.Time{})
		vc.mu.Lock()
		vc.responseCache[key] = cached
		vc.mu.Unlock()
	}

	res := *cached
	res.ResponseTimestamp = utils.Iso8601FromTime(vc.now())
	return formatter.NewResponseBuilder().Build(format, &res)
}

// Len returns the number of cached responses
func (vc *ViewCache) Len() int {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return len(vc.responseCache)
}
