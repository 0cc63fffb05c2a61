package bikesharetraffic

import (
	"net/http"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/formatter"
)

func (s *Service) handleStations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := parseFormat(q.Get("format"))
	if err != nil {
		writeQueryError(w, err)
		return
	}
	win, err := parseMinute(q.Get("time"))
	if err != nil {
		writeQueryError(w, err)
		return
	}
	buf, err := s.cache.GetStationsResponse(win, format)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	w.Header().Set("Content-Type", formatter.ContentType(format))
	_, _ = w.Write(buf)
}
