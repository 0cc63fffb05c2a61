package bikesharetraffic

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/config"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/formatter"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/render"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/traffic"
)

type QueryError struct{ Msg string }

func (e *QueryError) Error() string { return e.Msg }

// parseMinute reads the time filter; empty means unbounded
func parseMinute(s string) (traffic.Window, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return traffic.Unbounded(), nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return traffic.Window{}, &QueryError{Msg: "time must be an integer minute of day or -1."}
	}
	w, err := traffic.NewWindow(v)
	if err != nil {
		return traffic.Window{}, &QueryError{Msg: "time must be -1 or within [0,1439]."}
	}
	return w, nil
}

func parseFormat(s string) (string, error) {
	f, err := formatter.ParseFormat(s)
	if err != nil {
		return "", &QueryError{Msg: "Unsupported format: " + s}
	}
	return f, nil
}

func parseSessionID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &QueryError{Msg: "Malformed session id: " + s}
	}
	return id, nil
}

// ViewportFromConfig returns the configured default map viewport
func ViewportFromConfig(m config.MapConfig) render.WebMercator {
	return render.WebMercator{
		CenterLon: m.Center[0],
		CenterLat: m.Center[1],
		Zoom:      m.Zoom,
		Width:     m.Width,
		Height:    m.Height,
	}
}

// parseViewport overlays lon, lat, zoom, width and height from q onto cur.
// changed reports whether any of them was given.
func parseViewport(q url.Values, cur render.WebMercator, m config.MapConfig) (vp render.WebMercator, changed bool, err error) {
	vp = cur
	float := func(key string, lo, hi float64, dst *float64) {
		if err != nil || !q.Has(key) {
			return
		}
		v, perr := strconv.ParseFloat(strings.TrimSpace(q.Get(key)), 64)
		if perr != nil || v < lo || v > hi {
			err = &QueryError{Msg: key + " must be a number within [" + strconv.FormatFloat(lo, 'f', -1, 64) + "," + strconv.FormatFloat(hi, 'f', -1, 64) + "]."}
			return
		}
		*dst = v
		changed = true
	}
	size := func(key string, dst *int) {
		if err != nil || !q.Has(key) {
			return
		}
		v, perr := strconv.Atoi(strings.TrimSpace(q.Get(key)))
		if perr != nil || v <= 0 {
			err = &QueryError{Msg: key + " must be a positive integer."}
			return
		}
		*dst = v
		changed = true
	}

	float("lon", -180, 180, &vp.CenterLon)
	float("lat", -90, 90, &vp.CenterLat)
	float("zoom", 0, 30, &vp.Zoom)
	size("width", &vp.Width)
	size("height", &vp.Height)
	if err != nil {
		return cur, false, err
	}
	if m.MaxZoom > 0 {
		vp.Zoom = render.ClampZoom(vp.Zoom, m.MinZoom, m.MaxZoom)
	}
	return vp, changed, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	b, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{msg})
	_, _ = w.Write(b)
}

// writeQueryError maps err to 400 for query problems and 500 otherwise
func writeQueryError(w http.ResponseWriter, err error) {
	var qe *QueryError
	if errors.As(err, &qe) {
		writeError(w, http.StatusBadRequest, qe.Msg)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
