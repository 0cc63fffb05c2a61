package bikesharetraffic

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/formatter"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/internal/log"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/render"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/session"
)

// handleCreateSession accepts the same time and viewport parameters as the
// markers endpoint and answers 201 with the initial marker set.
func (s *Service) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := parseFormat(q.Get("format"))
	if err != nil {
		writeQueryError(w, err)
		return
	}
	vp, _, err := parseViewport(q, ViewportFromConfig(s.mapCfg), s.mapCfg)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	win, err := parseMinute(q.Get("time"))
	if err != nil {
		writeQueryError(w, err)
		return
	}

	sess, err := s.registry.Create(vp)
	if errors.Is(err, session.ErrTooManySessions) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		writeQueryError(w, err)
		return
	}

	var res *formatter.Response
	err = s.registry.Do(sess.ID, func(sess *session.Session) error {
		if win.Bounded() {
			if err := sess.Apply(session.FilterChanged{Minute: win.Minute()}); err != nil {
				return err
			}
		}
		res = formatter.WrapMarkers(sess, time.Now())
		return nil
	})
	if err != nil {
		writeQueryError(w, err)
		return
	}
	log.Infow("session created", "id", sess.ID, "sessions", s.registry.Len())
	s.writePayload(w, http.StatusCreated, format, res)
}

// handleMarkers dispatches a filter trigger when time differs from the
// session's filter and a viewport trigger when any viewport parameter is
// present. All parameters are validated before either trigger runs.
func (s *Service) handleMarkers(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		writeQueryError(w, err)
		return
	}
	q := r.URL.Query()
	format, err := parseFormat(q.Get("format"))
	if err != nil {
		writeQueryError(w, err)
		return
	}

	var res *formatter.Response
	err = s.registry.Do(id, func(sess *session.Session) error {
		return s.applyQuery(sess, q, func() { res = formatter.WrapMarkers(sess, time.Now()) })
	})
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "No such session: "+id.String())
		return
	case err != nil:
		writeQueryError(w, err)
		return
	}
	s.writePayload(w, http.StatusOK, format, res)
}

func (s *Service) applyQuery(sess *session.Session, q url.Values, done func()) error {
	cur, ok := sess.Projector().(render.WebMercator)
	if !ok {
		cur = ViewportFromConfig(s.mapCfg)
	}
	vp, viewportChanged, err := parseViewport(q, cur, s.mapCfg)
	if err != nil {
		return err
	}
	filterChanged := false
	var minute int
	if q.Has("time") {
		win, err := parseMinute(q.Get("time"))
		if err != nil {
			return err
		}
		minute = win.Minute()
		filterChanged = minute != sess.Window().Minute()
	}

	if filterChanged {
		if err := sess.Apply(session.FilterChanged{Minute: minute}); err != nil {
			return err
		}
	}
	if viewportChanged {
		if err := sess.Apply(session.ViewportChanged{Projector: vp}); err != nil {
			return err
		}
	}
	done()
	return nil
}

func (s *Service) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		writeQueryError(w, err)
		return
	}
	if err := s.registry.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, "No such session: "+id.String())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) writePayload(w http.ResponseWriter, status int, format string, res any) {
	buf, err := s.builder.Build(format, res)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", formatter.ContentType(format))
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}
