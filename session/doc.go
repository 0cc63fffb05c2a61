// Package session holds the explicit state of one map view.
//
// A Session owns the immutable loaded data (trip index, base stations,
// whole-day baseline), the current filter window, the current projector, the
// latest derived view and the marker set. Triggers (FilterChanged,
// ViewportChanged) each run one complete synchronous pass:
//
//	window -> aggregate -> scale -> reconcile
//
// after which the view and marker set are swapped wholesale. The Registry
// serializes passes per session, so concurrent callers never observe a
// partially reconciled marker set.
package session
