// Package bikesharetraffic serves station traffic views over HTTP.
//
// Endpoints:
//
//	GET    /api/health
//	GET    /api/stations?time=&format=
//	POST   /api/sessions?time=&lon=&lat=&zoom=&width=&height=&format=
//	GET    /api/sessions/{id}/markers?time=&lon=&lat=&zoom=&width=&height=&format=
//	DELETE /api/sessions/{id}
//
// time is a minute of day in [0,1439] or -1 for no filter. format is json
// (default) or msgpack. Query errors answer 400 with {"error": "..."}.
package bikesharetraffic
