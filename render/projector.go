package render

import "math"

// TileSize is the pixel width of one Web Mercator tile at zoom 0
const TileSize = 512

// maxLatitude is where Web Mercator reaches a square world
const maxLatitude = 85.051128779807

// WebMercator projects onto a viewport of Width x Height pixels centered on
// (CenterLon, CenterLat) at Zoom.
type WebMercator struct {
	CenterLon float64
	CenterLat float64
	Zoom      float64
	Width     int
	Height    int
}

// ClampZoom limits z to [lo, hi]
func ClampZoom(z, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, z))
}

func (p WebMercator) worldSize() float64 {
	return TileSize * math.Exp2(p.Zoom)
}

// world returns unscaled Mercator coordinates in [0,1]
func world(lon, lat float64) (float64, float64) {
	lat = math.Max(-maxLatitude, math.Min(maxLatitude, lat))
	phi := lat * math.Pi / 180
	x := (lon + 180) / 360
	y := (1 - math.Log(math.Tan(phi)+1/math.Cos(phi))/math.Pi) / 2
	return x, y
}

// Project returns the pixel position of (lon, lat) in the viewport
func (p WebMercator) Project(lon, lat float64) Point {
	ws := p.worldSize()
	x, y := world(lon, lat)
	cx, cy := world(p.CenterLon, p.CenterLat)
	return Point{
		X: (x-cx)*ws + float64(p.Width)/2,
		Y: (y-cy)*ws + float64(p.Height)/2,
	}
}
