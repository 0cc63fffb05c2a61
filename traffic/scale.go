package traffic

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// RadiusRange holds the output bounds of the radius scale
type RadiusRange struct {
	Max         float64 // largest radius, both modes
	FilteredMin float64 // floor while a time filter is active
}

// DefaultRadiusRange is [0,25] unfiltered and [3,25] filtered
var DefaultRadiusRange = RadiusRange{Max: 25, FilteredMin: 3}

// RadiusScale is a square-root scale from [0, domainMax] to [lo, hi]
type RadiusScale struct {
	domainMax float64
	lo        float64
	hi        float64
}

// NewRadiusScale sizes the domain from the largest TotalTraffic in stations
// (0 for an empty slice). A filtered view keeps a floor so quiet stations
// stay visible.
func NewRadiusScale(stations []Station, filterActive bool, r RadiusRange) RadiusScale {
	s := RadiusScale{domainMax: MaxTraffic(stations), hi: r.Max}
	if filterActive {
		s.lo = r.FilteredMin
	}
	return s
}

// MaxTraffic returns the largest TotalTraffic, 0 when stations is empty
func MaxTraffic(stations []Station) float64 {
	if len(stations) == 0 {
		return 0
	}
	totals := make([]float64, len(stations))
	for i, st := range stations {
		totals[i] = float64(st.TotalTraffic)
	}
	return floats.Max(totals)
}

// Domain returns the scale's input bounds
func (s RadiusScale) Domain() (float64, float64) { return 0, s.domainMax }

// Range returns the scale's output bounds
func (s RadiusScale) Range() (float64, float64) { return s.lo, s.hi }

// Radius maps a traffic total to a radius. A degenerate domain maps
// everything to the range minimum.
func (s RadiusScale) Radius(totalTraffic int) float64 {
	if s.domainMax <= 0 || totalTraffic <= 0 {
		return s.lo
	}
	t := math.Sqrt(float64(totalTraffic)) / math.Sqrt(s.domainMax)
	return s.lo + t*(s.hi-s.lo)
}

// Quantize maps a continuous domain onto evenly split discrete outputs
type Quantize struct {
	lo, hi  float64
	outputs []float64
}

// NewQuantize splits [lo,hi] into len(outputs) equal segments
func NewQuantize(lo, hi float64, outputs ...float64) Quantize {
	return Quantize{lo: lo, hi: hi, outputs: outputs}
}

// Thresholds returns the split points between outputs
func (q Quantize) Thresholds() []float64 {
	n := len(q.outputs)
	out := make([]float64, 0, n)
	for i := 0; i < n-1; i++ {
		out = append(out, ((float64(i)+1)*q.hi-(float64(i)-float64(n-1))*q.lo)/float64(n))
	}
	return out
}

// Value returns the output whose segment holds x. A split point belongs to
// the segment above it; values outside the domain clamp to the end outputs.
func (q Quantize) Value(x float64) float64 {
	if len(q.outputs) == 0 {
		return math.NaN()
	}
	i := 0
	for _, th := range q.Thresholds() {
		if x < th {
			break
		}
		i++
	}
	return q.outputs[i]
}

// RatioScale buckets a departure share into 0, 0.5 or 1
var RatioScale = NewQuantize(0, 1, 0, 0.5, 1)

// DepartureShare returns departures / totalTraffic, or 0 for an idle station
func DepartureShare(st Station) float64 {
	if st.TotalTraffic == 0 {
		return 0
	}
	return float64(st.Departures) / float64(st.TotalTraffic)
}

// DepartureRatio returns the quantized departure share of st
func DepartureRatio(st Station) float64 {
	return RatioScale.Value(DepartureShare(st))
}

// ScaledStation is a derived station with its display encodings
type ScaledStation struct {
	Station
	Radius         float64
	DepartureRatio float64
}

// Scale attaches radius and departure ratio to every station
func Scale(stations []Station, scale RadiusScale) []ScaledStation {
	out := make([]ScaledStation, len(stations))
	for i, st := range stations {
		out[i] = ScaledStation{
			Station:        st,
			Radius:         scale.Radius(st.TotalTraffic),
			DepartureRatio: DepartureRatio(st),
		}
	}
	return out
}
