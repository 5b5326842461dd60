package panel

import (
	"sort"

	"github.com/montanaflynn/stats"

	"entrolab/domain/core"
)

// Measurement is one period's entropy measurement of an ecosystem.
type Measurement struct {
	HCS     float64  `json:"h_cs"`
	HPlugin float64  `json:"h_plugin"`
	NUnits  int      `json:"n_units"`
	NLabels int      `json:"n_labels"`
	Top     []string `json:"top,omitempty"`
}

// AnnualPoint is one year of an annual series.
type AnnualPoint struct {
	Year int `json:"year"`
	Measurement
}

// Series is a chronologically ordered annual entropy series for one
// ecosystem.
type Series struct {
	Name   string        `json:"name"`
	Points []AnnualPoint `json:"points"`
}

// NewSeries creates an empty annual series.
func NewSeries(name string) *Series {
	return &Series{Name: name}
}

// Put inserts or replaces the measurement for a year, keeping the series
// sorted.
func (s *Series) Put(year int, m Measurement) {
	for i := range s.Points {
		if s.Points[i].Year == year {
			s.Points[i].Measurement = m
			return
		}
	}
	s.Points = append(s.Points, AnnualPoint{Year: year, Measurement: m})
	sort.Slice(s.Points, func(i, j int) bool { return s.Points[i].Year < s.Points[j].Year })
}

// At returns the measurement for a year.
func (s *Series) At(year int) (Measurement, bool) {
	for _, p := range s.Points {
		if p.Year == year {
			return p.Measurement, true
		}
	}
	return Measurement{}, false
}

// Years returns the year roster in order.
func (s *Series) Years() []int {
	out := make([]int, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Year
	}
	return out
}

// HCS returns the coverage-adjusted entropies in year order.
func (s *Series) HCS() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.HCS
	}
	return out
}

// MeanHCS returns the mean coverage-adjusted entropy across the series.
func (s *Series) MeanHCS() (float64, error) {
	if len(s.Points) == 0 {
		return 0, core.ErrEmptySample
	}
	return stats.Mean(s.HCS())
}

// FirstDifferences returns H[i+1]-H[i] over consecutive points.
func (s *Series) FirstDifferences() []float64 {
	if len(s.Points) < 2 {
		return nil
	}
	out := make([]float64, len(s.Points)-1)
	for i := 1; i < len(s.Points); i++ {
		out[i-1] = s.Points[i].HCS - s.Points[i-1].HCS
	}
	return out
}

// Gap returns the pointwise entropy gap between two series sharing the
// same year roster: s minus other, in year order.
func (s *Series) Gap(other *Series) ([]float64, error) {
	if len(s.Points) != len(other.Points) {
		return nil, core.NewVectorShapeError("series gap", len(s.Points), len(other.Points))
	}
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		o := other.Points[i]
		if p.Year != o.Year {
			return nil, core.ErrSeriesNotFound
		}
		out[i] = p.HCS - o.HCS
	}
	return out, nil
}

// MonthlyPoint is one month of an event-study series.
type MonthlyPoint struct {
	Month Month `json:"month"`
	Tau   int   `json:"tau"`
	Measurement
}

// MonthlySeries is a chronologically ordered monthly series on an event
// clock.
type MonthlySeries struct {
	Name   string         `json:"name"`
	Clock  EventClock     `json:"-"`
	Event  Month          `json:"event"`
	Points []MonthlyPoint `json:"points"`
}

// NewMonthlySeries creates an empty monthly series centered on the
// clock's event month.
func NewMonthlySeries(name string, clock EventClock) *MonthlySeries {
	return &MonthlySeries{Name: name, Clock: clock, Event: clock.Event}
}

// Put inserts or replaces the measurement for a month, stamping its tau
// from the clock and keeping the series in chronological order.
func (s *MonthlySeries) Put(m Month, meas Measurement) {
	tau := s.Clock.Tau(m)
	for i := range s.Points {
		if s.Points[i].Month == m {
			s.Points[i].Tau = tau
			s.Points[i].Measurement = meas
			return
		}
	}
	s.Points = append(s.Points, MonthlyPoint{Month: m, Tau: tau, Measurement: meas})
	sort.Slice(s.Points, func(i, j int) bool { return s.Points[i].Month.Before(s.Points[j].Month) })
}

// At returns the measurement for a month.
func (s *MonthlySeries) At(m Month) (Measurement, bool) {
	for _, p := range s.Points {
		if p.Month == m {
			return p.Measurement, true
		}
	}
	return Measurement{}, false
}

// TauHCS returns the event-clock offsets and the matching entropies in
// chronological order, the raw material of the event-study designs.
func (s *MonthlySeries) TauHCS() ([]int, []float64) {
	taus := make([]int, len(s.Points))
	hs := make([]float64, len(s.Points))
	for i, p := range s.Points {
		taus[i] = p.Tau
		hs[i] = p.HCS
	}
	return taus, hs
}

// AnnualMean returns the mean entropy over the months falling in year.
func (s *MonthlySeries) AnnualMean(year int) (float64, error) {
	var vals []float64
	for _, p := range s.Points {
		if p.Month.Year == year {
			vals = append(vals, p.HCS)
		}
	}
	if len(vals) == 0 {
		return 0, core.ErrEmptySample
	}
	return stats.Mean(vals)
}

// Fingerprint returns the deterministic content hash of the series
// values, carried into artifacts as a reproducibility stamp.
func (s *MonthlySeries) Fingerprint() core.Fingerprint {
	periods := make([]string, len(s.Points))
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		periods[i] = p.Month.String()
		values[i] = p.HCS
	}
	return core.FingerprintSeries(periods, values)
}
