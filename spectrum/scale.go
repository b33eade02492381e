package spectrum

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MinRange replaces a zero or negative intensity range.
const MinRange = 1e-3

// AutoText is how an automatic bound is entered and displayed.
const AutoText = "AUTO"

// Bound is one end of the intensity axis: tracked from data (auto) or fixed.
type Bound struct {
	manual bool
	db     float64
}

var AutoBound = Bound{}

func ManualBound(db float64) Bound { return Bound{manual: true, db: db} }

func (b Bound) IsAuto() bool { return !b.manual }

// DB is the fixed value; zero for an auto bound.
func (b Bound) DB() float64 { return b.db }

func (b Bound) String() string {
	if b.IsAuto() {
		return AutoText
	}
	return fmt.Sprintf("%0.0f", b.db)
}

// ParseBound accepts "AUTO" (any case) or a decimal dB value.
func ParseBound(s string) (Bound, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, AutoText) {
		return AutoBound, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return AutoBound, fmt.Errorf("bad intensity %q: %w", s, err)
	}
	return ManualBound(v), nil
}

// Scale is the calibration for one row.
type Scale struct {
	Min   float64
	Max   float64
	Range float64
	// Degenerate is set when max <= min and Range holds MinRange instead.
	Degenerate bool
}

// Normalize maps v to (v-Min)/Range. -Inf and NaN map to 0 so empty bins
// sit at the bottom of the scale.
func (s Scale) Normalize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, -1) {
		return 0
	}
	return (v - s.Min) / s.Range
}

// Clamped is Normalize limited to [0, 1].
func (s Scale) Clamped(v float64) float64 {
	return math.Max(0, math.Min(1, s.Normalize(v)))
}

// Scaler tracks the intensity axis bounds across rows.
type Scaler struct {
	min, max Bound

	// Running extrema for auto bounds; +Inf/-Inf until a finite value arrives.
	autoMin float64
	autoMax float64

	last    Scale
	hasLast bool
}

func NewScaler() *Scaler {
	s := &Scaler{}
	s.Reset()
	return s
}

func (s *Scaler) Min() Bound { return s.min }
func (s *Scaler) Max() Bound { return s.max }

func (s *Scaler) SetMin(b Bound) {
	s.min = b
	s.Reset()
}

func (s *Scaler) SetMax(b Bound) {
	s.max = b
	s.Reset()
}

// Reset forgets the auto extrema so the next row reseeds them.
func (s *Scaler) Reset() {
	s.autoMin, s.autoMax = math.Inf(1), math.Inf(-1)
	s.hasLast = false
}

// Update folds row into the auto bounds and returns the scale for this row.
func (s *Scaler) Update(row []float64) Scale {
	if s.min.IsAuto() || s.max.IsAuto() {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if v < s.autoMin {
				s.autoMin = v
			}
			if v > s.autoMax {
				s.autoMax = v
			}
		}
	}
	s.last, s.hasLast = s.current(), true
	return s.last
}

// Last is the scale computed by the most recent Update since a reset.
func (s *Scaler) Last() (Scale, bool) { return s.last, s.hasLast }

func (s *Scaler) current() Scale {
	lo, loOk := s.min.DB(), !s.min.IsAuto()
	if !loOk && !math.IsInf(s.autoMin, 0) {
		lo, loOk = s.autoMin, true
	}
	hi, hiOk := s.max.DB(), !s.max.IsAuto()
	if !hiOk && !math.IsInf(s.autoMax, 0) {
		hi, hiOk = s.autoMax, true
	}
	// Without finite data an auto bound borrows the other end.
	switch {
	case !loOk && hiOk:
		lo = hi
	case loOk && !hiOk:
		hi = lo
	}
	sc := Scale{Min: lo, Max: hi, Range: hi - lo}
	if !(sc.Range > 0) {
		sc.Degenerate, sc.Range = true, MinRange
		sc.Max = sc.Min + MinRange
	}
	return sc
}
