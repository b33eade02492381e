package radio

import (
	"fmt"
	"strconv"
	"strings"
)

// AutoText is how automatic gain is entered and displayed.
const AutoText = "AUTO"

// Gain is either automatic (tuner AGC) or a fixed value in dB.
type Gain struct {
	manual bool
	db     float64
}

var AutoGain = Gain{}

func ManualGain(db float64) Gain { return Gain{manual: true, db: db} }

func (g Gain) IsAuto() bool { return !g.manual }

// DB is the fixed gain; it is zero for automatic gain.
func (g Gain) DB() float64 { return g.db }

func (g Gain) String() string {
	if g.IsAuto() {
		return AutoText
	}
	return fmt.Sprintf("%0.1f", g.db)
}

// ParseGain accepts "AUTO" (any case) or a decimal dB value.
func ParseGain(s string) (Gain, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, AutoText) {
		return AutoGain, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return AutoGain, fmt.Errorf("bad gain %q: %w", s, err)
	}
	return ManualGain(v), nil
}

// tenths converts to the rtl_tcp unit of tenths of a dB.
func (g Gain) tenths() uint32 {
	if g.db <= 0 {
		return 0
	}
	return uint32(g.db*10 + 0.5)
}
