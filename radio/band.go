package radio

type HzBand struct {
	Center uint64
	Width  uint64
}

func (hzb HzBand) ToMHz() FreqBand {
	return FreqBand{
		float64(hzb.Center) / 1e6,
		float64(hzb.Width) / 1e6,
	}
}

// FreqBand is a band in MHz; Width is the sample rate of a tuned band.
type FreqBand struct {
	Center float64
	Width  float64
}

func (f FreqBand) BeginMHz() float64 { return f.Center - f.Width/2.0 }
func (f FreqBand) EndMHz() float64   { return f.Center + f.Width/2.0 }
func (f FreqBand) ToHzBand() HzBand {
	return HzBand{
		Center: MHzToHz(f.Center),
		Width:  MHzToHz(f.Width),
	}
}

// MHzToHz converts to Hz, rounding to the nearest Hz. Non-positive values give 0.
func MHzToHz(mhz float64) uint64 {
	if mhz <= 0 {
		return 0
	}
	return uint64(mhz*1e6 + 0.5)
}
