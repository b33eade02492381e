package radio

import (
	"context"
	"io"
)

// IQReader decodes interleaved unsigned 8-bit I/Q samples.
type IQReader struct {
	r   io.Reader
	buf []byte
	err error
}

// NewIQReader takes a reader that uses u8 I/Q samples.
func NewIQReader(r io.Reader) *IQReader {
	if r == nil {
		panic("nil reader")
	}
	return &IQReader{r: r}
}

// Err is the error that ended the last stream, if any.
func (iq *IQReader) Err() error { return iq.err }

// Read64 fills samps completely or returns the read error.
func (iq *IQReader) Read64(samps []complex64) error {
	if cap(iq.buf) < 2*len(samps) {
		iq.buf = make([]byte, 2*len(samps))
	}
	buf := iq.buf[:2*len(samps)]
	if _, err := io.ReadFull(iq.r, buf); err != nil {
		return err
	}
	for i := range samps {
		samps[i] = complex(
			(float32(buf[2*i])-127)/128.0,
			(float32(buf[2*i+1])-127)/128.0)
	}
	return nil
}

// BatchStream64 reads batches of samples until the reader fails or ctx is
// canceled. The channel is closed on exit; Err reports why.
func (iq *IQReader) BatchStream64(ctx context.Context, batch int) <-chan []complex64 {
	ch := make(chan []complex64, 1)
	go func() {
		defer close(ch)
		for ctx.Err() == nil {
			samps := make([]complex64, batch)
			if iq.err = iq.Read64(samps); iq.err != nil {
				return
			}
			select {
			case ch <- samps:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
