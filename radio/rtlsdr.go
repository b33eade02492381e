package radio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"time"

	"github.com/kr/pty"
)

type RTLConfig struct {
	// Addr is the host:port of the rtl_tcp server.
	Addr string
	// Spawn launches rtl_tcp listening on Addr before connecting.
	Spawn bool
	// Device is the serial number or index passed to a spawned rtl_tcp.
	Device string
	// PPM is the frequency correction in parts per million.
	PPM int
	// BlockSize is the number of samples per streamed block.
	BlockSize   int
	DialTimeout time.Duration
	Logger      *slog.Logger
}

// RTLTuner drives an RTL-SDR dongle through rtl_tcp.
type RTLTuner struct {
	conn *rtlTCPConn
	cmd  *exec.Cmd
	fpty *os.File
	log  *slog.Logger

	center uint64
	rate   uint32
	gain   Gain

	block  int
	iqr    *IQReader
	framec chan []complex64
	cancel context.CancelFunc
}

func NewRTLTuner(ctx context.Context, cfg RTLConfig) (t *RTLTuner, err error) {
	if cfg.BlockSize <= 0 {
		return nil, fmt.Errorf("bad block size %d", cfg.BlockSize)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	sctx, cancel := context.WithCancel(context.Background())
	t = &RTLTuner{
		log:    cfg.Logger,
		block:  cfg.BlockSize,
		gain:   AutoGain,
		framec: make(chan []complex64, 1),
		cancel: cancel,
	}
	defer func() {
		if err != nil {
			t.Close()
		}
	}()
	if cfg.Spawn {
		if err = t.spawn(sctx, cfg); err != nil {
			return nil, err
		}
		// TODO: would like to wait for 'listening...' but need tty to line-buffer
		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if t.conn, err = connect(ctx, cfg.Addr, cfg.DialTimeout); err != nil {
		return nil, err
	}
	t.log.Info("connected to rtl_tcp", "addr", cfg.Addr, "tuner", t.conn.Info.Tuner, "gains", t.conn.Info.GainCount)
	if cfg.PPM != 0 {
		if err = t.conn.SetFreqCorrection(int32(cfg.PPM)); err != nil {
			return nil, err
		}
	}
	t.iqr = NewIQReader(t.conn)
	go t.stream(sctx)
	return t, nil
}

func (t *RTLTuner) spawn(ctx context.Context, cfg RTLConfig) error {
	host, port, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		return err
	}
	dev := cfg.Device
	if dev == "" {
		dev = "0"
	}
	t.cmd = exec.CommandContext(ctx, "rtl_tcp", "-a", host, "-p", port, "-d", dev)
	if t.fpty, err = pty.Start(t.cmd); err != nil {
		t.cmd = nil
		return fmt.Errorf("starting rtl_tcp: %w", err)
	}
	go io.Copy(os.Stderr, t.fpty)
	t.log.Info("launched rtl_tcp", "addr", cfg.Addr, "device", dev)
	return nil
}

func connect(ctx context.Context, addr string, timeout time.Duration) (c *rtlTCPConn, err error) {
	for i := 0; i < 10; i++ {
		if c, err = dialRTLTCP(addr, timeout); err == nil {
			return c, nil
		}
		time.Sleep(100 * time.Millisecond)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, err
}

// stream keeps the socket drained so a slow display loop sees recent samples
// instead of whatever queued up in the kernel.
func (t *RTLTuner) stream(ctx context.Context) {
	defer close(t.framec)
	for samps := range t.iqr.BatchStream64(ctx, t.block) {
		select {
		case t.framec <- samps:
		default:
			// Replace the stale block.
			select {
			case <-t.framec:
			default:
			}
			select {
			case t.framec <- samps:
			default:
			}
		}
	}
	if err := t.iqr.Err(); err != nil && ctx.Err() == nil {
		t.log.Error("rtl_tcp stream terminated", "err", err)
	}
}

// flush drops a block sampled with the old settings.
func (t *RTLTuner) flush() {
	select {
	case <-t.framec:
	default:
	}
}

func (t *RTLTuner) CenterHz() uint64   { return t.center }
func (t *RTLTuner) SampleRate() uint32 { return t.rate }
func (t *RTLTuner) Gain() Gain         { return t.gain }

func (t *RTLTuner) SetCenterHz(hz uint64) error {
	if !isValidFreq(hz) {
		return ErrFrequencyOutOfRange
	}
	if t.center == hz {
		return nil
	}
	if err := t.conn.SetCenterFreq(uint32(hz)); err != nil {
		return err
	}
	t.center = hz
	t.flush()
	return nil
}

func (t *RTLTuner) SetSampleRate(rate uint32) error {
	if !isValidRate(rate) {
		return ErrRateOutOfRange
	}
	if t.rate == rate {
		return nil
	}
	if err := t.conn.SetSampleRate(rate); err != nil {
		return err
	}
	t.rate = rate
	t.flush()
	return nil
}

func (t *RTLTuner) SetGain(g Gain) error {
	if !isValidGain(g) {
		return ErrGainOutOfRange
	}
	if err := t.conn.SetManualGain(!g.IsAuto()); err != nil {
		return err
	}
	if !g.IsAuto() {
		if err := t.conn.SetGain(g.tenths()); err != nil {
			return err
		}
	}
	t.gain = g
	t.flush()
	return nil
}

func (t *RTLTuner) ReadSamples(ctx context.Context, n int) ([]complex64, error) {
	if n > t.block {
		return nil, ErrBlockSize
	}
	select {
	case samps, ok := <-t.framec:
		if !ok {
			if err := t.iqr.Err(); err != nil {
				return nil, err
			}
			return nil, ErrClosed
		}
		return samps[:n], nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *RTLTuner) Close() error {
	t.cancel()
	var err error
	if t.conn != nil {
		err = t.conn.Close()
	}
	if t.cmd != nil {
		t.fpty.Close()
		t.cmd.Wait()
	}
	return err
}
