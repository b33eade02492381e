package radio

import (
	"encoding/binary"
	"fmt"
	"net"
	"time"
)

var dongleMagic = [...]byte{'R', 'T', 'L', '0'}

// rtlTCPConn is a connection to an rtl_tcp spectrum server. After the
// dongle header the server streams u8 I/Q samples; commands go the other way.
type rtlTCPConn struct {
	net.Conn
	Info DongleInfo
}

// dialRTLTCP connects to the server at addr ("127.0.0.1:1234") and reads
// the dongle header. The caller closes the connection.
func dialRTLTCP(addr string, timeout time.Duration) (c *rtlTCPConn, err error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("error connecting to spectrum server: %w", err)
	}
	defer func() {
		if err != nil {
			conn.Close()
		}
	}()
	c = &rtlTCPConn{Conn: conn}
	conn.SetReadDeadline(time.Now().Add(timeout))
	if err = binary.Read(conn, binary.BigEndian, &c.Info); err != nil {
		return nil, fmt.Errorf("error getting dongle information: %w", err)
	}
	conn.SetReadDeadline(time.Time{})
	if !c.Info.Valid() {
		return nil, fmt.Errorf("bad magic number: %q", c.Info.Magic)
	}
	return c, nil
}

// DongleInfo is data pulled from the server on connection.
type DongleInfo struct {
	Magic     [4]byte
	Tuner     uint32
	GainCount uint32
}

// Valid checks the received magic number matches 'RTL0'.
func (d DongleInfo) Valid() bool {
	return d.Magic == dongleMagic
}

type command struct {
	Command   uint8
	Parameter uint32
}

// Command constants defined in rtl_tcp.c
const (
	centerFreq = iota + 1
	sampleRate
	tunerGainMode
	tunerGain
	freqCorrection
	tunerIfGain
	testMode
	agcMode
)

func (c *rtlTCPConn) do(cmd uint8, v uint32) error {
	return binary.Write(c.Conn, binary.BigEndian, command{cmd, v})
}

func (c *rtlTCPConn) SetCenterFreq(freq uint32) error {
	return c.do(centerFreq, freq)
}

func (c *rtlTCPConn) SetSampleRate(rate uint32) error {
	return c.do(sampleRate, rate)
}

// SetGain sets gain in tenths of dB (197 => 19.7dB).
func (c *rtlTCPConn) SetGain(gain uint32) error {
	return c.do(tunerGain, gain)
}

// SetManualGain selects manual gain (true) or tuner AGC (false).
func (c *rtlTCPConn) SetManualGain(manual bool) error {
	if manual {
		return c.do(tunerGainMode, 1)
	}
	return c.do(tunerGainMode, 0)
}

func (c *rtlTCPConn) SetFreqCorrection(ppm int32) error {
	return c.do(freqCorrection, uint32(ppm))
}
