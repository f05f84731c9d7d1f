package daq

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNoSuchChannel is returned by the simulator when an input channel has
// no loopback pairing and no injected reading
var ErrNoSuchChannel = errors.New("no such channel")

// Simulator is an in-memory Driver used for tests and for serving in mock
// mode.  Output channels retain the last voltage written to them; input
// channels either mirror a paired output channel or return an injected
// reading.
type Simulator struct {
	sync.Mutex

	volts    map[string]float64
	inputs   map[string]float64
	loopback map[string]string
	failOpen map[string]error
	failXfer map[string]error
	opens    map[string]int
	closes   map[string]int
	writes   map[string]int
	journal  []string
}

// NewSimulator returns a Simulator with no channels configured
func NewSimulator() *Simulator {
	return &Simulator{
		volts:    make(map[string]float64),
		inputs:   make(map[string]float64),
		loopback: make(map[string]string),
		failOpen: make(map[string]error),
		failXfer: make(map[string]error),
		opens:    make(map[string]int),
		closes:   make(map[string]int),
		writes:   make(map[string]int),
	}
}

// Loopback mirrors the named output channel onto the named input channel,
// as if the two were wired together on the bench
func (s *Simulator) Loopback(input, output string) {
	s.Lock()
	defer s.Unlock()
	s.loopback[input] = output
}

// SetInput injects a reading on an input channel, overriding any loopback
func (s *Simulator) SetInput(channel string, volts float64) {
	s.Lock()
	defer s.Unlock()
	s.inputs[channel] = volts
}

// FailOpen makes every subsequent open of the named channel fail with err.
// Pass nil to heal the channel.
func (s *Simulator) FailOpen(channel string, err error) {
	s.Lock()
	defer s.Unlock()
	if err == nil {
		delete(s.failOpen, channel)
		return
	}
	s.failOpen[channel] = err
}

// FailTransfer makes every subsequent write or read on an open handle for
// the named channel fail with err.  Opens and closes still succeed, which
// exercises the release-on-failure path.  Pass nil to heal the channel.
func (s *Simulator) FailTransfer(channel string, err error) {
	s.Lock()
	defer s.Unlock()
	if err == nil {
		delete(s.failXfer, channel)
		return
	}
	s.failXfer[channel] = err
}

// Volts returns the last voltage written to an output channel
func (s *Simulator) Volts(channel string) (float64, bool) {
	s.Lock()
	defer s.Unlock()
	v, ok := s.volts[channel]
	return v, ok
}

// Opens returns how many times the named channel has been opened
func (s *Simulator) Opens(channel string) int {
	s.Lock()
	defer s.Unlock()
	return s.opens[channel]
}

// Closes returns how many times the named channel has been closed
func (s *Simulator) Closes(channel string) int {
	s.Lock()
	defer s.Unlock()
	return s.closes[channel]
}

// Writes returns how many voltages have been written to the named channel
func (s *Simulator) Writes(channel string) int {
	s.Lock()
	defer s.Unlock()
	return s.writes[channel]
}

// Journal returns the sequence of channel operations seen so far, entries
// like "open:ao0" or "write:ao1"
func (s *Simulator) Journal() []string {
	s.Lock()
	defer s.Unlock()
	out := make([]string, len(s.journal))
	copy(out, s.journal)
	return out
}

func (s *Simulator) record(op, channel string) {
	s.journal = append(s.journal, fmt.Sprintf("%s:%s", op, channel))
}

func (s *Simulator) open(channel string) error {
	s.Lock()
	defer s.Unlock()
	s.record("open", channel)
	if err, bad := s.failOpen[channel]; bad {
		return err
	}
	s.opens[channel]++
	return nil
}

// OpenOutput satisfies Driver
func (s *Simulator) OpenOutput(channel string) (VoltageWriter, error) {
	if err := s.open(channel); err != nil {
		return nil, err
	}
	return &simWriter{sim: s, channel: channel}, nil
}

// OpenInput satisfies Driver
func (s *Simulator) OpenInput(channel string) (VoltageReader, error) {
	if err := s.open(channel); err != nil {
		return nil, err
	}
	return &simReader{sim: s, channel: channel}, nil
}

type simWriter struct {
	sim     *Simulator
	channel string
}

func (w *simWriter) Write(volts float64) error {
	s := w.sim
	s.Lock()
	defer s.Unlock()
	s.record("write", w.channel)
	if err, bad := s.failXfer[w.channel]; bad {
		return err
	}
	s.volts[w.channel] = volts
	s.writes[w.channel]++
	return nil
}

func (w *simWriter) Close() error {
	s := w.sim
	s.Lock()
	defer s.Unlock()
	s.record("close", w.channel)
	s.closes[w.channel]++
	return nil
}

type simReader struct {
	sim     *Simulator
	channel string
}

func (r *simReader) Read() (float64, error) {
	s := r.sim
	s.Lock()
	defer s.Unlock()
	s.record("read", r.channel)
	if err, bad := s.failXfer[r.channel]; bad {
		return 0, err
	}
	if v, ok := s.inputs[r.channel]; ok {
		return v, nil
	}
	if out, ok := s.loopback[r.channel]; ok {
		return s.volts[out], nil
	}
	return 0, ErrNoSuchChannel
}

func (r *simReader) Close() error {
	s := r.sim
	s.Lock()
	defer s.Unlock()
	s.record("close", r.channel)
	s.closes[r.channel]++
	return nil
}
