// Package daq defines the boundary to the analog data acquisition subsystem
// and a per-operation adapter over it.
//
// The acquisition hardware is shared with other programs, so the adapter
// never holds a channel between calls: each write or read opens the channel,
// performs one scalar transfer, and closes it again before returning.
package daq

import "fmt"

// VoltageWriter is an open analog output channel
type VoltageWriter interface {
	// Write sends one scalar voltage to the channel
	Write(volts float64) error

	// Close releases the channel
	Close() error
}

// VoltageReader is an open analog input channel
type VoltageReader interface {
	// Read samples one scalar voltage from the channel
	Read() (float64, error)

	// Close releases the channel
	Close() error
}

// Driver is the opaque capability exposed by the acquisition subsystem.
// Implementations open a named channel for a single scalar transfer;
// any of open, write, read, or close may fail.
type Driver interface {
	// OpenOutput opens a named channel for analog output
	OpenOutput(channel string) (VoltageWriter, error)

	// OpenInput opens a named channel for analog input
	OpenInput(channel string) (VoltageReader, error)
}

// IOError is a channel open, write, read, or close failure reported by the
// acquisition subsystem
type IOError struct {
	// Channel is the driver-level name of the channel involved
	Channel string

	// Op is the operation that failed, one of open, write, read, close
	Op string

	// Err is the underlying driver error
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("daq: %s %s: %v", e.Op, e.Channel, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// RangeError is a commanded voltage outside the legal output span of the
// device.  It is detected before the channel is opened.
type RangeError struct {
	Channel string

	Volts, Min, Max float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("daq: %g V on %s outside legal output span [%g, %g]",
		e.Volts, e.Channel, e.Min, e.Max)
}

// Adapter performs single scalar transfers against named channels with a
// claim-and-release-immediately discipline.  It holds no hardware resource
// between calls.
type Adapter struct {
	drv Driver

	vmin, vmax float64
}

// NewAdapter returns an Adapter over the given driver with the common
// 0-10 V legal output span
func NewAdapter(d Driver) *Adapter {
	return &Adapter{drv: d, vmin: 0, vmax: 10}
}

// SetOutputSpan overrides the legal analog output span of the device
func (a *Adapter) SetOutputSpan(min, max float64) error {
	if min >= max {
		return fmt.Errorf("daq: output span min %g must be below max %g", min, max)
	}
	a.vmin = min
	a.vmax = max
	return nil
}

// OutputSpan returns the legal analog output span of the device
func (a *Adapter) OutputSpan() (min, max float64) {
	return a.vmin, a.vmax
}

// WriteVoltage opens the named output channel, writes one voltage, and
// closes the channel again on every exit path.  Voltages outside the legal
// output span are rejected before the channel is opened.
func (a *Adapter) WriteVoltage(channel string, volts float64) (err error) {
	if volts < a.vmin || volts > a.vmax {
		return &RangeError{Channel: channel, Volts: volts, Min: a.vmin, Max: a.vmax}
	}
	wr, err := a.drv.OpenOutput(channel)
	if err != nil {
		return &IOError{Channel: channel, Op: "open", Err: err}
	}
	defer func() {
		cerr := wr.Close()
		if cerr != nil && err == nil {
			err = &IOError{Channel: channel, Op: "close", Err: cerr}
		}
	}()
	err = wr.Write(volts)
	if err != nil {
		err = &IOError{Channel: channel, Op: "write", Err: err}
	}
	return err
}

// ReadVoltage opens the named input channel, samples one voltage, and
// closes the channel again on every exit path
func (a *Adapter) ReadVoltage(channel string) (volts float64, err error) {
	rd, err := a.drv.OpenInput(channel)
	if err != nil {
		return 0, &IOError{Channel: channel, Op: "open", Err: err}
	}
	defer func() {
		cerr := rd.Close()
		if cerr != nil && err == nil {
			err = &IOError{Channel: channel, Op: "close", Err: cerr}
		}
	}()
	volts, err = rd.Read()
	if err != nil {
		err = &IOError{Channel: channel, Op: "read", Err: err}
	}
	return volts, err
}
