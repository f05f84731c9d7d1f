// Package nidaq provides a Go interface to National Instruments DAQ devices
// through the NI-DAQmx C library.  It satisfies daq.Driver: each open call
// creates a one-shot DAQmx task on a single physical channel, and Close
// clears the task, releasing the channel for other programs.
package nidaq

/*
#cgo LDFLAGS: -lnidaqmx
#include <stdlib.h>
#include <NIDAQmx.h>
*/
import "C"
import (
	"fmt"
	"unsafe"

	"github.com/gadamc/nipiezeojenapy/daq"
)

// Device is a handle-less factory for channel tasks on one named DAQ
// device, e.g. "Dev1".  It retains no hardware resource; resources live
// only on the writers and readers it opens.
type Device struct {
	// Name is the DAQmx device name, e.g. Dev1
	Name string

	// VMin and VMax are the expected signal limits passed to DAQmx when
	// a channel is created
	VMin, VMax float64

	// Timeout is the per-transfer timeout in seconds
	Timeout float64
}

// New returns a Device with the common 0-10 V limits and a 10 second
// transfer timeout
func New(name string) *Device {
	return &Device{Name: name, VMin: 0, VMax: 10, Timeout: 10}
}

// status converts a DAQmx return code to a Go error, pulling the extended
// error text from the driver for negative codes
func status(code C.int32) error {
	if code >= 0 {
		return nil
	}
	buf := make([]C.char, 2048)
	C.DAQmxGetExtendedErrorInfo(&buf[0], C.uInt32(len(buf)))
	return fmt.Errorf("nidaq: [%d] %s", int(code), C.GoString(&buf[0]))
}

func (d *Device) physical(channel string) *C.char {
	return C.CString(d.Name + "/" + channel)
}

// OpenOutput creates a DAQmx task with one analog output voltage channel
func (d *Device) OpenOutput(channel string) (daq.VoltageWriter, error) {
	var th C.TaskHandle
	if err := status(C.DAQmxCreateTask(nil, &th)); err != nil {
		return nil, err
	}
	phys := d.physical(channel)
	defer C.free(unsafe.Pointer(phys))
	err := status(C.DAQmxCreateAOVoltageChan(th, phys, nil,
		C.float64(d.VMin), C.float64(d.VMax), C.DAQmx_Val_Volts, nil))
	if err != nil {
		C.DAQmxClearTask(th)
		return nil, err
	}
	return &aoTask{handle: th, timeout: d.Timeout}, nil
}

// OpenInput creates a DAQmx task with one analog input voltage channel
func (d *Device) OpenInput(channel string) (daq.VoltageReader, error) {
	var th C.TaskHandle
	if err := status(C.DAQmxCreateTask(nil, &th)); err != nil {
		return nil, err
	}
	phys := d.physical(channel)
	defer C.free(unsafe.Pointer(phys))
	err := status(C.DAQmxCreateAIVoltageChan(th, phys, nil, C.DAQmx_Val_Cfg_Default,
		C.float64(d.VMin), C.float64(d.VMax), C.DAQmx_Val_Volts, nil))
	if err != nil {
		C.DAQmxClearTask(th)
		return nil, err
	}
	return &aiTask{handle: th, timeout: d.Timeout}, nil
}

type aoTask struct {
	handle  C.TaskHandle
	timeout float64
}

// Write sends one scalar voltage; autostart is on, so the task starts and
// latches in a single driver call
func (t *aoTask) Write(volts float64) error {
	return status(C.DAQmxWriteAnalogScalarF64(t.handle, 1, C.float64(t.timeout),
		C.float64(volts), nil))
}

// Close clears the task, releasing the channel
func (t *aoTask) Close() error {
	return status(C.DAQmxClearTask(t.handle))
}

type aiTask struct {
	handle  C.TaskHandle
	timeout float64
}

// Read samples one scalar voltage
func (t *aiTask) Read() (float64, error) {
	var val C.float64
	err := status(C.DAQmxReadAnalogScalarF64(t.handle, C.float64(t.timeout), &val, nil))
	return float64(val), err
}

// Close clears the task, releasing the channel
func (t *aiTask) Close() error {
	return status(C.DAQmxClearTask(t.handle))
}
