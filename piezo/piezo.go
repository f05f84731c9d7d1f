// Package piezo provides closed or open loop position control of a three
// axis piezo stage driven through a multi-channel amplifier on the analog
// channels of a data acquisition device.
//
// The controller owns the axis-to-channel mapping and the per-axis affine
// scaling between position and voltage.  It holds no hardware resource
// between calls; each move or read claims the channel for the duration of
// one scalar transfer and releases it again, so external programs may share
// the device.  Axes without a read channel degrade to reporting the last
// commanded position.
package piezo

import (
	"fmt"
	"strings"

	"github.com/gadamc/nipiezeojenapy/daq"
)

// Axis is one of the three motion degrees of freedom of the stage
type Axis int

// The axes, in the fixed order multi-axis operations resolve them
const (
	X Axis = iota
	Y
	Z
)

// Axes lists the axes in their fixed order
var Axes = [3]Axis{X, Y, Z}

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// ParseAxis converts an axis label ("x", "X", ...) to an Axis
func ParseAxis(s string) (Axis, error) {
	switch strings.ToUpper(s) {
	case "X":
		return X, nil
	case "Y":
		return Y, nil
	case "Z":
		return Z, nil
	}
	return 0, fmt.Errorf("piezo: unknown axis %q", s)
}

// AxisConfig is the immutable per-axis configuration.  The position to
// voltage mapping is the unique affine function through the two boundary
// pairs (PMin, VMin) and (PMax, VMax).
type AxisConfig struct {
	// WriteChannel is the analog output channel driving the axis, e.g. ao0
	WriteChannel string `yaml:"WriteChannel"`

	// ReadChannel is the analog input channel carrying the amplifier's
	// sensed position, e.g. ai0.  Empty means the axis has no feedback
	// and reported positions come from the last commanded value.
	ReadChannel string `yaml:"ReadChannel"`

	// VMin and VMax span the command voltage range, default 0-10
	VMin float64 `yaml:"VMin"`
	VMax float64 `yaml:"VMax"`

	// PMin and PMax span the stage travel, default 0-80 (microns at the
	// common 8 um/V amplifier gain)
	PMin float64 `yaml:"PMin"`
	PMax float64 `yaml:"PMax"`
}

func (ac AxisConfig) withDefaults() AxisConfig {
	if ac.VMin == 0 && ac.VMax == 0 {
		ac.VMax = 10
	}
	if ac.PMin == 0 && ac.PMax == 0 {
		ac.PMax = 80
	}
	return ac
}

// PositionToVoltage converts a stage position to a command voltage
func (ac AxisConfig) PositionToVoltage(pos float64) float64 {
	return ac.VMin + (pos-ac.PMin)*(ac.VMax-ac.VMin)/(ac.PMax-ac.PMin)
}

// VoltageToPosition converts a sensed voltage to a stage position.  The
// result is not clamped to [PMin, PMax]; an out of range reading reflects
// genuine amplifier behavior such as overshoot and is returned as-is.
func (ac AxisConfig) VoltageToPosition(volts float64) float64 {
	return ac.PMin + (volts-ac.VMin)*(ac.PMax-ac.PMin)/(ac.VMax-ac.VMin)
}

// Config holds the axis configurations and the seed value for the last
// known position cache
type Config struct {
	X AxisConfig `yaml:"X"`
	Y AxisConfig `yaml:"Y"`
	Z AxisConfig `yaml:"Z"`

	// Initial seeds the last known position cache of every axis; it is
	// what GetPos reports for a feedback-less axis before the first move
	Initial float64 `yaml:"Initial"`
}

// RangeError is a requested position outside the configured travel of an
// axis.  It is detected before any hardware access.
type RangeError struct {
	Axis Axis

	Value, Min, Max float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("piezo: position %g on %s outside travel [%g, %g]",
		e.Value, e.Axis, e.Min, e.Max)
}

// ConfigurationError is a malformed AxisConfig detected at construction
type ConfigurationError struct {
	Axis Axis

	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("piezo: axis %s misconfigured: %s", e.Axis, e.Reason)
}

// Controller is a position-oriented interface to the stage.  It is
// deliberately lock-free: every call independently claims and releases its
// hardware channel, and callers needing atomic multi-axis motion must
// serialize externally.
type Controller struct {
	adapter *daq.Adapter

	axes [3]AxisConfig

	// last commanded position per axis, the fallback source of truth for
	// axes without a read channel.  Overwritten only by successful moves.
	last [3]float64
}

// New validates the configuration and returns a Controller.  Voltage and
// position ranges left zero take their defaults (0-10 V, 0-80 travel).
func New(adapter *daq.Adapter, cfg Config) (*Controller, error) {
	c := &Controller{adapter: adapter}
	for _, ax := range Axes {
		ac := cfg.axis(ax).withDefaults()
		if ac.WriteChannel == "" {
			return nil, &ConfigurationError{Axis: ax, Reason: "write channel is required"}
		}
		if ac.VMin >= ac.VMax {
			return nil, &ConfigurationError{Axis: ax,
				Reason: fmt.Sprintf("voltage range [%g, %g] is not ascending", ac.VMin, ac.VMax)}
		}
		if ac.PMin >= ac.PMax {
			return nil, &ConfigurationError{Axis: ax,
				Reason: fmt.Sprintf("position range [%g, %g] is not ascending", ac.PMin, ac.PMax)}
		}
		c.axes[ax] = ac
		c.last[ax] = cfg.Initial
	}
	return c, nil
}

func (cfg Config) axis(ax Axis) AxisConfig {
	switch ax {
	case X:
		return cfg.X
	case Y:
		return cfg.Y
	}
	return cfg.Z
}

// AxisConfig returns the resolved configuration of an axis, defaults applied
func (c *Controller) AxisConfig(ax Axis) AxisConfig {
	return c.axes[ax]
}

// Move commands an axis to an absolute position.  The target is validated
// against the axis travel before any hardware access; the last known
// position is updated only after the write succeeds, so a hardware fault
// cannot corrupt the fallback state.
func (c *Controller) Move(ax Axis, pos float64) error {
	ac := c.axes[ax]
	if pos < ac.PMin || pos > ac.PMax {
		return &RangeError{Axis: ax, Value: pos, Min: ac.PMin, Max: ac.PMax}
	}
	err := c.adapter.WriteVoltage(ac.WriteChannel, ac.PositionToVoltage(pos))
	if err != nil {
		return err
	}
	c.last[ax] = pos
	return nil
}

// MoveAll commands all three axes in the fixed order X, Y, Z.  The move is
// best-effort, not atomic: every axis is attempted regardless of earlier
// failures, and the first error encountered is returned.  Axes that moved
// before or after a failing one keep their physical motion and their cache
// update.
func (c *Controller) MoveAll(x, y, z float64) error {
	var first error
	targets := [3]float64{x, y, z}
	for _, ax := range Axes {
		err := c.Move(ax, targets[ax])
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

// GetPos reports the position of an axis.  With a read channel configured
// the live value is sampled and converted through the inverse affine map;
// the cache is not touched.  Without one, the last commanded position is
// returned with no hardware access.
func (c *Controller) GetPos(ax Axis) (float64, error) {
	ac := c.axes[ax]
	if ac.ReadChannel == "" {
		return c.last[ax], nil
	}
	volts, err := c.adapter.ReadVoltage(ac.ReadChannel)
	if err != nil {
		return 0, err
	}
	return ac.VoltageToPosition(volts), nil
}

// GetPosAll reports all three axes in the fixed order X, Y, Z.  Resolution
// is best-effort: a read failure on one axis does not suppress the others,
// and the first error encountered is returned alongside whatever was
// resolved.
func (c *Controller) GetPosAll() ([3]float64, error) {
	var (
		out   [3]float64
		first error
	)
	for _, ax := range Axes {
		pos, err := c.GetPos(ax)
		if err != nil {
			if first == nil {
				first = err
			}
			continue
		}
		out[ax] = pos
	}
	return out, first
}

// MoveRel moves an axis by a delta from its current position.  The base is
// taken from GetPos, so it is feedback-aware when the axis has a read
// channel.
func (c *Controller) MoveRel(ax Axis, delta float64) error {
	base, err := c.GetPos(ax)
	if err != nil {
		return err
	}
	return c.Move(ax, base+delta)
}

// Home moves an axis to the low end of its travel
func (c *Controller) Home(ax Axis) error {
	return c.Move(ax, c.axes[ax].PMin)
}
