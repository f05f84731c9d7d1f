// Package piezosrv contains the machinery for an HTTP server exposing a
// three axis piezo stage.
package piezosrv

import (
	"os"
	"strings"

	"github.com/knadh/koanf"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	yml "gopkg.in/yaml.v2"

	"github.com/gadamc/nipiezeojenapy/piezo"
)

// Config holds the initialization parameters for the server and the stage.
// It is populated from defaults overlaid with a YAML file.
type Config struct {
	// Addr is the address to listen at, e.g. :8000
	Addr string `yaml:"Addr"`

	// Endpoint is the mount point for the stage routes,
	// e.g. "omc/piezo" produces routes of /omc/piezo/pos etc.
	Endpoint string `yaml:"Endpoint"`

	// Mock substitutes an in-memory simulator for the DAQ hardware
	Mock bool `yaml:"Mock"`

	// Device is the DAQmx device name, e.g. Dev1
	Device string `yaml:"Device"`

	// MoveRate bounds sustained motion commands per second, 0 = unlimited
	MoveRate float64 `yaml:"MoveRate"`

	// Stage holds the per-axis channel names and ranges
	Stage piezo.Config `yaml:"Stage"`
}

// DefaultConfig mirrors the factory wiring of a three channel amplifier:
// ao0..ao2 drive X, Y, Z, no feedback channels, 0-10 V over 80 microns
func DefaultConfig() Config {
	return Config{
		Addr:     ":8000",
		Endpoint: "/piezo",
		Device:   "Dev1",
		MoveRate: 20,
		Stage: piezo.Config{
			X: piezo.AxisConfig{WriteChannel: "ao0"},
			Y: piezo.AxisConfig{WriteChannel: "ao1"},
			Z: piezo.AxisConfig{WriteChannel: "ao2"},
		},
	}
}

// LoadConfig overlays the YAML file at path onto the defaults.  A missing
// file is not an error; the defaults stand.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, err
	}
	if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
		if !strings.Contains(err.Error(), "no such") { // file missing, who cares
			return Config{}, err
		}
	}
	c := Config{}
	err := k.Unmarshal("", &c)
	return c, err
}

// WriteConfig serializes cfg as YAML to path, for the mkconf subcommand
func WriteConfig(cfg Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return yml.NewEncoder(f).Encode(cfg)
}
