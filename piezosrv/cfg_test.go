package piezosrv

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileYieldsDefaults(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatal(err)
	}
	d := DefaultConfig()
	if c.Addr != d.Addr || c.Device != d.Device || c.Stage.X.WriteChannel != "ao0" {
		t.Errorf("expected pristine defaults, got %+v", c)
	}
}

func TestLoadConfigOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piezosrv.yml")
	content := `Addr: ":9000"
Mock: true
Stage:
  X:
    WriteChannel: ao4
    ReadChannel: ai4
    PMax: 100
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Addr != ":9000" || !c.Mock {
		t.Errorf("top level keys not overlaid: %+v", c)
	}
	if c.Stage.X.WriteChannel != "ao4" || c.Stage.X.ReadChannel != "ai4" || c.Stage.X.PMax != 100 {
		t.Errorf("nested stage keys not overlaid: %+v", c.Stage.X)
	}
	// untouched keys keep their defaults
	if c.Stage.Y.WriteChannel != "ao1" || c.Device != "Dev1" {
		t.Errorf("defaults lost during overlay: %+v", c)
	}
}

func TestWriteConfigRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piezosrv.yml")
	want := DefaultConfig()
	want.Endpoint = "/omc/piezo"
	if err := WriteConfig(want, path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}
