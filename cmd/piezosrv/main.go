package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gadamc/nipiezeojenapy/daq"
	"github.com/gadamc/nipiezeojenapy/nidaq"
	"github.com/gadamc/nipiezeojenapy/piezosrv"
)

var (
	// Version is the version number.  Typically injected via ldflags with git build
	Version = "1"

	// ConfigFileName is what it sounds like
	ConfigFileName = "piezosrv.yml"
)

func root() {
	str := `piezosrv exposes a three axis piezo stage, driven through the analog
channels of a DAQ device, over HTTP.

Usage:
	piezosrv <command>

Commands:
	run
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `piezosrv is configured via its .yaml file.  For a primer on YAML, see
https://yaml.org/start.html

Without a configuration the server uses the factory wiring: X, Y, Z on
ao0..ao2 of Dev1, no feedback channels, 0-10 V over 80 microns of travel.

Per-axis options under Stage:
- WriteChannel: analog output channel, required
- ReadChannel: analog input channel for sensed position, optional;
  without one the axis reports the last commanded position
- VMin, VMax: command voltage range, default 0-10
- PMin, PMax: stage travel range, default 0-80

Set Mock: true to serve against an in-memory simulator with each read
channel looped back to its axis's write channel.`
	fmt.Println(str)
}

func mkconf() {
	err := piezosrv.WriteConfig(piezosrv.DefaultConfig(), ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c, err := piezosrv.LoadConfig(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	err = piezosrv.WriteConfig(c, "/dev/stdout")
	if err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("piezosrv version %v\n", Version)
}

func run() {
	c, err := piezosrv.LoadConfig(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	var drv daq.Driver
	if c.Mock {
		log.Println("mock mode; motion commands go to a simulator, not hardware")
		drv = piezosrv.NewSimulator(c)
	} else {
		drv = nidaq.New(c.Device)
	}
	log.Println("probing", c.Stage.X.WriteChannel, "to verify the DAQ is reachable")
	if err := piezosrv.Probe(c, drv); err != nil {
		log.Fatal("DAQ did not respond: ", err)
	}
	mux, err := piezosrv.BuildMux(c, drv)
	if err != nil {
		log.Fatal(err)
	}
	log.Println("now listening for requests at", c.Addr)
	log.Fatal(http.ListenAndServe(c.Addr, mux))
}

func main() {
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	switch strings.ToLower(args[1]) {
	case "help":
		help()
	case "mkconf":
		mkconf()
	case "conf":
		printconf()
	case "run":
		run()
	case "version":
		pversion()
	default:
		log.Fatal("unknown command")
	}
}
