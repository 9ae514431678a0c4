// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"comail.io/go/colog"
	"github.com/ninibe/bigduration"

	"github.com/jrjparks/opnfi-device/device"
	"github.com/jrjparks/opnfi-device/metrics"
	"github.com/jrjparks/opnfi-device/transport"
)

var (
	configPath   = flag.String("config", "./config/opnfi.toml", "Config file path")
	controller   = flag.String("controller", "unifi", "Management controller host")
	wanIface     = flag.String("wan", "", "WAN network interface name")
	lanIface     = flag.String("lan", "", "LAN network interface name")
	debug        = flag.Bool("debug", false, "Start on debug mode")
	logLevel     = flag.String("loglevel", "info", "Logging level")
	debugAddr    = flag.String("debug-listen", "", "Debug introspection listen address, empty disables it")
	pollInterval = flag.String("poll-interval", "200ms", "System stats sampling interval, e.g. 200ms, 1s")
	initInterval = flag.String("inform-interval", "", "Initial inform cadence until a controller NoOp overrides it, e.g. 10s; empty keeps the default")
)

func main() {
	flag.Parse()
	colog.Register()

	ll, err := colog.ParseLevel(*logLevel)
	fatalOn(err)
	colog.SetMinLevel(ll)

	if *debug {
		colog.SetFlags(log.LstdFlags | log.Lshortfile)
		colog.SetMinLevel(colog.LTrace)
	}

	log.Printf("info: config path %q", *configPath)
	log.Printf("info: reporting to controller %q", *controller)
	if *wanIface != "" {
		log.Printf("info: wan interface %q", *wanIface)
	}
	if *lanIface != "" {
		log.Printf("info: lan interface %q", *lanIface)
	}

	var opts []device.Option
	opts = append(opts, device.WithHostname(hostname()))
	if *initInterval != "" {
		bd, err := bigduration.ParseBigDuration(*initInterval)
		fatalOn(err)
		opts = append(opts, device.WithInitialInterval(bd.Nanos))
	}

	pollBD, err := bigduration.ParseBigDuration(*pollInterval)
	fatalOn(err)

	fleet := device.NewFleet(filepath.Dir(*configPath))
	_, err = fleet.RegisterAt(macFromConfigPath(*configPath), *configPath, opts...)
	fatalOn(err)

	if *debugAddr != "" {
		srv := transport.NewDebugServer(fleet)
		go func() {
			log.Printf("info: debug server listening on %q", *debugAddr)
			if err := http.ListenAndServe(*debugAddr, srv.Handler()); err != nil {
				log.Printf("error: debug server: %s", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Printf("info: received signal %s, shutting down", sig)
		cancel()
	}()

	client := transport.NewClient(*controller)
	collector := metrics.NewHostCollector(pollBD.Nanos)

	fleet.Run(ctx, client, collector)

	log.Print("info: shut down cleanly")
}

func fatalOn(err error) {
	if err != nil {
		log.Fatalf("alert: %s\n", err)
	}
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		log.Printf("warn: failed to read hostname: %s", err)
		return "opnfi-device"
	}
	return name
}

// macFromConfigPath derives a stable pseudo-MAC from the config file's
// base name so a single-device instance keeps the same identity
// across restarts without requiring its own flag. Multi-device
// deployments should register additional devices programmatically via
// the device.Fleet API instead of this CLI entry point.
func macFromConfigPath(path string) (mac [6]byte) {
	base := filepath.Base(path)
	sum := fnv32(base)
	mac[0] = 0x00
	mac[1] = 0xDE
	mac[2] = 0xAD
	mac[3] = byte(sum >> 16)
	mac[4] = byte(sum >> 8)
	mac[5] = byte(sum)
	return mac
}

func fnv32(s string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	hash := uint32(offset32)
	for i := 0; i < len(s); i++ {
		hash *= prime32
		hash ^= uint32(s[i])
	}
	return hash
}
