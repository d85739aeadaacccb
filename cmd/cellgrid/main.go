package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/cellgrid/cellgrid"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	writeConfig := flag.String("write-config", "", "write the default config to this path and exit")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log := cellgrid.NewDefaultLogger("cellgrid", *debug)

	if *writeConfig != "" {
		if err := cellgrid.DefaultConfig().Save(*writeConfig); err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := cellgrid.LoadConfig(*configPath)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	if cfg.Debug {
		log.SetDebug(true)
	}

	if err := cellgrid.Run(cfg, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
