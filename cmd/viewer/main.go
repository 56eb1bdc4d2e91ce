package main

import (
	"flag"
	"fmt"
	"os"

	"viewerhost/internal/app"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default $XDG_CONFIG_HOME/viewer/config.yaml)")
	headlessRun := flag.Bool("headless", false, "render without a window")
	snapshot := flag.String("snapshot", "", "with -headless, write the last frame to this PNG")
	frames := flag.Int("frames", 0, "with -headless, stop after this many frames (default 120)")
	flag.Parse()

	application, err := app.New(app.Options{
		ConfigPath: *configPath,
		Headless:   *headlessRun,
		Snapshot:   *snapshot,
		Frames:     *frames,
		Files:      flag.Args(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "viewer: %v\n", err)
		os.Exit(1)
	}
	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "viewer failed: %v\n", err)
		os.Exit(1)
	}
}
