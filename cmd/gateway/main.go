package main

import (
	"flag"
	"fmt"
	"os"

	"dicom-gateway/internal/cli"
	"dicom-gateway/internal/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	configShort := flag.String("c", "", "Config file (shorthand)")

	input := flag.String("input", "", "Input folder containing raw DICOM files")
	inputShort := flag.String("i", "", "Input folder (shorthand)")

	output := flag.String("output", "", "Output folder for de-identified files")
	outputShort := flag.String("o", "", "Output folder (shorthand)")

	station := flag.String("station", "", "Edge-device identifier stamped on every record")
	maxFiles := flag.Int("max-files", -1, "Cap on files processed this run (0 = all)")
	failureRate := flag.Float64("failure-rate", -1, "Simulated per-attempt drop probability [0,1]")
	transportMode := flag.String("transport", "", "Transport mode: simulate or minio")

	flag.Parse()

	path := *configPath
	if *configShort != "" {
		path = *configShort
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the config file.
	if v := firstNonEmpty(*input, *inputShort); v != "" {
		cfg.Paths.InputFolder = v
	}
	if v := firstNonEmpty(*output, *outputShort); v != "" {
		cfg.Paths.OutputFolder = v
	}
	if *station != "" {
		cfg.Station.Name = *station
	}
	if *maxFiles >= 0 {
		cfg.Pipeline.MaxFiles = *maxFiles
	}
	if *failureRate >= 0 {
		cfg.Pipeline.FailureRate = *failureRate
	}
	if *transportMode != "" {
		cfg.Transport.Mode = *transportMode
	}

	if err := cli.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
