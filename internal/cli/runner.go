package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dicom-gateway/internal/config"
	"dicom-gateway/internal/deident"
	"dicom-gateway/internal/logging"
	"dicom-gateway/internal/pipeline"
	"dicom-gateway/internal/transfer"
)

// Run executes one batch run with the given configuration and prints a
// human-readable summary. Logs go to stderr so the progress bar owns
// stdout.
func Run(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(os.Stderr, "dicom-gateway", cfg.Log.Level)

	engine, err := deident.NewEngine(deident.DefaultPolicy())
	if err != nil {
		return fmt.Errorf("could not build de-identification engine: %w", err)
	}

	ctx := context.Background()

	var transport transfer.Transport
	switch cfg.Transport.Mode {
	case "minio":
		transport, err = transfer.NewObjectStore(ctx, transfer.ObjectStoreConfig{
			Endpoint:  cfg.Transport.Minio.Endpoint,
			AccessKey: cfg.Transport.Minio.AccessKey,
			SecretKey: cfg.Transport.Minio.SecretKey,
			Bucket:    cfg.Transport.Minio.Bucket,
			Region:    cfg.Transport.Minio.Region,
			UseSSL:    cfg.Transport.Minio.UseSSL,
		}, log)
		if err != nil {
			return fmt.Errorf("could not connect to object store: %w", err)
		}
	default:
		transport = transfer.NewSimulator(transfer.SimulatorConfig{
			MaxAttempts: cfg.Pipeline.Retry.MaxAttempts,
			BaseDelay:   cfg.BaseDelay(),
			MaxDelay:    cfg.MaxDelay(),
			FailureRate: cfg.Pipeline.FailureRate,
		}, log)
	}

	printHeader(cfg)

	pb := newProgressBar(50)
	p := pipeline.New(pipeline.Config{
		Station:  cfg.Station.Name,
		MaxFiles: cfg.Pipeline.MaxFiles,
		OnResult: func(current, total int, _ pipeline.Result) {
			pb.update(current, total)
		},
	}, engine, transport, log)

	report := p.ProcessFolder(ctx, cfg.Paths.InputFolder, cfg.Paths.OutputFolder)
	if report.TotalFiles > 0 {
		fmt.Println()
	}

	fmt.Println(report.Summary())

	reportPath := filepath.Join(cfg.Paths.ReportsFolder,
		fmt.Sprintf("pipeline_report_%s.json", report.RunID))
	if err := report.WriteJSON(reportPath); err != nil {
		return err
	}
	fmt.Printf("Report:    %s\n", reportPath)

	return nil
}

// printHeader prints the run configuration.
func printHeader(cfg config.Config) {
	fmt.Println("Medical Data Gateway")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Input:     %s\n", cfg.Paths.InputFolder)
	fmt.Printf("Output:    %s\n", cfg.Paths.OutputFolder)
	fmt.Printf("Station:   %s\n", cfg.Station.Name)
	fmt.Printf("Transport: %s\n", cfg.Transport.Mode)
	if cfg.Transport.Mode == "simulate" {
		fmt.Printf("Retry:     %d attempts, %.1fs base, %.1fs cap, %.0f%% drop rate\n",
			cfg.Pipeline.Retry.MaxAttempts,
			cfg.Pipeline.Retry.BaseDelayS,
			cfg.Pipeline.Retry.MaxDelayS,
			cfg.Pipeline.FailureRate*100)
	}
	if cfg.Pipeline.MaxFiles > 0 {
		fmt.Printf("Cap:       %d files\n", cfg.Pipeline.MaxFiles)
	}
	fmt.Println()
}

// progressBar renders a simple terminal progress bar.
type progressBar struct {
	width int
}

func newProgressBar(width int) *progressBar {
	return &progressBar{width: width}
}

func (pb *progressBar) update(current, total int) {
	if total == 0 {
		return
	}

	percent := float64(current) / float64(total)
	filled := int(percent * float64(pb.width))
	if filled > pb.width {
		filled = pb.width
	}

	bar := strings.Repeat("#", filled) + strings.Repeat("-", pb.width-filled)
	fmt.Printf("\r[%s] %3.0f%%  (%d/%d)", bar, percent*100, current, total)
}
