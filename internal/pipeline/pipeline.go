package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"dicom-gateway/internal/deident"
	dcm "dicom-gateway/internal/dicom"
	"dicom-gateway/internal/transfer"
)

// OutputPrefix marks de-identified copies. Prefixing keeps the derivation
// lossless: two distinct input names can never collide.
const OutputPrefix = "Clean_"

// ProgressFunc is called after each record completes.
type ProgressFunc func(current, total int, result Result)

// Config holds the orchestrator settings.
type Config struct {
	// Station is the edge-device identifier stamped on every record.
	Station string

	// MaxFiles caps how many discovered records are processed. Zero means
	// process everything; the cap is a demo-safety ceiling, not a filter.
	MaxFiles int

	// OnResult, when set, receives each result as it is recorded.
	OnResult ProgressFunc
}

// Pipeline reads records from an input folder, de-identifies each one,
// persists the cleaned copy, and hands it to the transport. Records are
// processed strictly one at a time; faults are isolated per record.
type Pipeline struct {
	cfg       Config
	engine    *deident.Engine
	transport transfer.Transport
	log       *slog.Logger
}

// New wires an orchestrator from its collaborators.
func New(cfg Config, engine *deident.Engine, transport transfer.Transport, log *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		engine:    engine,
		transport: transport,
		log:       log,
	}
}

// ProcessFolder processes every record in inputDir and writes cleaned
// copies to outputDir. A missing input folder is a configuration
// condition, not a crash condition: it yields an empty report. The batch
// always visits every discovered record, however many of them fail.
func (p *Pipeline) ProcessFolder(ctx context.Context, inputDir, outputDir string) *Report {
	report := &Report{
		RunID:     uuid.NewString(),
		Station:   p.cfg.Station,
		StartedAt: time.Now().Format(time.RFC3339),
		Results:   []Result{},
	}
	start := time.Now()

	info, err := os.Stat(inputDir)
	if err != nil || !info.IsDir() {
		p.log.Error("input folder not found", "path", inputDir)
		return report
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		p.log.Error("could not create output folder", "path", outputDir, "error", err)
		return report
	}

	files, err := dcm.ListRecords(inputDir)
	if err != nil {
		p.log.Error("could not list input folder", "path", inputDir, "error", err)
		return report
	}

	if p.cfg.MaxFiles > 0 && len(files) > p.cfg.MaxFiles {
		files = files[:p.cfg.MaxFiles]
	}

	report.TotalFiles = len(files)
	p.log.Info("starting pipeline",
		"run_id", report.RunID,
		"files", report.TotalFiles,
		"station", p.cfg.Station)

	errLog, err := NewErrorLogger(filepath.Join(outputDir, "errors.log"))
	if err != nil {
		p.log.Warn("could not open error log, continuing without", "error", err)
		errLog = nil
	} else {
		defer errLog.Close()
	}

	for i, name := range files {
		result := p.processRecord(ctx, inputDir, outputDir, name)

		if result.Success {
			report.Processed++
		} else {
			report.Failed++
			if errLog != nil {
				errLog.Log(name, result.Error)
			}
		}
		report.Results = append(report.Results, result)

		if p.cfg.OnResult != nil {
			p.cfg.OnResult(i+1, report.TotalFiles, result)
		}
	}

	report.Elapsed = time.Since(start).Seconds()
	p.log.Info("pipeline finished",
		"run_id", report.RunID,
		"processed", report.Processed,
		"failed", report.Failed,
		"elapsed_s", report.Elapsed)
	return report
}

// processRecord handles one record end to end. Every error is captured in
// the Result so one corrupt or unreadable file never aborts the batch. A
// record that is cleaned and persisted but never delivered counts as
// failed: a persisted-but-unsent file is not a completed unit of work.
func (p *Pipeline) processRecord(ctx context.Context, inputDir, outputDir, name string) Result {
	start := time.Now()
	result := Result{Filename: name}

	err := func() error {
		ds, err := dcm.Read(filepath.Join(inputDir, name))
		if err != nil {
			return err
		}

		p.engine.Apply(ds, p.cfg.Station)

		outName := OutputPrefix + name
		outPath := filepath.Join(outputDir, outName)
		if err := ds.Save(outPath); err != nil {
			return err
		}
		p.log.Info("record de-identified", "file", name, "output", outName)

		// Persist happens before transfer: a failed upload still leaves
		// the cleaned copy on disk for a later run.
		return p.transport.Send(ctx, outName, outPath)
	}()

	result.Duration = time.Since(start).Seconds()
	if err != nil {
		result.Error = err.Error()
		p.log.Error("record failed", "file", name, "error", err)
		return result
	}

	result.Success = true
	return result
}
