package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bsnap/internal/archive"
	"bsnap/internal/bk"
	"bsnap/internal/catalog"
	"bsnap/internal/config"
	"bsnap/internal/fs"
	"bsnap/internal/hash"
)

// StampLayout formats the run start time in archive and catalog file names.
const StampLayout = "060102-150405"

// BKApp is the application layer between the CLI and the backup pipeline.
// It validates the config and the directories it names, builds the
// pipeline's collaborators and owns the log file until Close.
type BKApp struct {
	cfg       *config.Config
	fsmgr     bk.FilesystemManager
	hasher    bk.Hasher
	policy    *bk.ExclusionPolicy
	logger    bk.Logger
	logFile   *os.File
	clock     bk.Clock
	runID     string
	inputDirs []string
	outputDir string
	progress  bk.Progress
}

// deps are the collaborators NewBKApp would otherwise create itself.
type deps struct {
	fsmgr  bk.FilesystemManager
	clock  bk.Clock
	ids    bk.IDGenerator
	stderr io.Writer
}

// NewBKApp creates a fully wired BKApp from the given config.
// Input and output directories are checked before anything is created.
// The caller must call Close when done.
func NewBKApp(cfg *config.Config) (*BKApp, error) {
	return newBKApp(cfg, deps{
		fsmgr:  fs.NewOSFilesystemManager(),
		clock:  bk.RealClock{},
		ids:    bk.UUIDGenerator{},
		stderr: os.Stderr,
	})
}

func newBKApp(cfg *config.Config, d deps) (*BKApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hasher, err := hash.NewHasherFromConfig(cfg.Hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	if _, err := archive.ParseCompression(cfg.Archive.Compression); err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	inputDirs := make([]string, 0, len(cfg.InputDirs))
	for _, dir := range cfg.InputDirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolving input directory %s: %w", dir, err)
		}
		if err := d.fsmgr.CheckDirectory(abs, bk.InputDirAccess); err != nil {
			return nil, fmt.Errorf("input directory: %w", err)
		}
		inputDirs = append(inputDirs, abs)
	}

	outputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolving output directory %s: %w", cfg.OutputDir, err)
	}
	if err := d.fsmgr.CheckDirectory(outputDir, bk.OutputDirAccess); err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}

	runID := d.ids.New()
	logger, logFile, err := newLogger(cfg.LogDir, runID, d.stderr)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return &BKApp{
		cfg:       cfg,
		fsmgr:     d.fsmgr,
		hasher:    hasher,
		policy:    bk.NewExclusionPolicy(cfg.ExcludedExts, cfg.HashExcludedMaxSize),
		logger:    &slogAdapter{l: logger},
		logFile:   logFile,
		clock:     d.clock,
		runID:     runID,
		inputDirs: inputDirs,
		outputDir: outputDir,
	}, nil
}

// SetProgress installs an observer notified after each cataloged file.
func (a *BKApp) SetProgress(p bk.Progress) {
	a.progress = p
}

// Run performs one backup: it creates the archive and the catalog in the
// output directory, runs the pipeline and closes both. The returned run is
// non-nil whenever the pipeline started, even if Run also returns an error.
func (a *BKApp) Run() (*bk.BackupRun, error) {
	run := bk.NewBackupRun(a.runID, a.cfg.Name, a.inputDirs, a.outputDir, a.clock)
	base := fmt.Sprintf("%s-%s", a.cfg.Name, run.StartedAt.Format(StampLayout))

	arch, err := archive.NewArchiveFromConfig(a.cfg.Archive, a.outputDir, base)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.NewCatalogForRun(a.outputDir, base)
	if err != nil {
		arch.Close()
		os.Remove(arch.Path())
		return nil, err
	}

	pipeline := bk.NewPipeline(a.fsmgr, a.hasher, arch, cat, a.policy, a.logger, a.clock)
	if a.progress != nil {
		pipeline.SetProgress(a.progress)
	}

	runErr := pipeline.Run(run)
	if err := cat.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("closing catalog: %w", err)
	}
	return run, runErr
}

// Close releases the log file.
func (a *BKApp) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
