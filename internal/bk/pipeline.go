package bk

import (
	"database/sql"
	"errors"
	"fmt"
)

// Pipeline is the orchestration layer that walks the input directories and
// runs every discovered file through classify, stat, hash, archive and
// catalog, in that order, one file at a time.
//
// The pipeline owns the archive and catalog handles for the duration of a
// run. Per-file failures are recorded in the catalog and never abort the run.
type Pipeline struct {
	fsmgr    FilesystemManager
	hasher   Hasher
	archive  Archive
	catalog  Catalog
	policy   *ExclusionPolicy
	logger   Logger
	clock    Clock
	progress Progress
}

// NewPipeline creates a Pipeline with the provided dependencies.
func NewPipeline(fsmgr FilesystemManager, hasher Hasher, archive Archive, catalog Catalog, policy *ExclusionPolicy, logger Logger, clock Clock) *Pipeline {
	return &Pipeline{
		fsmgr:   fsmgr,
		hasher:  hasher,
		archive: archive,
		catalog: catalog,
		policy:  policy,
		logger:  logger,
		clock:   clock,
	}
}

// SetProgress installs an observer notified after each file is processed.
func (p *Pipeline) SetProgress(progress Progress) {
	p.progress = progress
}

// NewBackupRun starts a run record for the given configuration values.
// The start time is taken from clock.
func NewBackupRun(id, name string, inputDirs []string, outputDir string, clock Clock) *BackupRun {
	return &BackupRun{
		ID:        id,
		Name:      name,
		InputDirs: append([]string(nil), inputDirs...),
		OutputDir: outputDir,
		StartedAt: clock.Now(),
	}
}

// Run processes every file under run.InputDirs, closes the archive and
// records the run in the catalog. run is updated in place.
//
// The returned error is non-nil only for run-level failures: the archive
// could not be finalized or the run row could not be written.
func (p *Pipeline) Run(run *BackupRun) error {
	run.ArchivePath = p.archive.Path()
	run.CatalogPath = p.catalog.Path()
	run.HashAlgorithm = p.hasher.Algorithm()
	run.Compression = p.archive.Compression()

	p.logger.Info("backup started", "name", run.Name, "archive", run.ArchivePath, "catalog", run.CatalogPath)

	for _, dir := range run.InputDirs {
		err := p.fsmgr.Walk(dir, func(path string, walkErr error) error {
			if walkErr != nil {
				p.logger.Warn("skipping unreadable directory", "path", path, "err", walkErr)
				return nil
			}
			p.processFile(run, path)
			return nil
		})
		if err != nil {
			p.logger.Error("walking input directory", "path", dir, "err", err)
		}
	}

	var archiveErr error
	if err := p.archive.Close(); err != nil {
		archiveErr = fmt.Errorf("finalizing archive: %w", err)
		p.logger.Error("finalizing archive", "path", run.ArchivePath, "err", err)
	}

	run.FinishedAt = p.clock.Now()

	if err := p.catalog.RecordRun(run, p.policy); err != nil {
		return errors.Join(archiveErr, fmt.Errorf("recording run: %w", err))
	}

	p.logger.Info("backup complete",
		"allowed", run.Stats.FilesAllowed,
		"excluded", run.Stats.FilesExcluded,
		"errored", run.Stats.FilesErrored,
		"rejected", run.Stats.FilesRejected,
	)
	return archiveErr
}

// processFile runs one file through the per-file state machine and
// records the outcome.
func (p *Pipeline) processFile(run *BackupRun, path string) {
	record, t := p.examine(run, path)

	start := p.clock.Now()
	err := p.catalog.RecordFile(record)
	elapsed := p.clock.Now().Sub(start)

	if err != nil {
		run.Stats.FilesRejected++
		if errors.Is(err, ErrDuplicatePath) {
			p.logger.Error("catalog integrity violation", "path", path, "err", err)
		} else {
			p.logger.Error("recording file", "path", path, "err", err)
		}
		return
	}

	run.Stats.FileInserts++
	run.Stats.FileInsertTime += elapsed
	run.Stats.apply(t)

	p.logger.Debug("file processed", "path", path, "outcome", record.Outcome.String())

	if p.progress != nil {
		p.progress.FileProcessed(record, run.Stats)
	}
}

// examine performs classify, stat, hash and archive for one file and
// returns the record to persist plus its pending counter contribution.
// Hash and archive timings are added to run even if the row is rejected.
func (p *Pipeline) examine(run *BackupRun, absPath string) (*FileRecord, tally) {
	record := &FileRecord{
		Path:    absPath,
		Outcome: p.policy.Classify(absPath),
	}

	path, err := p.fsmgr.Stat(absPath)
	if err != nil {
		p.logger.Warn("stat failed", "path", absPath, "err", err)
		record.Outcome = OutcomeReadError
		return record, tally{outcome: record.Outcome}
	}

	size := path.Size()
	record.Size = sql.NullInt64{Int64: size, Valid: true}
	record.ModifiedAt = sql.NullTime{Time: path.Info().ModTime(), Valid: true}
	if stat, err := p.fsmgr.ExtractStatData(path.Info()); err == nil {
		record.AccessedAt = sql.NullTime{Time: stat.Atime, Valid: true}
	} else {
		p.logger.Debug("no access time available", "path", absPath, "err", err)
	}

	t := tally{size: size}

	if path.IsRegular() && p.policy.ShouldHash(record.Outcome, size) {
		start := p.clock.Now()
		digest, err := p.hashFile(path)
		run.Stats.HashTime += p.clock.Now().Sub(start)
		if err != nil {
			p.logger.Warn("hash failed", "path", absPath, "err", err)
			record.Outcome = OutcomeReadError
		} else {
			record.Digest = sql.NullString{String: digest, Valid: true}
			t.hashed = true
		}
	}

	if record.Outcome == OutcomeAccepted {
		start := p.clock.Now()
		err := p.archiveFile(path)
		elapsed := p.clock.Now().Sub(start)
		if err != nil {
			p.logger.Warn("archive append failed", "path", absPath, "err", err)
			record.Outcome = OutcomeArchiveError
		} else {
			run.Stats.ArchiveAddTime += elapsed
		}
	}

	t.outcome = record.Outcome
	return record, t
}

// hashFile digests the file's full content.
func (p *Pipeline) hashFile(path *Path) (string, error) {
	r, err := p.fsmgr.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening for hash: %w", ErrRead, err)
	}
	defer r.Close()

	digest, err := p.hasher.Hash(r)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRead, err)
	}
	return digest, nil
}

// archiveFile appends the file to the archive. Only regular files are
// opened; other entry types are header-only.
func (p *Pipeline) archiveFile(path *Path) error {
	if !path.IsRegular() {
		return p.archive.Add(path, nil)
	}

	r, err := p.fsmgr.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening for archive: %w", ErrArchive, err)
	}
	defer r.Close()

	return p.archive.Add(path, r)
}
