package bk

// Progress observes the pipeline as each file is cataloged.
type Progress interface {
	FileProcessed(record *FileRecord, stats RunStats)
}
