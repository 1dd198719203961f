package store

import "fmt"

// ErrStorageUnavailable is returned when the database cannot be opened,
// configured or migrated. It is fatal for the process; callers should not retry.
type ErrStorageUnavailable struct {
	Path string
	Err  error
}

func (e *ErrStorageUnavailable) Error() string {
	return fmt.Sprintf("storage unavailable (%s): %v", e.Path, e.Err)
}

func (e *ErrStorageUnavailable) Unwrap() error {
	return e.Err
}

// ErrUnsupportedSchema means the database was written by a newer build.
type ErrUnsupportedSchema struct {
	Found     int
	Supported int
}

func (e *ErrUnsupportedSchema) Error() string {
	return fmt.Sprintf("database schema version %d is newer than supported version %d", e.Found, e.Supported)
}

// ImportStage names the step of an import that failed.
type ImportStage string

const (
	StageBegin    ImportStage = "begin"
	StageClear    ImportStage = "clear"
	StageAnswers  ImportStage = "answers"
	StageProgress ImportStage = "progress"
	StageHabits   ImportStage = "habits"
	StageCommit   ImportStage = "commit"
)

// ErrImportFailed is returned when writing an import bundle fails after
// validation passed. RolledBack reports whether the previous contents were
// restored; when false the store may be inconsistent and a re-import is
// recommended.
type ErrImportFailed struct {
	Stage      ImportStage
	RolledBack bool
	Err        error
}

func (e *ErrImportFailed) Error() string {
	if e.RolledBack {
		return fmt.Sprintf("import failed at %s (rolled back): %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("import failed at %s (store may be inconsistent, re-import recommended): %v", e.Stage, e.Err)
}

func (e *ErrImportFailed) Unwrap() error {
	return e.Err
}

// StorageError wraps an I/O failure with the operation that caused it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
