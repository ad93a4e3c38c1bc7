package entry

import "errors"

// ErrMissingPath is returned when a save is attempted on an entry that
// has no filesystem path.
var ErrMissingPath = errors.New("entry has no path")

// ErrFileChanged is returned when the file on disk is newer than the
// state last synced from it and proceeding would clobber edits: a load
// would discard unsaved in-memory changes, a save would overwrite an
// external modification. Callers recover by reloading or by forcing the
// save with overwrite.
var ErrFileChanged = errors.New("file changed on disk")

// ErrNoMatch is returned when no registered entry type accepts a path.
var ErrNoMatch = errors.New("no entry type matches")

// ErrDuplicateType is returned when a type name is registered twice.
var ErrDuplicateType = errors.New("entry type already registered")
