package curator

import "fmt"

// notFoundError signals a missing catalog entity for 404 mapping.
type notFoundError struct {
	kind string
	id   int64
}

func (e notFoundError) Error() string { return fmt.Sprintf("%s %d not found", e.kind, e.id) }

// IsNotFound reports whether err indicates a missing image or location.
func IsNotFound(err error) bool {
	_, ok := err.(notFoundError)
	return ok
}

// locationExistsError signals a duplicate import directory for 409 mapping.
type locationExistsError struct{ dir string }

func (e locationExistsError) Error() string {
	return "import location already exists: " + e.dir
}

// IsLocationExists reports whether err indicates a duplicate location.
func IsLocationExists(err error) bool {
	_, ok := err.(locationExistsError)
	return ok
}

// badLocationError signals an unusable directory for 400 mapping.
type badLocationError struct {
	dir    string
	reason string
}

func (e badLocationError) Error() string {
	return fmt.Sprintf("invalid import location %s: %s", e.dir, e.reason)
}

// IsBadLocation reports whether err indicates an unusable directory.
func IsBadLocation(err error) bool {
	_, ok := err.(badLocationError)
	return ok
}

// invalidQueryError signals an unusable search query for 400 mapping.
type invalidQueryError struct{ reason string }

func (e invalidQueryError) Error() string { return "invalid query: " + e.reason }

// IsInvalidQuery reports whether err indicates an unusable search query.
func IsInvalidQuery(err error) bool {
	_, ok := err.(invalidQueryError)
	return ok
}

// busyError signals that a background run is already in progress (409).
type busyError struct{ op string }

func (e busyError) Error() string { return e.op + " already running" }

// IsBusy reports whether err indicates an in-progress run.
func IsBusy(err error) bool {
	_, ok := err.(busyError)
	return ok
}

// goneError signals a catalog row whose file vanished from disk (410).
type goneError struct{ path string }

func (e goneError) Error() string { return "file no longer on disk: " + e.path }

// IsGone reports whether err indicates a vanished file.
func IsGone(err error) bool {
	_, ok := err.(goneError)
	return ok
}
