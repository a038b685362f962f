package download

import "errors"

// ErrDownload is returned when a file could not be fetched and no cached
// copy can stand in for it.
var ErrDownload = errors.New("download failed")
