package fetch

import "fmt"

// FetchError is returned when the remote export cannot be retrieved or
// yields no usable rows. Exactly one of Err, Status or Empty describes the
// failure.
type FetchError struct {
	URL    string
	Status int   // non-2xx HTTP status, 0 if not applicable
	Empty  bool  // the response parsed to zero data rows
	Err    error // transport or parse failure
}

func (e *FetchError) Error() string {
	switch {
	case e.Empty:
		return fmt.Sprintf("fetch %s: export contained no data rows", e.URL)
	case e.Status != 0:
		return fmt.Sprintf("fetch %s: unexpected HTTP status %d", e.URL, e.Status)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
