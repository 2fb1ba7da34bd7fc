package migrationapi

import "fmt"

// HTTPStatusError represents a non-2xx response of the SharePoint REST api.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("migration api request failed (%s): %s", e.Status, e.Body)
	}
	return fmt.Sprintf("migration api request failed (%s)", e.Status)
}
