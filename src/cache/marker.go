package cache

import (
	"fmt"
	"os"
	"time"
)

// MarkerPath returns the failure marker path for a named entry. The marker
// sits beside the entry directory, not inside it, so clearing the entry
// never clears the marker.
func (c *Cache) MarkerPath(name string) string {
	return c.EntryDir(name) + markerSuffix
}

// WriteMarker records terminal build failure for a named entry. The payload
// is an informational timestamp plus reason; only the file's presence is
// contractual.
func (c *Cache) WriteMarker(name string, reason error) error {
	f, err := os.OpenFile(c.MarkerPath(name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("writing failure marker for %s: %w", name, err)
	}
	defer f.Close()

	fmt.Fprintf(f, "%s all build attempts exhausted\n", time.Now().UTC().Format(time.RFC3339))
	if reason != nil {
		fmt.Fprintf(f, "last failure: %v\n", reason)
	}
	return nil
}

// MarkerPresent reports whether a failure marker exists for a named entry.
func (c *Cache) MarkerPresent(name string) bool {
	_, err := os.Stat(c.MarkerPath(name))
	return err == nil
}

// ClearMarker removes a stale failure marker, if any. Called at pipeline
// start so a fresh run begins with the marker absent.
func (c *Cache) ClearMarker(name string) error {
	err := os.Remove(c.MarkerPath(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing failure marker for %s: %w", name, err)
	}
	return nil
}
