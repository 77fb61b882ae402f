package output

import (
	"fmt"
	"io"

	"github.com/wegman-software/osm-housenames/internal/extract"
)

// WriteNames prints one name per line
func WriteNames(w io.Writer, names []string) error {
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

// WriteRenames prints "old -> new" per line
func WriteRenames(w io.Writer, changes []extract.NameChange) error {
	for _, c := range changes {
		if _, err := fmt.Fprintf(w, "%s -> %s\n", c.Old, c.New); err != nil {
			return err
		}
	}
	return nil
}
