// Package export writes tabular sidecars of a built graph.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbaille/ankigraph/internal/domain"
)

// DefaultTagFile is the file name used for the tag dictionary
const DefaultTagFile = "tag_list.csv"

// WriteTagCSV writes the tag dictionary with a tag,tag_id header
func WriteTagCSV(w io.Writer, rows []domain.TagRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"tag", "tag_id"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Tag, strconv.Itoa(r.ID)}); err != nil {
			return fmt.Errorf("write row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteTagCSVFile writes the tag dictionary to path
func WriteTagCSVFile(path string, rows []domain.TagRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteTagCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteEdgeCSV writes an edge list with a source,target,weight header
func WriteEdgeCSV(w io.Writer, edges []domain.EdgeView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"source", "target", "weight"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range edges {
		row := []string{strconv.Itoa(e.A), strconv.Itoa(e.B), strconv.Itoa(e.Weight)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write edge %d-%d: %w", e.A, e.B, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
