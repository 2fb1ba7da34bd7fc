package provision

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/spo-migrator/internal/models"
)

const (
	columnFilename     = "Filename"
	columnTitle        = "Title"
	columnLastModified = "LastModified"
	columnContent      = "Content"
)

// ReadWorkbook reads the inventory from the first sheet of an xlsx workbook.
//
// The first row is the header. Filename is required; Title, LastModified
// (RFC3339) and Content are optional. Every other column is a property.
// Rows without a filename are skipped. A file without Content gets its title
// as content.
func (p *Provisioner) ReadWorkbook(r io.Reader) ([]Item, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheet")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	header := make([]string, len(rows[0]))
	filenameCol := -1
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
		if header[i] == columnFilename {
			filenameCol = i
		}
	}
	if filenameCol < 0 {
		return nil, fmt.Errorf("sheet %s has no %s column", sheets[0], columnFilename)
	}

	now := p.now().UTC().Truncate(time.Second)
	var items []Item
	for n, row := range rows[1:] {
		if filenameCol >= len(row) || strings.TrimSpace(row[filenameCol]) == "" {
			continue
		}

		file := models.SourceFile{LastModified: now, Properties: make(map[string]string)}
		var content []byte
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			switch header[i] {
			case columnFilename:
				file.Filename = cell
			case columnTitle:
				file.Title = cell
			case columnContent:
				content = []byte(cell)
			case columnLastModified:
				if cell == "" {
					continue
				}
				t, err := time.Parse(time.RFC3339, cell)
				if err != nil {
					return nil, fmt.Errorf("row %d: invalid %s %q: %w", n+2, columnLastModified, cell, err)
				}
				file.LastModified = t.UTC()
			default:
				if cell != "" {
					file.Properties[header[i]] = cell
				}
			}
		}

		if content == nil {
			content = []byte(file.Title + "\n")
		}
		file.Size = int64(len(content))
		items = append(items, Item{File: file, Content: content})
	}

	p.logger.Debugw("workbook read", "sheet", sheets[0], "items", len(items))
	return items, nil
}
