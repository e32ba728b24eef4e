package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	ColName          = "Movie Name"
	ColYear          = "Year of Release"
	ColTime          = "Run Time in minutes"
	ColRating        = "Movie Rating"
	ColVotes         = "Votes"
	ColMetaScore     = "MetaScore"
	ColGross         = "Gross"
	ColGenre         = "Genre"
	ColDirector      = "Director"
	ColStars         = "Stars"
	ColCertification = "Certification"
	ColDescription   = "Description"
)

// Columns lists every header the movie CSV must carry
var Columns = []string{
	ColName, ColYear, ColTime, ColRating, ColVotes, ColMetaScore,
	ColGross, ColGenre, ColDirector, ColStars, ColCertification, ColDescription,
}

var ErrMissingColumn = errors.New("missing csv column")

// Row is one data line of the CSV, keyed by header name
type Row struct {
	Line   int
	Fields map[string]string
}

func (r Row) Get(col string) string {
	return strings.TrimSpace(r.Fields[col])
}

// ReadRows parses the whole CSV. Columns outside Columns are ignored.
func ReadRows(src io.Reader) ([]Row, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	var missing []string
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		fields := make(map[string]string, len(Columns))
		for _, col := range Columns {
			if i := index[col]; i < len(record) {
				fields[col] = record[i]
			}
		}
		rows = append(rows, Row{Line: line, Fields: fields})
	}
	return rows, nil
}
