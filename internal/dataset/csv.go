package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/civora/priority/internal/features"
)

// TargetColumn is the CSV column holding the label.
const TargetColumn = "priority"

var encodedCSVColumns = []string{"issue_type", "weather", "temp", "traffic_delay", "repeat_count", "hour", TargetColumn}

// WriteOneHotCSV writes rows with the one-hot columns followed by the label.
func WriteOneHotCSV(w io.Writer, rows []OneHotRow) error {
	cw := csv.NewWriter(w)
	header := append(features.VariantOneHot.Columns(), TargetColumn)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		vec := r.Record.Vector()
		rec := make([]string, 0, len(vec)+1)
		for _, v := range vec {
			rec = append(rec, formatFloat(v))
		}
		rec = append(rec, formatFloat(r.Priority))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadOneHotCSV reads a table written by WriteOneHotCSV. Columns are matched by
// name; boolean cells (True/False) are read as 1/0.
func ReadOneHotCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read header: %w", err)
	}

	want := append(features.VariantOneHot.Columns(), TargetColumn)
	pos, err := columnPositions(header, want)
	if err != nil {
		return Table{}, err
	}

	table := Table{Columns: features.VariantOneHot.Columns()}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("line %d: %w", line, err)
		}

		vals := make([]float64, len(want))
		for i, p := range pos {
			v, err := parseCell(rec[p])
			if err != nil {
				return Table{}, fmt.Errorf("line %d, column %s: %w", line, want[i], err)
			}
			vals[i] = v
		}
		table.Append(vals[:len(want)-1], vals[len(want)-1])
	}
	if table.Len() == 0 {
		return Table{}, fmt.Errorf("no data rows")
	}
	return table, nil
}

// WriteEncodedCSV writes rows in the raw (unencoded) label-encoded schema.
func WriteEncodedCSV(w io.Writer, rows []EncodedRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(encodedCSVColumns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Record.IssueType,
			r.Record.Weather,
			formatFloat(r.Record.Temp),
			formatFloat(r.Record.TrafficDelay),
			strconv.Itoa(r.Record.RepeatCount),
			strconv.Itoa(r.Record.Hour),
			formatFloat(r.Priority),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadEncodedCSV reads raw label-encoded rows; categories are kept as strings.
func ReadEncodedCSV(r io.Reader) ([]EncodedRow, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	pos, err := columnPositions(header, encodedCSVColumns)
	if err != nil {
		return nil, err
	}

	var rows []EncodedRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row, err := parseEncodedRecord(rec, pos)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows")
	}
	return rows, nil
}

func parseEncodedRecord(rec []string, pos []int) (EncodedRow, error) {
	var (
		row EncodedRow
		err error
	)
	row.Record.IssueType = rec[pos[0]]
	row.Record.Weather = rec[pos[1]]
	if row.Record.Temp, err = parseCell(rec[pos[2]]); err != nil {
		return row, fmt.Errorf("temp: %w", err)
	}
	if row.Record.TrafficDelay, err = parseCell(rec[pos[3]]); err != nil {
		return row, fmt.Errorf("traffic_delay: %w", err)
	}
	if row.Record.RepeatCount, err = strconv.Atoi(strings.TrimSpace(rec[pos[4]])); err != nil {
		return row, fmt.Errorf("repeat_count: %w", err)
	}
	if row.Record.Hour, err = strconv.Atoi(strings.TrimSpace(rec[pos[5]])); err != nil {
		return row, fmt.Errorf("hour: %w", err)
	}
	if row.Priority, err = parseCell(rec[pos[6]]); err != nil {
		return row, fmt.Errorf("priority: %w", err)
	}
	return row, nil
}

func columnPositions(header, want []string) ([]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	pos := make([]int, len(want))
	var missing []string
	for i, w := range want {
		p, ok := index[w]
		if !ok {
			missing = append(missing, w)
			continue
		}
		pos[i] = p
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return pos, nil
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	if b, err := strconv.ParseBool(s); err == nil {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("invalid number %q", s)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
