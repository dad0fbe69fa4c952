// Package loader materializes datasets from files. It only reads rows
// into memory; filtering and aggregation belong to the expression engine.
package loader

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	goavro "github.com/linkedin/goavro/v2"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"

	"github.com/dashkit/mel/dataset"
	"github.com/dashkit/mel/logger"
)

// Load reads a file and returns a Dataset. The format is picked by
// extension: .csv, .json, .jsonl, .avro or .parquet.
func Load(filename string) (*dataset.Dataset, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		d   *dataset.Dataset
		err error
	)
	switch ext {
	case ".csv":
		d, err = loadCSV(filename)
	case ".json":
		d, err = loadJSON(filename)
	case ".jsonl":
		d, err = loadJSONL(filename)
	case ".avro":
		d, err = loadAvro(filename)
	case ".parquet":
		d, err = loadParquet(filename)
	default:
		return nil, errors.Errorf("unsupported file format %q (supported: .csv, .json, .jsonl, .avro, .parquet)", ext)
	}
	if err != nil {
		return nil, err
	}

	logger.L.Debugf("loaded %d rows, %d columns from %s", d.NumRows(), len(d.Columns), filename)
	return d, nil
}

func loadCSV(filename string) (*dataset.Dataset, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", filename)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	// Short records are padded with nulls instead of being rejected.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read CSV header from %s", filename)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	d := dataset.New(columns)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "error reading CSV row")
		}

		cells := make([]dataset.Cell, len(columns))
		for i := range columns {
			if i < len(record) {
				cells[i] = parseCell(strings.TrimSpace(record[i]))
			} else {
				cells[i] = dataset.Null()
			}
		}
		d.AddRow(cells)
	}

	return d, nil
}

// parseCell infers the type of a CSV cell: empty or "null" is null,
// anything that parses as a number is a number, the rest stays text.
func parseCell(s string) dataset.Cell {
	if s == "" || strings.EqualFold(s, "null") {
		return dataset.Null()
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return dataset.Number(v)
	}
	return dataset.Text(s)
}

func loadJSON(filename string) (*dataset.Dataset, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", filename)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(err, "cannot parse JSON from %s (expected array of objects)", filename)
	}

	return dataset.FromRecords(records), nil
}

func loadJSONL(filename string) (*dataset.Dataset, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", filename)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var records []map[string]interface{}
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec map[string]interface{}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, errors.Wrapf(err, "invalid JSON on line %d", lineNum)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "error reading %s", filename)
	}

	return dataset.FromRecords(records), nil
}

func loadAvro(filename string) (*dataset.Dataset, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", filename)
	}
	defer f.Close()

	ocfr, err := goavro.NewOCFReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read Avro OCF from %s", filename)
	}

	// Column order comes from the schema, not the record maps.
	var schemaDef struct {
		Fields []struct {
			Name string `json:"name"`
		} `json:"fields"`
	}
	if err := json.Unmarshal([]byte(ocfr.Codec().Schema()), &schemaDef); err != nil {
		return nil, errors.Wrap(err, "cannot parse Avro schema")
	}

	columns := make([]string, len(schemaDef.Fields))
	for i, field := range schemaDef.Fields {
		columns[i] = field.Name
	}

	d := dataset.New(columns)

	for ocfr.Scan() {
		datum, err := ocfr.Read()
		if err != nil {
			return nil, errors.Wrap(err, "error reading Avro record")
		}

		rec, ok := datum.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("unexpected Avro record type %T", datum)
		}

		cells := make([]dataset.Cell, len(columns))
		for i, col := range columns {
			v, exists := rec[col]
			if !exists || v == nil {
				cells[i] = dataset.Null()
				continue
			}
			cells[i] = avroCell(v)
		}
		d.AddRow(cells)
	}

	if err := ocfr.Err(); err != nil {
		return nil, errors.Wrapf(err, "error reading Avro file %s", filename)
	}

	return d, nil
}

// avroCell unwraps union values, which decode as a single-entry map keyed
// by the branch type, before the usual conversion.
func avroCell(v interface{}) dataset.Cell {
	if m, ok := v.(map[string]interface{}); ok {
		for _, inner := range m {
			return avroCell(inner)
		}
		return dataset.Null()
	}
	return dataset.CellOf(v)
}

func loadParquet(filename string) (*dataset.Dataset, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", filename)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot stat %s", filename)
	}

	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read parquet file %s", filename)
	}

	fields := pf.Schema().Fields()
	columns := make([]string, len(fields))
	for i, field := range fields {
		columns[i] = field.Name()
	}

	records, err := parquet.Read[map[string]interface{}](f, st.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "cannot decode parquet rows from %s", filename)
	}

	d := dataset.New(columns)
	for _, rec := range records {
		cells := make([]dataset.Cell, len(columns))
		for i, col := range columns {
			v, ok := rec[col]
			if !ok || v == nil {
				cells[i] = dataset.Null()
				continue
			}
			cells[i] = dataset.CellOf(v)
		}
		d.AddRow(cells)
	}

	return d, nil
}
