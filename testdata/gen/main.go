// Generates the binary sample files under testdata/ used for trying the
// CLI by hand:
//
//	go run ./testdata/gen
package main

import (
	"os"

	goavro "github.com/linkedin/goavro/v2"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"

	"github.com/dashkit/mel/logger"
)

type Event struct {
	UserID   string  `parquet:"user_id"`
	Country  string  `parquet:"country"`
	Revenue  float64 `parquet:"revenue"`
	Sessions int64   `parquet:"sessions"`
}

var events = []Event{
	{"u1", "US", 120.5, 3},
	{"u2", "DE", 80, 1},
	{"u1", "US", 200, 5},
	{"u3", "FR", 0, 2},
	{"u4", "US", 59.99, 1},
	{"u2", "DE", 140.25, 4},
}

func main() {
	if err := writeParquet("testdata/events.parquet"); err != nil {
		logger.L.Fatal(err)
	}
	if err := writeAvro("testdata/events.avro"); err != nil {
		logger.L.Fatal(err)
	}
}

func writeParquet(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create %s", path)
	}
	defer f.Close()

	w := parquet.NewWriter(f)
	for _, e := range events {
		if err := w.Write(e); err != nil {
			return errors.Wrap(err, "writing parquet row")
		}
	}
	return errors.Wrap(w.Close(), "closing parquet writer")
}

const eventSchema = `{
  "type": "record",
  "name": "Event",
  "fields": [
    {"name": "user_id", "type": "string"},
    {"name": "country", "type": "string"},
    {"name": "revenue", "type": ["null", "double"], "default": null},
    {"name": "sessions", "type": "long"}
  ]
}`

func writeAvro(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create %s", path)
	}
	defer f.Close()

	w, err := goavro.NewOCFWriter(goavro.OCFConfig{W: f, Schema: eventSchema})
	if err != nil {
		return errors.Wrap(err, "creating OCF writer")
	}

	records := make([]interface{}, 0, len(events)+1)
	for _, e := range events {
		records = append(records, map[string]interface{}{
			"user_id":  e.UserID,
			"country":  e.Country,
			"revenue":  map[string]interface{}{"double": e.Revenue},
			"sessions": e.Sessions,
		})
	}
	// One row with a null revenue exercises union decoding on the way back.
	records = append(records, map[string]interface{}{
		"user_id":  "u5",
		"country":  "US",
		"revenue":  nil,
		"sessions": int64(1),
	})
	return errors.Wrap(w.Append(records), "appending avro records")
}
