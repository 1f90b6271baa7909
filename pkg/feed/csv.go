package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/samber/lo"
	"github.com/xhit/go-str2duration/v2"
)

var defaultHeaderMap = map[string]int{
	"time": 0, "open": 1, "close": 2, "low": 3, "high": 4, "volume": 5,
}

// parseHeaders maps column names to indexes. A first cell holding a number
// means the file has no header and uses the default column order.
func parseHeaders(headers []string) (headerMap map[string]int, hasHeader bool) {
	if _, err := strconv.Atoi(headers[0]); err == nil {
		return defaultHeaderMap, false
	}

	headerMap = make(map[string]int, len(headers))
	for index, header := range headers {
		headerMap[header] = index
	}
	return headerMap, true
}

// ReadCSV loads bars from a CSV file: unix-seconds time, open, close, low,
// high and volume, either in that order or named by a header row.
func ReadCSV(path string) ([]core.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := ParseCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ParseCSV reads bars from r. See ReadCSV for the layout.
func ParseCSV(r io.Reader) ([]core.Record, error) {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, core.ErrEmptyData
	}

	headerMap, hasHeader := parseHeaders(lines[0])
	if hasHeader {
		lines = lines[1:]
	}

	records := make([]core.Record, 0, len(lines))
	for i, line := range lines {
		rec, err := parseLine(line, headerMap)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseLine(line []string, headerMap map[string]int) (core.Record, error) {
	column := func(name string) (string, error) {
		i, ok := headerMap[name]
		if !ok || i >= len(line) {
			return "", fmt.Errorf("%w: column %s", core.ErrInvalidRecord, name)
		}
		return line[i], nil
	}

	raw, err := column("time")
	if err != nil {
		return core.Record{}, err
	}
	timestamp, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return core.Record{}, err
	}

	var ohlcv [5]float64
	for i, name := range []string{"open", "high", "low", "close", "volume"} {
		if raw, err = column(name); err != nil {
			return core.Record{}, err
		}
		if ohlcv[i], err = strconv.ParseFloat(raw, 64); err != nil {
			return core.Record{}, err
		}
	}

	t := time.Unix(timestamp, 0).UTC()
	return core.Bar(t, ohlcv[0], ohlcv[1], ohlcv[2], ohlcv[3]).WithVolume(ohlcv[4]), nil
}

// Limit keeps the records within window of the last one, e.g. "30d" or
// "12h".
func Limit(records []core.Record, window string) ([]core.Record, error) {
	duration, err := str2duration.ParseDuration(window)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, errors.New("limit window must be positive")
	}
	if len(records) == 0 {
		return records, nil
	}

	start := records[len(records)-1].Time.Add(-duration)
	return lo.Filter(records, func(rec core.Record, _ int) bool {
		return rec.Time.After(start)
	}), nil
}

// csvHeaders is the column order WriteCSV produces and ReadCSV assumes when
// a file has no header.
var csvHeaders = []string{"time", "open", "close", "low", "high", "volume"}

// WriteCSV writes bars in the layout ReadCSV reads. Records without OHLC
// fields are rejected.
func WriteCSV(w io.Writer, records []core.Record, header bool) error {
	writer := csv.NewWriter(w)
	if header {
		if err := writer.Write(csvHeaders); err != nil {
			return err
		}
	}

	for _, rec := range records {
		if !rec.IsOHLC() {
			return fmt.Errorf("%w: %s missing %s", core.ErrInvalidRecord, rec.Time, rec.Missing(core.OHLCFields))
		}
		err := writer.Write([]string{
			strconv.FormatInt(rec.Time.Unix(), 10),
			formatFloat(rec.Open),
			formatFloat(rec.Close),
			formatFloat(rec.Low),
			formatFloat(rec.High),
			formatFloat(rec.Volume),
		})
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
