package market

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// LoadKlinesCSV reads bars from a CSV file with headers
// time|timestamp|date, open, high, low, close[, volume].
func LoadKlinesCSV(path string) ([]Kline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars: %w", err)
	}
	defer f.Close()
	return ReadKlinesCSV(f)
}

// ReadKlinesCSV parses bars from r. Headers are case-insensitive, unknown
// columns are ignored and rows that cannot be parsed are skipped. The result
// is sorted by time.
func ReadKlinesCSV(r io.Reader) ([]Kline, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("bars csv is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"open", "high", "low", "close"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("bars csv missing column %q", col)
		}
	}

	var out []Kline
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		get := func(keys ...string) string {
			for _, k := range keys {
				if i, ok := idx[k]; ok && i < len(rec) {
					if v := strings.TrimSpace(rec[i]); v != "" {
						return v
					}
				}
			}
			return ""
		}
		ts, err := parseTime(get("time", "timestamp", "date"))
		if err != nil {
			continue
		}
		k := Kline{Ts: ts}
		var perr error
		if k.Open, perr = strconv.ParseFloat(get("open"), 64); perr != nil {
			continue
		}
		if k.High, perr = strconv.ParseFloat(get("high"), 64); perr != nil {
			continue
		}
		if k.Low, perr = strconv.ParseFloat(get("low"), 64); perr != nil {
			continue
		}
		if k.Close, perr = strconv.ParseFloat(get("close"), 64); perr != nil {
			continue
		}
		k.Volume, _ = strconv.ParseFloat(get("volume", "vol"), 64)
		if !k.Valid() {
			continue
		}
		out = append(out, k)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ts.Before(out[j].Ts) })
	return out, nil
}

// parseTime accepts RFC3339, "2006-01-02 15:04:05", "2006-01-02" or unix seconds.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty time")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("bad time: %s", s)
}
