// Package runlog appends one CSV row per run.
package runlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/banktotal-dev/banktotal/internal/model"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp     time.Time
	RunID         string
	Total         int64
	SMS           int
	Captured      int
	Notifications int
	Fresh         []model.Institution // institutions observed this run
}

// Header is the CSV header for the run log.
const Header = "timestamp,run_id,total,sms,captured,notifications,fresh"

const (
	numFields        = 7
	colTimestamp     = 0
	colRunID         = 1
	colTotal         = 2
	colSMS           = 3
	colCaptured      = 4
	colNotifications = 5
	colFresh         = 6
	freshSeparator   = ";"
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	fresh := make([]string, len(e.Fresh))
	for i, inst := range e.Fresh {
		fresh[i] = string(inst)
	}

	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colTotal] = strconv.FormatInt(e.Total, 10)
	row[colSMS] = strconv.Itoa(e.SMS)
	row[colCaptured] = strconv.Itoa(e.Captured)
	row[colNotifications] = strconv.Itoa(e.Notifications)
	row[colFresh] = strings.Join(fresh, freshSeparator)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	total, err := strconv.ParseInt(record[colTotal], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing total %q: %w", record[colTotal], err)
	}

	counts := make([]int, 3)
	for i, col := range []int{colSMS, colCaptured, colNotifications} {
		counts[i], err = strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
	}

	var fresh []model.Institution
	if record[colFresh] != "" {
		for _, name := range strings.Split(record[colFresh], freshSeparator) {
			fresh = append(fresh, model.Institution(name))
		}
	}

	return Entry{
		Timestamp:     ts,
		RunID:         record[colRunID],
		Total:         total,
		SMS:           counts[0],
		Captured:      counts[1],
		Notifications: counts[2],
		Fresh:         fresh,
	}, nil
}

// Append writes e to the log at path, creating the file and header if needed.
func Append(path string, e Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating run log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries in the log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
