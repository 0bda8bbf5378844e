package timeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrStageMismatch indicates a timeline manifest whose stages differ from
// the plan it is meant to retime.
var ErrStageMismatch = errors.New("timeline stages do not match plan")

// maxOffsetMs is the largest offset_ms that fits a time.Duration.
const maxOffsetMs = math.MaxInt64 / int64(time.Millisecond)

// requiredColumns must be present in a timeline manifest header.
var requiredColumns = []string{"offset_ms", "stage"}

// ReadManifestFile reads a CSV timeline manifest into a validated [Plan].
//
// CSV format (column order is free, caption is optional):
//
//	offset_ms,stage,caption
//	0,grid,Initializing Quantum Field...
//	1500,computer,Quantum Computer Online
//	4000,complete,Welcome
//
// Rows are in stage order. The plan is named after the file path.
func ReadManifestFile(path string) (Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to open timeline: %w", err)
	}
	defer f.Close()

	return readManifest(path, f)
}

// ReadManifestString parses a timeline manifest from a CSV string.
func ReadManifestString(name, data string) (Plan, error) {
	return readManifest(name, strings.NewReader(data))
}

func readManifest(name string, r io.Reader) (Plan, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Plan{}, fmt.Errorf("failed to read timeline header: %w", err)
	}

	colIndex := buildColumnIndex(header)
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			return Plan{}, fmt.Errorf("timeline missing required column: %s", col)
		}
	}

	var entries []Entry
	lineNum := 1
	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Plan{}, fmt.Errorf("failed to read timeline line %d: %w", lineNum, err)
		}

		rawOffset := getField(record, colIndex, "offset_ms")
		offset, err := strconv.ParseInt(rawOffset, 10, 64)
		if err != nil || offset < 0 {
			return Plan{}, fmt.Errorf("timeline line %d: invalid offset_ms %q", lineNum, rawOffset)
		}
		if offset > maxOffsetMs {
			return Plan{}, fmt.Errorf("timeline line %d: offset_ms %d exceeds %d", lineNum, offset, maxOffsetMs)
		}

		entries = append(entries, Entry{
			At:      time.Duration(offset) * time.Millisecond,
			Stage:   Stage(getField(record, colIndex, "stage")),
			Caption: getField(record, colIndex, "caption"),
		})
	}

	return NewPlan(name, entries)
}

// Retime applies a manifest plan's offsets and captions to base.
//
// The manifest must name exactly base's stages in base's order; it may
// retime a skin but never reshape its state machine. Empty captions keep
// the base caption.
func Retime(base, manifest Plan) (Plan, error) {
	if !base.SameStages(manifest) {
		return Plan{}, fmt.Errorf("plan %q expects stages %v, timeline has %v: %w",
			base.Name(), base.Stages(), manifest.Stages(), ErrStageMismatch)
	}

	entries := base.Entries()
	for i, e := range manifest.Entries() {
		entries[i].At = e.At
		if e.Caption != "" {
			entries[i].Caption = e.Caption
		}
	}
	return NewPlan(base.Name(), entries)
}

func buildColumnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(strings.ToLower(col))] = i
	}
	return index
}

func getField(record []string, colIndex map[string]int, col string) string {
	idx, ok := colIndex[col]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
