package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"secevents/internal/models"
	"secevents/internal/source"
)

const eventsKey = "events"

var (
	errMissingEvents = errors.New(`missing "events" list`)
	errMissingField  = errors.New("field is required")
	errEmptyField    = errors.New("field must not be empty")
	errNotString     = errors.New("field must be a string")
)

// Load reads the events document from src. The first malformed record aborts
// the whole load.
func Load(ctx context.Context, src source.Source) ([]models.EventRecord, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, &NotFoundError{Source: src.String(), Err: err}
	}
	defer rc.Close()

	records, err := Decode(rc)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source = src.String()
			return nil, pe
		}
		return nil, &ParseError{Source: src.String(), Index: -1, Err: err}
	}
	return records, nil
}

// Decode parses an events document, keeping record order.
func Decode(r io.Reader) ([]models.EventRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}

	raw, ok := doc[eventsKey]
	if !ok || isNull(raw) {
		return nil, &ParseError{Index: -1, Err: errMissingEvents}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &ParseError{Index: -1, Field: eventsKey, Err: fmt.Errorf("events must be a list: %w", err)}
	}

	records := make([]models.EventRecord, 0, len(items))
	for i, item := range items {
		rec, err := decodeRecord(item)
		if err != nil {
			err.Index = i
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func decodeRecord(item json.RawMessage) (models.EventRecord, *ParseError) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		if err == nil {
			err = errors.New("event must be an object")
		}
		return models.EventRecord{}, &ParseError{Err: err}
	}

	tsRaw, err := requiredString(fields, "timestamp")
	if err != nil {
		return models.EventRecord{}, err
	}
	ts, perr := ParseTimestamp(tsRaw)
	if perr != nil {
		return models.EventRecord{}, &ParseError{Field: "timestamp", Err: perr}
	}

	sig, err := requiredString(fields, "signature")
	if err != nil {
		return models.EventRecord{}, err
	}

	delete(fields, "timestamp")
	delete(fields, "signature")
	if len(fields) == 0 {
		fields = nil
	}

	return models.EventRecord{Timestamp: ts, Signature: sig, Extra: fields}, nil
}

func requiredString(fields map[string]json.RawMessage, name string) (string, *ParseError) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return "", &ParseError{Field: name, Err: errMissingField}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &ParseError{Field: name, Err: errNotString}
	}
	if s == "" {
		return "", &ParseError{Field: name, Err: errEmptyField}
	}
	return s, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp accepts ISO-8601 style timestamps. Fractional seconds are
// optional; values without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
