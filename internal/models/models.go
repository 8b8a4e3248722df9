package models

import (
	"encoding/json"
	"sort"
	"time"
)

// EventRecord is one observed security event. Fields other than timestamp
// and signature are kept as raw JSON and never interpreted.
type EventRecord struct {
	Timestamp time.Time                  `json:"timestamp"`
	Signature string                     `json:"signature"`
	Extra     map[string]json.RawMessage `json:"-"`
}

func (e EventRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(e.Extra)+2)
	for k, v := range e.Extra {
		out[k] = v
	}

	ts, err := json.Marshal(e.Timestamp)
	if err != nil {
		return nil, err
	}
	sig, err := json.Marshal(e.Signature)
	if err != nil {
		return nil, err
	}
	out["timestamp"] = ts
	out["signature"] = sig

	return json.Marshal(out)
}

type SignatureCount struct {
	Signature string `json:"signature" yaml:"signature"`
	Count     int    `json:"count" yaml:"count"`
}

// Summary holds descriptive statistics over per-signature counts.
// Pointer fields are nil when there is nothing to describe.
type Summary struct {
	TotalEvents      int             `json:"total_events" yaml:"total_events"`
	UniqueSignatures int             `json:"unique_signatures" yaml:"unique_signatures"`
	Mean             *float64        `json:"mean" yaml:"mean"`
	Median           *float64        `json:"median" yaml:"median"`
	StdDev           *float64        `json:"std_dev" yaml:"std_dev"`
	MostFrequent     *SignatureCount `json:"most_frequent" yaml:"most_frequent"`
}

// FrequencyTable is ordered by count descending, ties in first-seen order.
type FrequencyTable struct {
	Entries []SignatureCount `json:"entries" yaml:"entries"`
	Summary Summary          `json:"summary" yaml:"summary"`
}

func (t FrequencyTable) Total() int {
	total := 0
	for _, e := range t.Entries {
		total += e.Count
	}
	return total
}

func (t FrequencyTable) Lookup(signature string) (int, bool) {
	for _, e := range t.Entries {
		if e.Signature == signature {
			return e.Count, true
		}
	}
	return 0, false
}

// HourlyHistogram maps hour of day (0-23) to event count. Only observed
// hours are present.
type HourlyHistogram map[int]int

func (h HourlyHistogram) Hours() []int {
	hours := make([]int, 0, len(h))
	for hour := range h {
		hours = append(hours, hour)
	}
	sort.Ints(hours)
	return hours
}

func (h HourlyHistogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

type Period struct {
	From *time.Time `json:"from" yaml:"from"`
	To   *time.Time `json:"to" yaml:"to"`
}

type Report struct {
	RunID       string          `json:"run_id" yaml:"run_id"`
	Source      string          `json:"source" yaml:"source"`
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	Period      Period          `json:"period" yaml:"period"`
	Signatures  FrequencyTable  `json:"signatures" yaml:"signatures"`
	Hourly      HourlyHistogram `json:"hourly" yaml:"hourly"`
}

func (r *Report) Empty() bool {
	return r.Signatures.Summary.TotalEvents == 0
}
