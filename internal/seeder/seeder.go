package seeder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// DefaultSignatures resemble IDS alert names.
var DefaultSignatures = []string{
	"ET SCAN Nmap Scripting Engine User-Agent Detected",
	"ET SCAN Potential SSH Scan",
	"ET POLICY Suspicious inbound to MSSQL port 1433",
	"GPL ICMP_INFO PING *NIX",
	"ET WEB_SERVER Possible SQL Injection Attempt UNION SELECT",
	"ET EXPLOIT Apache log4j RCE Attempt",
	"SURICATA STREAM ESTABLISHED packet out of window",
	"ET DROP Dshield Block Listed Source",
	"ET TROJAN Possible Metasploit Payload Common Construct Bind_API",
	"ET INFO Observed DNS Query to .onion proxy Domain",
}

type Options struct {
	Count      int
	Signatures []string
	Start      time.Time
	Spread     time.Duration
	Seed       int64
}

type Event struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Signature string `json:"signature"`
	SrcIP     string `json:"src_ip"`
	DestIP    string `json:"dest_ip"`
	DestPort  int    `json:"dest_port"`
	Proto     string `json:"proto"`
}

type Document struct {
	Events []Event `json:"events"`
}

func (o *Options) applyDefaults() {
	if len(o.Signatures) == 0 {
		o.Signatures = DefaultSignatures
	}
	if o.Spread <= 0 {
		o.Spread = 24 * time.Hour
	}
	if o.Start.IsZero() {
		o.Start = time.Now().UTC().Add(-o.Spread)
	}
}

// Generate builds a document with Count events spread evenly over
// [Start, Start+Spread) with random jitter. A non-zero Seed makes the output
// reproducible; zero seeds from crypto/rand.
func Generate(opts Options) (*Document, error) {
	if opts.Count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", opts.Count)
	}
	opts.applyDefaults()

	faker := gofakeit.New(opts.Seed)

	doc := &Document{Events: make([]Event, 0, opts.Count)}
	if opts.Count == 0 {
		return doc, nil
	}

	step := opts.Spread / time.Duration(opts.Count)
	for i := 0; i < opts.Count; i++ {
		// Равномерное распределение с джиттером ±40% шага
		offset := step * time.Duration(i)
		if step > 0 {
			jitter := time.Duration((faker.Float64()*0.8 - 0.4) * float64(step))
			offset += jitter
		}
		if offset < 0 {
			offset = 0
		}
		if offset >= opts.Spread {
			offset = opts.Spread - time.Nanosecond
		}

		id, err := uuid.NewRandomFromReader(faker.Rand)
		if err != nil {
			return nil, fmt.Errorf("failed to generate event id: %w", err)
		}

		doc.Events = append(doc.Events, Event{
			ID:        id.String(),
			Timestamp: opts.Start.Add(offset).Format(time.RFC3339),
			Signature: opts.Signatures[faker.Number(0, len(opts.Signatures)-1)],
			SrcIP:     faker.IPv4Address(),
			DestIP:    faker.IPv4Address(),
			DestPort:  faker.Number(1, 65535),
			Proto:     faker.RandomString([]string{"TCP", "UDP", "ICMP"}),
		})
	}

	return doc, nil
}

func WriteFile(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
