// Package ledger persists an append-only record of executed and
// simulated orders as a six-column CSV file.
package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"coinpilot/internal/logger"
	"coinpilot/internal/market"
)

// Columns is the fixed schema shared by append and load.
var Columns = []string{"timestamp", "symbol", "action", "qty", "price", "quoteQty"}

type Entry struct {
	Timestamp string `json:"timestamp"`
	Symbol    string `json:"symbol"`
	Action    string `json:"action"`
	Qty       string `json:"qty"`
	Price     string `json:"price"`
	QuoteQty  string `json:"quoteQty"`
}

type Ledger struct {
	path string

	// now is swappable for tests
	now func() time.Time
}

func New(path string) *Ledger {
	return &Ledger{path: path, now: time.Now}
}

// Append writes one row per order, timestamped at write time. The file
// and its header are created exactly once; existing rows are never
// rewritten. Each row is flushed individually so one bad row cannot
// corrupt those already written. Failure to open the file is the only
// error returned: it means the ledger as a whole is unavailable.
func (l *Ledger) Append(orders []market.Order) error {
	if len(orders) == 0 {
		return nil
	}
	dir := filepath.Dir(l.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating ledger dir: %w", err)
		}
	}
	_, statErr := os.Stat(l.path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger for append: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(Columns); err != nil {
			return fmt.Errorf("writing ledger header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("flushing ledger header: %w", err)
		}
	}
	written := 0
	for _, o := range orders {
		row := []string{
			l.now().Format(time.RFC3339),
			o.Symbol,
			string(o.Side),
			o.ExecutedQty,
			o.Price,
			o.QuoteQty,
		}
		if err := w.Write(row); err != nil {
			logger.Warnf("ledger: writing row for %s failed: %v", o.Symbol, err)
			continue
		}
		w.Flush()
		if err := w.Error(); err != nil {
			logger.Warnf("ledger: flushing row for %s failed: %v", o.Symbol, err)
			continue
		}
		written++
	}
	logger.Infof("ledger: appended %d/%d rows to %s", written, len(orders), l.path)
	return nil
}

// Load returns every persisted row. A missing ledger file is not an
// error: it loads as zero rows with the same schema.
func (l *Ledger) Load() ([]Entry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	entries := make([]Entry, 0, len(records))
	for i, rec := range records {
		if i == 0 {
			// header row
			continue
		}
		if len(rec) != len(Columns) {
			logger.Warnf("ledger: row %d has %d columns, skipping", i+1, len(rec))
			continue
		}
		entries = append(entries, Entry{
			Timestamp: rec[0],
			Symbol:    rec[1],
			Action:    rec[2],
			Qty:       rec[3],
			Price:     rec[4],
			QuoteQty:  rec[5],
		})
	}
	return entries, nil
}
