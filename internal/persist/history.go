// ABOUTME: Calculation history persisted across app restarts
// ABOUTME: Capped newest-first list stored as one JSON value

package persist

import (
	"errors"

	"github.com/castline/castline/internal/document"
)

// historyKey is the store key holding the calculation history list.
const historyKey = "calc_history"

// maxHistoryEntries caps the persisted history length.
const maxHistoryEntries = 50

// CalcRecord is one saved calculator run: which calculator, what went in,
// what came out.
type CalcRecord struct {
	ID         string             `json:"id"`
	Calculator string             `json:"calculator"` // e.g. "strand-elongation"
	Inputs     map[string]float64 `json:"inputs,omitempty"`
	Result     float64            `json:"result"`
	Label      string             `json:"label,omitempty"`
	CreatedAt  int64              `json:"createdAt"`
}

// AppendHistory prepends a record to the persisted history, trimming the
// list to its cap.
func (s *Store) AppendHistory(rec CalcRecord) error {
	if rec.CreatedAt == 0 {
		rec.CreatedAt = document.NowMillis()
	}
	history, err := s.History()
	if err != nil {
		return err
	}
	history = append([]CalcRecord{rec}, history...)
	if len(history) > maxHistoryEntries {
		history = history[:maxHistoryEntries]
	}
	return s.Put(historyKey, history)
}

// History returns the persisted calculation history, newest first. A missing
// key yields an empty history.
func (s *Store) History() ([]CalcRecord, error) {
	var history []CalcRecord
	err := s.Get(historyKey, &history)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return history, nil
}

// ClearHistory removes the persisted calculation history.
func (s *Store) ClearHistory() error {
	return s.Delete(historyKey)
}
