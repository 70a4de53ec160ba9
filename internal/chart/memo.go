package chart

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
)

// Memo caches the last computed series keyed by a fingerprint of the
// session identities and the selected dates. Selection changes usually
// toggle a single date over the same sessions, so one entry is enough to
// absorb the redundant recomputations; results are idempotent given the
// same inputs, so serving the cached value is always safe.
type Memo struct {
	mu   sync.Mutex
	key  string
	data SeriesData
}

// BuildSeries returns the cached series when the inputs match the
// previous call, computing and storing them otherwise.
func (m *Memo) BuildSeries(sessions []model.SessionRecord, selectedDates []string) SeriesData {
	key := fingerprint(sessions, selectedDates)

	m.mu.Lock()
	defer m.mu.Unlock()
	if key == m.key && m.key != "" {
		return m.data
	}
	m.key = key
	m.data = BuildSeries(sessions, selectedDates)
	return m.data
}

func fingerprint(sessions []model.SessionRecord, selectedDates []string) string {
	h := sha256.New()
	for _, rec := range sessions {
		fmt.Fprintf(h, "%s|%s|%d;", rec.ID, rec.Data, len(rec.Indices))
	}
	dates := append([]string(nil), selectedDates...)
	sort.Strings(dates)
	for _, d := range dates {
		fmt.Fprintf(h, "@%s", d)
	}
	return hex.EncodeToString(h.Sum(nil))
}
