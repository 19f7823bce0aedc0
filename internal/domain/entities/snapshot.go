package entities

// Snapshot is the persisted state of the aggregation store: sessions keyed by
// id and each session's records in submission order.
type Snapshot struct {
	Sessions map[string]*Session        `json:"sessions"`
	Results  map[string][]*SurveyRecord `json:"results"`
}

// NewSnapshot returns an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Sessions: map[string]*Session{},
		Results:  map[string][]*SurveyRecord{},
	}
}

// RecordCount returns the total number of records across sessions
func (s *Snapshot) RecordCount() int {
	n := 0
	for _, rs := range s.Results {
		n += len(rs)
	}
	return n
}
