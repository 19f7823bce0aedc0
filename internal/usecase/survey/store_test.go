package survey

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func activeCount(s *Store) int {
	n := 0
	for _, sess := range s.ListSessions() {
		if sess.IsActive {
			n++
		}
	}
	return n
}

func TestCreateSession_ClosesPreviousActive(t *testing.T) {
	s := NewStore(nil)
	first := s.CreateSession("Morning")
	second := s.CreateSession("Afternoon")

	if activeCount(s) != 1 {
		t.Fatalf("expected exactly one active session, got %d", activeCount(s))
	}
	active, ok := s.ActiveSession()
	if !ok || active.ID != second.ID {
		t.Fatalf("expected %s active, got %+v", second.ID, active)
	}
	got, err := s.GetSession(first.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.IsActive || got.ClosedAt == nil {
		t.Fatalf("first session should be closed with a close time: %+v", got)
	}
}

func TestCloseSession(t *testing.T) {
	s := NewStore(nil)
	sess := s.CreateSession("Talk")

	closed, err := s.CloseSession(sess.ID)
	if err != nil {
		t.Fatalf("CloseSession: %v", err)
	}
	if closed.IsActive || closed.ClosedAt == nil {
		t.Fatalf("expected closed session, got %+v", closed)
	}
	if _, ok := s.ActiveSession(); ok {
		t.Fatal("expected no active session")
	}
	if _, err := s.CloseSession("missing"); !errors.Is(err, entities.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReactivateSession_DeactivatesOthers(t *testing.T) {
	s := NewStore(nil)
	a := s.CreateSession("A")
	b := s.CreateSession("B")

	got, err := s.ReactivateSession(a.ID)
	if err != nil {
		t.Fatalf("ReactivateSession: %v", err)
	}
	if !got.IsActive || got.ClosedAt != nil {
		t.Fatalf("reactivated session should be active without close time: %+v", got)
	}
	other, _ := s.GetSession(b.ID)
	if other.IsActive {
		t.Fatal("other session should have been closed")
	}
	if activeCount(s) != 1 {
		t.Fatalf("expected one active session, got %d", activeCount(s))
	}
	if _, err := s.ReactivateSession("missing"); !errors.Is(err, entities.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteSession_RemovesRecords(t *testing.T) {
	s := NewStore(nil)
	sess := s.CreateSession("Talk")
	s.AddRecord(entities.NewSurveyRecord(sess.ID))

	if !s.DeleteSession(sess.ID) {
		t.Fatal("expected delete to report existing session")
	}
	if s.DeleteSession(sess.ID) {
		t.Fatal("second delete should report missing session")
	}
	if _, err := s.Summary(sess.ID); !errors.Is(err, entities.ErrSessionNotFound) {
		t.Fatalf("summary after delete: %v", err)
	}
	if _, err := s.ExportCSV(sess.ID); !errors.Is(err, entities.ErrSessionNotFound) {
		t.Fatalf("export after delete: %v", err)
	}
	if len(s.Records(sess.ID)) != 0 {
		t.Fatal("records should be gone")
	}
}

func TestSummary_NoRecords(t *testing.T) {
	s := NewStore(nil)
	sess := s.CreateSession("Empty")

	sum, err := s.Summary(sess.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.TotalSubmissions != 0 || sum.NPSScore != 0 {
		t.Fatalf("expected zero summary, got %+v", sum)
	}
	if len(sum.NPSDistribution) != entities.NPSBuckets {
		t.Fatalf("distribution should have %d buckets, got %d", entities.NPSBuckets, len(sum.NPSDistribution))
	}
	if sum.AverageFeedback != (entities.AverageFeedback{}) {
		t.Fatalf("expected zero averages, got %+v", sum.AverageFeedback)
	}
	if len(sum.TopWords) != 0 || len(sum.FeedbackList) != 0 {
		t.Fatalf("expected no words or feedback, got %+v", sum)
	}

	csv, err := s.ExportCSV(sess.ID)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if csv != RenderCSV(nil) {
		t.Fatalf("expected header only, got %q", csv)
	}
}

func TestSummary_Aggregates(t *testing.T) {
	s := NewStore(nil)
	sess := s.CreateSession("Talk")

	add := func(fb entities.PresentationFeedback, score int, mutate func(r *entities.SurveyRecord)) {
		r := entities.NewSurveyRecord(sess.ID)
		r.PresentationFeedback = fb
		r.RecommendScore = score
		mutate(r)
		s.AddRecord(r)
	}
	add(entities.PresentationFeedback{Engaging: 5, Clear: 4, UsefulDemos: 3, RightLevel: 2, LearnedSomething: 1}, 10, func(r *entities.SurveyRecord) {
		r.AttendeeType = entities.AttendeeTypeDeveloper
		r.AILevel = entities.AILevelBeginner
		r.UsedAzureAI = entities.AzureAIUsageYes
		r.BestPart = "Live demos were amazing"
	})
	add(entities.PresentationFeedback{Engaging: 3, Clear: 3, UsefulDemos: 3, RightLevel: 3, LearnedSomething: 3}, 7, func(r *entities.SurveyRecord) {
		r.AttendeeType = entities.AttendeeTypeDeveloper
		r.UsedAzureAI = entities.AzureAIUsageNo
		r.Improve = "Loved the live demos"
	})
	// out-of-range score is clamped before bucketing
	add(entities.PresentationFeedback{Engaging: 4, Clear: 4, UsefulDemos: 4, RightLevel: 4, LearnedSomething: 4}, 12, func(r *entities.SurveyRecord) {
		r.AttendeeType = entities.AttendeeTypeStudent
		r.BestPart = "More live demos please"
		r.Improve = "short"
	})

	sum, err := s.Summary(sess.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.TotalSubmissions != 3 {
		t.Fatalf("total = %d", sum.TotalSubmissions)
	}
	if sum.AttendeeTypeCounts["Developer"] != 2 || sum.AttendeeTypeCounts["Student"] != 1 {
		t.Fatalf("attendee counts = %v", sum.AttendeeTypeCounts)
	}
	if len(sum.AILevelCounts) != 1 || sum.AILevelCounts["Beginner"] != 1 {
		t.Fatalf("ai level counts = %v", sum.AILevelCounts)
	}
	if sum.AzureAIUsageCounts["Yes"] != 1 || sum.AzureAIUsageCounts["No"] != 1 {
		t.Fatalf("usage counts = %v", sum.AzureAIUsageCounts)
	}

	avg := sum.AverageFeedback
	if !approx(avg.Engaging, 4) || !approx(avg.Clear, 11.0/3) || !approx(avg.UsefulDemos, 10.0/3) ||
		!approx(avg.RightLevel, 3) || !approx(avg.LearnedSomething, 8.0/3) {
		t.Fatalf("averages = %+v", avg)
	}

	if !approx(sum.NPSScore, 9) {
		t.Fatalf("nps = %v", sum.NPSScore)
	}
	total := 0
	for _, n := range sum.NPSDistribution {
		total += n
	}
	if total != sum.TotalSubmissions {
		t.Fatalf("distribution sums to %d, want %d", total, sum.TotalSubmissions)
	}
	if sum.NPSDistribution[10] != 2 || sum.NPSDistribution[7] != 1 {
		t.Fatalf("distribution = %v", sum.NPSDistribution)
	}

	if len(sum.TopWords) == 0 || sum.TopWords[0].Text != "live demos" || !approx(sum.TopWords[0].Value, 4.5) {
		t.Fatalf("top words = %+v", sum.TopWords)
	}

	wantFeedback := []string{"Live demos were amazing", "Loved the live demos", "More live demos please"}
	if len(sum.FeedbackList) != len(wantFeedback) {
		t.Fatalf("feedback list = %v", sum.FeedbackList)
	}
	for i, f := range wantFeedback {
		if sum.FeedbackList[i] != f {
			t.Fatalf("feedback[%d] = %q want %q", i, sum.FeedbackList[i], f)
		}
	}
}

func TestAddRecord_UnknownSessionAndNoDedupe(t *testing.T) {
	s := NewStore(nil)
	r := entities.NewSurveyRecord("orphan")
	s.AddRecord(r)
	s.AddRecord(r)

	if got := s.Records("orphan"); len(got) != 2 {
		t.Fatalf("expected both copies kept, got %d", len(got))
	}
	if _, err := s.Summary("orphan"); !errors.Is(err, entities.ErrSessionNotFound) {
		t.Fatalf("summary for unknown session: %v", err)
	}
}

func TestReturnedValuesAreCopies(t *testing.T) {
	s := NewStore(nil)
	sess := s.CreateSession("Talk")
	sess.Name = "mutated"
	sess.IsActive = false

	got, _ := s.GetSession(sess.ID)
	if got.Name != "Talk" || !got.IsActive {
		t.Fatalf("store state leaked through returned session: %+v", got)
	}

	s.AddRecord(entities.NewSurveyRecord(sess.ID))
	s.Records(sess.ID)[0].BestPart = "mutated"
	if s.Records(sess.ID)[0].BestPart != "" {
		t.Fatal("store state leaked through returned record")
	}
}

func TestListSessions_NewestFirst(t *testing.T) {
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	snap := entities.NewSnapshot()
	snap.Sessions["old"] = &entities.Session{ID: "old", Name: "Old", CreatedAt: base}
	snap.Sessions["mid"] = &entities.Session{ID: "mid", Name: "Mid", CreatedAt: base.Add(time.Hour)}
	snap.Sessions["new"] = &entities.Session{ID: "new", Name: "New", CreatedAt: base.Add(2 * time.Hour)}

	s := NewStore(nil)
	s.Restore(snap)

	list := s.ListSessions()
	if len(list) != 3 || list[0].ID != "new" || list[1].ID != "mid" || list[2].ID != "old" {
		t.Fatalf("unexpected order: %v, %v, %v", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	s := NewStore(nil)
	closed := s.CreateSession("Closed")
	active := s.CreateSession("Active")
	r := entities.NewSurveyRecord(active.ID)
	r.BestPart = "Fantastic walkthrough"
	s.AddRecord(r)

	snap := s.Snapshot()
	if snap.RecordCount() != 1 || len(snap.Sessions) != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	restored := NewStore(nil)
	restored.Restore(snap)

	got, ok := restored.ActiveSession()
	if !ok || got.ID != active.ID {
		t.Fatalf("expected %s active after restore, got %+v", active.ID, got)
	}
	if c, _ := restored.GetSession(closed.ID); c.IsActive {
		t.Fatal("closed session should stay closed")
	}
	if recs := restored.Records(active.ID); len(recs) != 1 || recs[0].BestPart != "Fantastic walkthrough" {
		t.Fatalf("records not restored: %+v", recs)
	}
}

func TestRestore_KeepsOnlyNewestActive(t *testing.T) {
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	snap := entities.NewSnapshot()
	snap.Sessions["a"] = &entities.Session{ID: "a", CreatedAt: base, IsActive: true}
	snap.Sessions["b"] = &entities.Session{ID: "b", CreatedAt: base.Add(time.Minute), IsActive: true}

	s := NewStore(nil)
	s.Restore(snap)

	if activeCount(s) != 1 {
		t.Fatalf("expected one active session, got %d", activeCount(s))
	}
	if got, _ := s.ActiveSession(); got.ID != "b" {
		t.Fatalf("expected newest session active, got %s", got.ID)
	}
}

func TestReset(t *testing.T) {
	s := NewStore(nil)
	sess := s.CreateSession("Talk")
	s.AddRecord(entities.NewSurveyRecord(sess.ID))
	s.Reset()

	if len(s.ListSessions()) != 0 || len(s.Records(sess.ID)) != 0 {
		t.Fatal("expected empty store after reset")
	}
}

func TestConcurrentCreateLeavesOneActive(t *testing.T) {
	s := NewStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := s.CreateSession("parallel")
			s.AddRecord(entities.NewSurveyRecord(sess.ID))
		}()
	}
	wg.Wait()

	if activeCount(s) != 1 {
		t.Fatalf("expected one active session, got %d", activeCount(s))
	}
	if len(s.ListSessions()) != 32 {
		t.Fatalf("expected 32 sessions, got %d", len(s.ListSessions()))
	}
}

func TestSnapshot_SkipsRecordsOfDeletedSessions(t *testing.T) {
	s := NewStore(nil)
	kept := s.CreateSession("Kept")
	s.AddRecord(entities.NewSurveyRecord(kept.ID))
	s.AddRecord(entities.NewSurveyRecord("gone"))

	snap := s.Snapshot()
	if _, ok := snap.Results["gone"]; ok {
		t.Fatal("records of an unknown session should not be persisted")
	}
	if len(snap.Results[kept.ID]) != 1 {
		t.Fatalf("expected kept session records, got %+v", snap.Results)
	}
}

func TestRestore_DropsResultsWithoutSession(t *testing.T) {
	snap := entities.NewSnapshot()
	snap.Sessions["s1"] = &entities.Session{ID: "s1", Name: "Talk", CreatedAt: time.Now()}
	snap.Results["s1"] = []*entities.SurveyRecord{entities.NewSurveyRecord("s1")}
	snap.Results["stale"] = []*entities.SurveyRecord{entities.NewSurveyRecord("stale")}

	s := NewStore(nil)
	s.Restore(snap)

	if got := s.Records("stale"); len(got) != 0 {
		t.Fatalf("expected stale results dropped, got %d", len(got))
	}
	if got := s.Records("s1"); len(got) != 1 {
		t.Fatalf("expected s1 records restored, got %d", len(got))
	}
}

// gatedSnapshots blocks the first Save until release is closed
type gatedSnapshots struct {
	mu      sync.Mutex
	calls   int
	last    int
	entered chan struct{}
	release chan struct{}
}

func newGatedSnapshots() *gatedSnapshots {
	return &gatedSnapshots{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedSnapshots) Load(context.Context) (*entities.Snapshot, error) {
	return entities.NewSnapshot(), nil
}

func (g *gatedSnapshots) Save(ctx context.Context, snap *entities.Snapshot) error {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()

	if first {
		close(g.entered)
		<-g.release
	}

	g.mu.Lock()
	g.last = snap.RecordCount()
	g.mu.Unlock()
	return nil
}

func TestPersist_LaterSnapshotIsSavedLast(t *testing.T) {
	s := NewStore(nil)
	sess := s.CreateSession("Talk")
	snapshots := newGatedSnapshots()
	ctx := context.Background()

	done := make(chan error, 2)
	s.AddRecord(entities.NewSurveyRecord(sess.ID))
	go func() { done <- s.Persist(ctx, snapshots) }()
	<-snapshots.entered

	s.AddRecord(entities.NewSurveyRecord(sess.ID))
	go func() { done <- s.Persist(ctx, snapshots) }()

	// give the second call a chance to reach Save if it is not serialized
	time.Sleep(20 * time.Millisecond)
	close(snapshots.release)

	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("persist: %v", err)
		}
	}

	snapshots.mu.Lock()
	defer snapshots.mu.Unlock()
	if snapshots.calls != 2 || snapshots.last != 2 {
		t.Fatalf("expected the 2-record snapshot saved last, got calls=%d last=%d", snapshots.calls, snapshots.last)
	}
}

func TestPersist_NilRepository(t *testing.T) {
	if err := NewStore(nil).Persist(context.Background(), nil); err != nil {
		t.Fatalf("expected nil repository to be a no-op, got %v", err)
	}
}
