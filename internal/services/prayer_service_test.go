package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/clock"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/services"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/services/servicestest"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func flags(sunnah, jamaah, ontime bool) dto.RecordPrayerRequest {
	return dto.RecordPrayerRequest{SunnahFajr: &sunnah, FajrJamaah: &jamaah, FajrOntime: &ontime}
}

func newService(t *testing.T) (*services.PrayerService, *servicestest.MemoryStore, *servicestest.FixedDate) {
	t.Helper()
	store := servicestest.NewMemoryStore()
	dates := &servicestest.FixedDate{Date: "2024-03-10"}
	return services.NewPrayerService(store, dates), store, dates
}

func TestSubmitScenario(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	a := store.AddUser("a", "Ahmed", false)
	b := store.AddUser("b", "Bilal", false)

	rec, err := svc.Submit(ctx, a.ID, flags(true, false, true))
	if err != nil {
		t.Fatalf("submit A: %v", err)
	}
	if rec.TotalPoints != 2 {
		t.Fatalf("A points = %d, want 2", rec.TotalPoints)
	}

	if _, err := svc.Submit(ctx, a.ID, flags(true, true, true)); !errors.Is(err, services.ErrAlreadyRecorded) {
		t.Fatalf("resubmit A: err = %v, want ErrAlreadyRecorded", err)
	}

	today, _ := clock.ParseDate("2024-03-10")
	if n := store.RecordCount(a.ID, today); n != 1 {
		t.Fatalf("A stored %d records, want 1", n)
	}
	stored, _ := store.FindRecord(ctx, a.ID, today)
	if stored.TotalPoints != 2 || stored.FajrJamaah {
		t.Fatalf("first record overwritten: %+v", stored)
	}

	rec, err = svc.Submit(ctx, b.ID, flags(true, true, true))
	if err != nil {
		t.Fatalf("submit B: %v", err)
	}
	if rec.TotalPoints != 5 {
		t.Fatalf("B points = %d, want 5", rec.TotalPoints)
	}

	board, err := svc.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board) != 2 || board[0].ID != b.ID || board[1].ID != a.ID {
		t.Fatalf("leaderboard order = %+v, want B then A", board)
	}
	if board[0].Rank != 1 || board[1].Rank != 2 {
		t.Errorf("ranks = %d, %d", board[0].Rank, board[1].Rank)
	}
}

func TestSubmitRejectsMissingFlags(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	u := store.AddUser("u", "User", false)
	yes := true

	cases := map[string]dto.RecordPrayerRequest{
		"empty":          {},
		"missing sunnah": {FajrJamaah: &yes, FajrOntime: &yes},
		"missing jamaah": {SunnahFajr: &yes, FajrOntime: &yes},
		"missing ontime": {SunnahFajr: &yes, FajrJamaah: &yes},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Submit(ctx, u.ID, req); !errors.Is(err, services.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}

	records, _ := store.ListRecords(ctx, u.ID)
	if len(records) != 0 {
		t.Fatalf("invalid submissions stored %d records", len(records))
	}
}

func TestSubmitNextDayAllowed(t *testing.T) {
	ctx := context.Background()
	svc, store, dates := newService(t)
	u := store.AddUser("u", "User", false)

	if _, err := svc.Submit(ctx, u.ID, flags(false, true, false)); err != nil {
		t.Fatalf("day 1: %v", err)
	}
	dates.Set("2024-03-11")
	if _, err := svc.Submit(ctx, u.ID, flags(true, true, true)); err != nil {
		t.Fatalf("day 2: %v", err)
	}

	stats, err := svc.Stats(ctx, u.ID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalPoints != 8 {
		t.Errorf("TotalPoints = %d, want 8", stats.TotalPoints)
	}
}

func TestSubmitConcurrentSameUser(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	u := store.AddUser("u", "User", false)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(ctx, u.ID, flags(true, true, true))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, services.ErrAlreadyRecorded):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || rejected != attempts-1 {
		t.Fatalf("succeeded=%d rejected=%d, want 1 and %d", succeeded, rejected, attempts-1)
	}
}

func TestSubmitStorageFailure(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	u := store.AddUser("u", "User", false)
	store.Err = errors.New("connection refused")

	_, err := svc.Submit(ctx, u.ID, flags(true, true, true))
	if !errors.Is(err, services.ErrStorage) {
		t.Fatalf("err = %v, want ErrStorage", err)
	}
	if !errors.Is(err, store.Err) {
		t.Errorf("err = %v does not wrap cause", err)
	}
}

func TestSubmitCountsOutcomes(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	u := store.AddUser("u", "User", false)

	created := testutil.ToFloat64(metrics.Submissions.WithLabelValues("created"))
	duplicate := testutil.ToFloat64(metrics.Submissions.WithLabelValues("duplicate"))

	if _, err := svc.Submit(ctx, u.ID, flags(true, false, false)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	_, _ = svc.Submit(ctx, u.ID, flags(true, false, false))

	if got := testutil.ToFloat64(metrics.Submissions.WithLabelValues("created")) - created; got != 1 {
		t.Errorf("created delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.Submissions.WithLabelValues("duplicate")) - duplicate; got != 1 {
		t.Errorf("duplicate delta = %v, want 1", got)
	}
}

func TestTodayRecord(t *testing.T) {
	ctx := context.Background()
	svc, store, dates := newService(t)
	u := store.AddUser("u", "User", false)

	rec, err := svc.TodayRecord(ctx, u.ID)
	if err != nil || rec != nil {
		t.Fatalf("before submit: rec=%v err=%v", rec, err)
	}
	if _, err := svc.Submit(ctx, u.ID, flags(false, false, true)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	rec, err = svc.TodayRecord(ctx, u.ID)
	if err != nil || rec == nil || rec.TotalPoints != 1 {
		t.Fatalf("after submit: rec=%+v err=%v", rec, err)
	}

	dates.Set("2024-03-11")
	if rec, _ := svc.TodayRecord(ctx, u.ID); rec != nil {
		t.Fatalf("next day still returns %+v", rec)
	}
}

func TestStatsRanking(t *testing.T) {
	ctx := context.Background()
	svc, store, dates := newService(t)
	top := store.AddUser("top", "Top", false)
	mid := store.AddUser("mid", "Mid", false)
	idle := store.AddUser("idle", "Idle", false)

	_, _ = svc.Submit(ctx, top.ID, flags(true, true, true))
	_, _ = svc.Submit(ctx, mid.ID, flags(false, true, false))
	dates.Set("2024-03-11")
	_, _ = svc.Submit(ctx, top.ID, flags(false, true, false))

	tests := []struct {
		name      string
		userID    uuid.UUID
		wantTotal int
		wantRank  int
	}{
		{"highest total ranks first", top.ID, 8, 1},
		{"second", mid.ID, 3, 2},
		{"no records is unranked", idle.ID, 0, 0},
		{"unknown user is unranked", uuid.New(), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := svc.Stats(ctx, tt.userID)
			if err != nil {
				t.Fatalf("Stats: %v", err)
			}
			if stats.TotalPoints != tt.wantTotal || stats.Rank != tt.wantRank {
				t.Errorf("got total=%d rank=%d, want total=%d rank=%d",
					stats.TotalPoints, stats.Rank, tt.wantTotal, tt.wantRank)
			}
			if stats.TotalParticipants != 2 {
				t.Errorf("TotalParticipants = %d, want 2", stats.TotalParticipants)
			}
		})
	}
}

func TestLeaderboardTotalsAndTieBreaks(t *testing.T) {
	ctx := context.Background()
	svc, store, dates := newService(t)
	admin := store.AddUser("admin", "Admin", true)
	steady := store.AddUser("steady", "Steady", false)
	burst := store.AddUser("burst", "Burst", false)
	zaid := store.AddUser("zaid", "Zaid", false)
	adam := store.AddUser("adam", "Adam", false)

	// steady: 2 days x 2 points; burst: 1 day x 4 points. Equal totals, steady has more days.
	_, _ = svc.Submit(ctx, steady.ID, flags(true, false, true))
	_, _ = svc.Submit(ctx, burst.ID, flags(true, true, false))
	_, _ = svc.Submit(ctx, admin.ID, flags(true, true, true))
	dates.Set("2024-03-11")
	_, _ = svc.Submit(ctx, steady.ID, flags(true, false, true))

	board, err := svc.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}

	wantOrder := []uuid.UUID{steady.ID, burst.ID, adam.ID, zaid.ID}
	if len(board) != len(wantOrder) {
		t.Fatalf("leaderboard has %d entries, want %d (admins excluded)", len(board), len(wantOrder))
	}
	for i, id := range wantOrder {
		if board[i].ID != id {
			t.Errorf("position %d = %s (%s), want %s", i+1, board[i].FullName, board[i].ID, id)
		}
	}

	if board[0].TotalPoints != 4 || board[0].DaysRecorded != 2 {
		t.Errorf("steady = %+v, want 4 points over 2 days", board[0])
	}
	if board[2].TotalPoints != 0 || board[2].DaysRecorded != 0 {
		t.Errorf("idle student = %+v, want zeros", board[2])
	}

	again, _ := svc.Leaderboard(ctx)
	for i := range board {
		if board[i] != again[i] {
			t.Fatalf("leaderboard ordering not stable: %+v vs %+v", board, again)
		}
	}
}

func TestStudents(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	store.AddUser("admin", "Admin", true)
	s := store.AddUser("sara", "Sara", false)
	_, _ = svc.Submit(ctx, s.ID, flags(false, true, true))

	students, err := svc.Students(ctx)
	if err != nil {
		t.Fatalf("Students: %v", err)
	}
	if len(students) != 1 {
		t.Fatalf("got %d students, want 1", len(students))
	}
	got := students[0]
	if got.Rank != 1 || got.Username != "sara" || got.TotalPoints != 4 || got.DaysRecorded != 1 {
		t.Errorf("unexpected entry %+v", got)
	}
}

func TestStudentProgress(t *testing.T) {
	ctx := context.Background()
	svc, store, dates := newService(t)
	admin := store.AddUser("admin", "Admin", true)
	s := store.AddUser("sara", "Sara", false)

	for _, day := range []string{"2024-03-12", "2024-03-10", "2024-03-11"} {
		dates.Set(day)
		if _, err := svc.Submit(ctx, s.ID, flags(true, true, false)); err != nil {
			t.Fatalf("Submit %s: %v", day, err)
		}
	}

	progress, err := svc.StudentProgress(ctx, s.ID)
	if err != nil {
		t.Fatalf("StudentProgress: %v", err)
	}
	if progress.Student.ID != s.ID || progress.Student.FullName != "Sara" {
		t.Errorf("student = %+v", progress.Student)
	}
	if progress.TotalPoints != 12 || progress.DaysRecorded != 3 {
		t.Errorf("totals = %d over %d days, want 12 over 3", progress.TotalPoints, progress.DaysRecorded)
	}
	wantDates := []string{"2024-03-10", "2024-03-11", "2024-03-12"}
	for i, want := range wantDates {
		if progress.Records[i].Date != want {
			t.Errorf("record %d date = %s, want %s", i, progress.Records[i].Date, want)
		}
	}

	for name, id := range map[string]uuid.UUID{"unknown": uuid.New(), "admin": admin.ID} {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.StudentProgress(ctx, id); !errors.Is(err, services.ErrStudentNotFound) {
				t.Fatalf("err = %v, want ErrStudentNotFound", err)
			}
		})
	}
}

func TestStudentProgressWithoutRecords(t *testing.T) {
	svc, store, _ := newService(t)
	s := store.AddUser("new", "New", false)

	progress, err := svc.StudentProgress(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("StudentProgress: %v", err)
	}
	if progress.Records == nil || len(progress.Records) != 0 {
		t.Errorf("Records = %v, want empty non-nil slice", progress.Records)
	}
}

func TestReadsWrapStorageFailures(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	store.Err = errors.New("db down")

	checks := map[string]error{}
	_, checks["stats"] = svc.Stats(ctx, uuid.New())
	_, checks["leaderboard"] = svc.Leaderboard(ctx)
	_, checks["students"] = svc.Students(ctx)
	_, checks["progress"] = svc.StudentProgress(ctx, uuid.New())
	_, checks["today"] = svc.TodayRecord(ctx, uuid.New())

	for name, err := range checks {
		if !errors.Is(err, services.ErrStorage) {
			t.Errorf("%s: err = %v, want ErrStorage", name, err)
		}
	}
}
