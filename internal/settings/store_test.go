package settings

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/omarshaarawi/sleeperstats/internal/rankings"
	"github.com/omarshaarawi/sleeperstats/internal/repository/memory"
)

var _ rankings.SnapshotStore = (*Store)(nil)

type brokenKV struct{}

var errBroken = errors.New("disk full")

func (brokenKV) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errBroken }
func (brokenKV) Set(context.Context, string, []byte) error         { return errBroken }
func (brokenKV) Delete(context.Context, string) error              { return errBroken }

// flakyKV fails the next failGets reads, then behaves.
type flakyKV struct {
	*memory.KV
	failGets int
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failGets > 0 {
		f.failGets--
		return nil, false, errBroken
	}
	return f.KV.Get(ctx, key)
}

func TestUpdateTeamAndExclusions(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.NewKV())

	if _, err := s.UpdateTeam(ctx, "L", "u1", func(ts *TeamSettings) { ts.CustomName = "Dynasty" }); err != nil {
		t.Fatalf("UpdateTeam: %v", err)
	}
	if _, err := s.UpdateTeam(ctx, "L", SeasonKey(3, "2022"), func(ts *TeamSettings) { ts.CustomColor = "#ff0000" }); err != nil {
		t.Fatalf("UpdateTeam: %v", err)
	}

	excluded, err := s.ToggleExclusion(ctx, "L", "u1", "2022")
	if err != nil || !excluded {
		t.Fatalf("ToggleExclusion = %v, %v; want true", excluded, err)
	}

	ls := s.Load(ctx, "L")
	if ls.Teams["u1"].CustomName != "Dynasty" || ls.Teams["roster:3:2022"].CustomColor != "#ff0000" {
		t.Errorf("teams = %+v", ls.Teams)
	}
	if got := s.Exclusions(ctx, "L"); !reflect.DeepEqual(got, map[string][]string{"u1": {"2022"}}) {
		t.Errorf("Exclusions = %v", got)
	}

	excluded, _ = s.ToggleExclusion(ctx, "L", "u1", "2022")
	if excluded || len(s.Exclusions(ctx, "L")) != 0 {
		t.Errorf("second toggle did not clear the exclusion")
	}

	// Clearing every field drops the team entry.
	s.UpdateTeam(ctx, "L", "u1", func(ts *TeamSettings) { ts.CustomName = "" })
	if _, ok := s.Load(ctx, "L").Teams["u1"]; ok {
		t.Errorf("empty team settings were kept")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.NewKV())
	s.now = func() time.Time { return time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC) }

	s.UpdateTeam(ctx, "L", "u1", func(ts *TeamSettings) {
		ts.CustomName = "Dynasty"
		ts.CustomColor = "#123456"
		ts.ExcludeSeasons = []string{"2021", "2022"}
	})
	s.SetNote(ctx, "L", "standings:u2", "paid dues late")
	want := s.Load(ctx, "L")

	data, err := s.Export(ctx, "L")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	// Overwrite with something else, then restore.
	s.Save(ctx, "L", LeagueSettings{Notes: map[string]string{"x": "y"}})
	if _, err := s.Import(ctx, "L", data); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := s.Load(ctx, "L"); !reflect.DeepEqual(got, want) {
		t.Errorf("after round trip = %+v, want %+v", got, want)
	}

	other := NewStore(memory.NewKV())
	if _, err := other.Import(ctx, "L2", data); err != nil {
		t.Fatalf("Import into other league: %v", err)
	}
	if got := other.Load(ctx, "L2"); !reflect.DeepEqual(got, want) {
		t.Errorf("other league = %+v, want %+v", got, want)
	}
}

func TestImportRejectsBadBundles(t *testing.T) {
	s := NewStore(memory.NewKV())
	for _, data := range []string{
		`not json`,
		`{"version": 9, "settings": {}}`,
		`{"version": 1}`,
	} {
		if _, err := s.Import(context.Background(), "L", []byte(data)); !errors.Is(err, ErrInvalidBundle) {
			t.Errorf("Import(%s) error = %v, want ErrInvalidBundle", data, err)
		}
	}
}

func TestSnapshots(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.NewKV())

	if _, ok, err := s.LatestRanks(ctx, "L", 5); ok || err != nil {
		t.Fatalf("LatestRanks on empty store = %v, %v", ok, err)
	}

	s.SaveRanks(ctx, "L", 2, map[int]int{1: 2, 2: 1})
	s.SaveRanks(ctx, "L", 7, map[int]int{1: 1, 2: 2})

	ranks, ok, err := s.LatestRanks(ctx, "L", 5)
	if err != nil || !ok || ranks[2] != 1 {
		t.Errorf("LatestRanks(5) = %v, %v, %v; want week 2 snapshot", ranks, ok, err)
	}
	if _, ok, _ := s.LatestRanks(ctx, "L", 2); ok {
		t.Errorf("LatestRanks(2) found a snapshot from week 2 or later")
	}

	s.SaveSeed(ctx, "L", map[string]int{"Dynasty": 3})
	seed, ok, err := s.SeedRanks(ctx, "L")
	if err != nil || !ok || seed["Dynasty"] != 3 {
		t.Errorf("SeedRanks = %v, %v, %v", seed, ok, err)
	}
	s.DeleteSeed(ctx, "L")
	if _, ok, _ := s.SeedRanks(ctx, "L"); ok {
		t.Errorf("seed still present after DeleteSeed")
	}
}

func TestBrokenBackendIsNotFatal(t *testing.T) {
	ctx := context.Background()
	s := NewStore(brokenKV{})

	ls := s.Load(ctx, "L")
	if ls.Teams == nil || ls.Notes == nil || len(ls.Teams) != 0 {
		t.Errorf("Load on broken backend = %+v, want empty settings", ls)
	}
	if err := s.SetNote(ctx, "L", "k", "v"); !errors.Is(err, errBroken) {
		t.Errorf("SetNote error = %v, want wrapped backend error", err)
	}
	if got := s.LoadROS(ctx, "L"); got != nil {
		t.Errorf("LoadROS = %v, want nil", got)
	}

	rows := []rankings.PowerRow{{RosterID: 1, Rank: 1}}
	rankings.ApplyChanges(ctx, s, "L", 3, rows)
	if rows[0].HasChange() {
		t.Errorf("change computed from a broken store")
	}
}

func TestFailedReadDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{KV: memory.NewKV()}
	s := NewStore(kv)

	s.UpdateTeam(ctx, "L", "u1", func(ts *TeamSettings) { ts.CustomName = "Gotham" })
	s.SetNote(ctx, "L", "standings:u1", "defending champ")
	want := s.Load(ctx, "L")

	kv.failGets = 1
	if _, err := s.UpdateTeam(ctx, "L", "u2", func(ts *TeamSettings) { ts.CustomColor = "#000000" }); !errors.Is(err, errBroken) {
		t.Errorf("UpdateTeam error = %v, want wrapped backend error", err)
	}
	kv.failGets = 1
	if _, err := s.ToggleExclusion(ctx, "L", "u1", "2022"); !errors.Is(err, errBroken) {
		t.Errorf("ToggleExclusion error = %v, want wrapped backend error", err)
	}
	kv.failGets = 1
	if err := s.SetNote(ctx, "L", "standings:u2", "x"); !errors.Is(err, errBroken) {
		t.Errorf("SetNote error = %v, want wrapped backend error", err)
	}
	kv.failGets = 1
	if _, err := s.Export(ctx, "L"); !errors.Is(err, errBroken) {
		t.Errorf("Export error = %v, want wrapped backend error", err)
	}

	if got := s.Load(ctx, "L"); !reflect.DeepEqual(got, want) {
		t.Errorf("settings after failed reads = %+v, want %+v", got, want)
	}
}

func TestROSRows(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.NewKV())
	ros := 12.5
	rows := []rankings.ROSRow{{Player: "Josh Allen", Rank: 1, ROS: &ros}}

	if err := s.SaveROS(ctx, "L", rows); err != nil {
		t.Fatalf("SaveROS: %v", err)
	}
	if got := s.LoadROS(ctx, "L"); !reflect.DeepEqual(got, rows) {
		t.Errorf("LoadROS = %+v, want %+v", got, rows)
	}
}
