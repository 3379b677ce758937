package dashboard

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"worldstats/internal/dataset"
	"worldstats/internal/filter"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	tables, err := dataset.Generate(42, 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	return NewStore(tables, time.Hour)
}

func TestStore_CreateStartsWithDefaults(t *testing.T) {
	store := testStore(t)

	sess, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID == "" {
		t.Error("session has no ID")
	}

	snap := sess.Snapshot()
	want := filter.DefaultParams(store.Tables().MaxDays)
	if !reflect.DeepEqual(snap.Params, want) {
		t.Errorf("initial params = %+v, want defaults %+v", snap.Params, want)
	}
	if snap.KPIs.UniquePlayers == 0 {
		t.Error("default snapshot over generated data should see players")
	}
}

func TestSession_SetParamsRecomputes(t *testing.T) {
	store := testStore(t)
	sess, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}

	p := filter.DefaultParams(store.Tables().MaxDays)
	p.Mode = dataset.ModeHardcore
	snap, err := sess.SetParams(p)
	if err != nil {
		t.Fatal(err)
	}

	if snap.Params.Mode != dataset.ModeHardcore {
		t.Errorf("snapshot mode = %q, want Hardcore", snap.Params.Mode)
	}
	if !reflect.DeepEqual(sess.Snapshot(), snap) {
		t.Error("Snapshot() should return the freshly computed snapshot")
	}
}

func TestSession_InvalidParamsKeepPreviousSnapshot(t *testing.T) {
	store := testStore(t)
	sess, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}
	before := sess.Snapshot()

	bad := filter.DefaultParams(store.Tables().MaxDays)
	bad.DayLo, bad.DayHi = 10, 2
	if _, err := sess.SetParams(bad); !errors.Is(err, filter.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}

	if !reflect.DeepEqual(sess.Snapshot(), before) {
		t.Error("failed SetParams must not replace the previous snapshot")
	}
}

func TestSession_PublishesToSubscribers(t *testing.T) {
	store := testStore(t)
	sess, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}

	ch := sess.Broadcaster.Subscribe()
	defer sess.Broadcaster.Unsubscribe(ch)

	p := filter.DefaultParams(store.Tables().MaxDays)
	p.ActiveOnly = true
	if _, err := sess.SetParams(p); err != nil {
		t.Fatal(err)
	}

	select {
	case payload := <-ch:
		if len(payload) == 0 {
			t.Error("empty snapshot payload")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("no snapshot broadcast after SetParams")
	}
}

func TestStore_SessionIsolation(t *testing.T) {
	store := testStore(t)

	s1, _ := store.Create()
	s2, _ := store.Create()

	p := filter.DefaultParams(store.Tables().MaxDays)
	p.Mode = dataset.ModeCreative
	if _, err := s1.SetParams(p); err != nil {
		t.Fatal(err)
	}

	if s2.Params().Mode != dataset.ModeSurvival {
		t.Error("changing one session's params leaked into another session")
	}
	if s1.Params().Mode != dataset.ModeCreative {
		t.Error("s1 params not updated")
	}
}

func TestStore_GetDelete(t *testing.T) {
	store := testStore(t)

	sess, _ := store.Create()
	if store.Get(sess.ID) != sess {
		t.Error("Get did not return the created session")
	}
	if store.Get("missing") != nil {
		t.Error("Get of unknown id should return nil")
	}

	store.Delete(sess.ID)
	if store.Get(sess.ID) != nil {
		t.Error("session still present after Delete")
	}
	if store.Count() != 0 {
		t.Errorf("count = %d, want 0", store.Count())
	}
}

func TestSnapshot_RecomputeOnlyOnParamChange(t *testing.T) {
	store := testStore(t)
	sess, _ := store.Create()

	first := sess.Snapshot()
	second := sess.Snapshot()
	if !reflect.DeepEqual(first, second) {
		t.Error("reading the snapshot must not recompute or mutate it")
	}
}
