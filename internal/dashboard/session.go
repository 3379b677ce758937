// Package dashboard ties the pipeline together: a session holds the current
// filter parameters, shares the immutable raw tables, and recomputes the full
// derived snapshot on every parameter change. Nothing is cached between
// parameter sets and output never feeds back into filtering.
package dashboard

import (
	"sync"
	"time"

	"github.com/goccy/go-json"

	"worldstats/internal/broadcast"
	"worldstats/internal/charts"
	"worldstats/internal/dataset"
	"worldstats/internal/events"
	"worldstats/internal/filter"
	"worldstats/internal/kpi"
	"worldstats/internal/metrics"
	"worldstats/internal/wshub"
)

// Charts is the per-visualization output block of a snapshot.
type Charts struct {
	DailyPlaytime    []charts.DailyPoint         `json:"daily_playtime"`
	TopPlayers       []charts.PlayerHours        `json:"top_players"`
	DepthHistogram   []charts.DepthBin           `json:"depth_histogram"`
	ResourcesByBiome []charts.BiomeResourceCount `json:"resources_by_biome"`
	BiomeFootprint   []charts.BiomeWeight        `json:"biome_footprint"`
	Wealth           []charts.PlayerBalance      `json:"wealth"`
	WealthHistogram  []charts.BalanceBin         `json:"wealth_histogram"`
	RichestPlayers   []charts.PlayerBalance      `json:"richest_players"`
	DeathCauses      []charts.CauseCount         `json:"death_causes"`
}

// Snapshot is everything one recomputation produces.
type Snapshot struct {
	Params     filter.Params `json:"params"`
	KPIs       kpi.Set       `json:"kpis"`
	Charts     Charts        `json:"charts"`
	ComputedAt time.Time     `json:"computed_at"`
}

// Session is one user's view of the dashboard: their parameters and the
// snapshot derived from them. Sessions share the raw tables read-only and
// are otherwise fully isolated.
type Session struct {
	ID          string
	CreatedAt   time.Time
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub

	mu       sync.Mutex
	tables   *dataset.Tables
	bus      *events.Bus
	snapshot Snapshot
}

func newSession(id string, tables *dataset.Tables) (*Session, error) {
	bus := events.NewBus()
	s := &Session{
		ID:          id,
		CreatedAt:   time.Now(),
		Broadcaster: broadcast.NewBroadcaster(bus),
		Hub:         wshub.NewHub(),
		tables:      tables,
		bus:         bus,
	}

	snap, err := compute(tables, filter.DefaultParams(tables.MaxDays))
	if err != nil {
		return nil, err
	}
	s.snapshot = snap
	return s, nil
}

// Snapshot returns the most recently computed snapshot.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Params returns the session's current filter parameters.
func (s *Session) Params() filter.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Params
}

// SetParams validates the new parameters, recomputes the snapshot and pushes
// it to the session's SSE and WebSocket listeners. On validation failure the
// previous snapshot stays in place.
func (s *Session) SetParams(p filter.Params) (Snapshot, error) {
	snap, err := compute(s.tables, p)
	if err != nil {
		metrics.ParamRejections.Inc()
		return Snapshot{}, err
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.publish(snap)
	return snap, nil
}

func (s *Session) publish(snap Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	select {
	case s.bus.Snapshots <- events.SnapshotEvent{SessionID: s.ID, Payload: payload}:
	default:
		// bus full: SSE listeners miss this update, WS still gets it
	}
	s.Hub.Broadcast(payload)
}

// compute runs the full pipeline for one parameter set: filter, then KPIs
// and chart projections off the same filtered tables.
func compute(tables *dataset.Tables, p filter.Params) (Snapshot, error) {
	start := time.Now()

	f, err := filter.Apply(tables, p)
	if err != nil {
		return Snapshot{}, err
	}

	wealth := charts.WealthByPlayer(f.Economy)
	snap := Snapshot{
		Params: p,
		KPIs:   kpi.Compute(f),
		Charts: Charts{
			DailyPlaytime:    charts.DailyPlaytime(f.Activity),
			TopPlayers:       charts.TopPlayers(f.Activity),
			DepthHistogram:   charts.DepthHistogram(f.Mining),
			ResourcesByBiome: charts.ResourcesByBiome(f.Mining),
			BiomeFootprint:   charts.BiomeFootprint(f.Mining),
			Wealth:           wealth,
			WealthHistogram:  charts.WealthHistogram(wealth),
			RichestPlayers:   charts.RichestPlayers(wealth),
			DeathCauses:      charts.DeathCauses(f.Deaths),
		},
		ComputedAt: time.Now(),
	}

	metrics.SnapshotRecomputes.Inc()
	metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	return snap, nil
}
