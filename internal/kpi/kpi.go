package kpi

import (
	"worldstats/internal/filter"
)

// NoCategory is reported for top_biome/top_resource when the mining
// selection is empty.
const NoCategory = "—"

// Set is the scalar KPI block shown on the dashboard. Every field has a
// defined value for empty input; computing a Set never fails.
type Set struct {
	UniquePlayers        int     `json:"unique_players"`
	TotalPlaytime        float64 `json:"total_playtime"`
	AvgPlaytimePerPlayer float64 `json:"avg_playtime_per_player"`
	AvgSessionHours      float64 `json:"avg_session_hours"`
	MiningEvents         int     `json:"mining_events"`
	DeathsCount          int     `json:"deaths_count"`
	DeathRate            float64 `json:"death_rate"`
	ChaosIndex           float64 `json:"chaos_index"`
	TopBiome             string  `json:"top_biome"`
	TopResource          string  `json:"top_resource"`
}

// Compute derives the KPI set from the filtered tables.
func Compute(f *filter.Filtered) Set {
	s := Set{
		MiningEvents: len(f.Mining),
		DeathsCount:  len(f.Deaths),
		TopBiome:     NoCategory,
		TopResource:  NoCategory,
	}

	players := make(map[string]bool)
	for _, r := range f.Activity {
		players[r.Player] = true
		s.TotalPlaytime += r.HoursPlayed
	}
	s.UniquePlayers = len(players)
	s.AvgPlaytimePerPlayer = safeDivide(s.TotalPlaytime, float64(s.UniquePlayers))
	s.AvgSessionHours = safeDivide(s.TotalPlaytime, float64(len(f.Activity)))
	s.DeathRate = safeDivide(float64(s.DeathsCount), float64(s.UniquePlayers))
	s.ChaosIndex = float64(s.DeathsCount) / float64(max(s.UniquePlayers, 1))

	if len(f.Mining) > 0 {
		biomes := make([]string, len(f.Mining))
		resources := make([]string, len(f.Mining))
		for i, r := range f.Mining {
			biomes[i] = string(r.Biome)
			resources[i] = string(r.Resource)
		}
		s.TopBiome, _ = mostFrequent(biomes)
		s.TopResource, _ = mostFrequent(resources)
	}

	return s
}

// safeDivide is the single zero-guard used by every ratio KPI.
func safeDivide(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// mostFrequent returns the most common value and its count. Ties go to the
// value encountered first, so the result is deterministic for a given input
// order.
func mostFrequent[T comparable](values []T) (T, int) {
	counts := make(map[T]int, len(values))
	var order []T
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	var best T
	bestCount := 0
	for _, v := range order {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best, bestCount
}
