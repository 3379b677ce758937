// Package charts turns filtered tables into the small derived tables that
// back each dashboard visualization. Every projection is a pure function;
// chart rendering itself lives entirely outside this service.
package charts

import (
	"sort"

	"worldstats/internal/dataset"
)

const (
	// TopN bounds the player rankings.
	TopN = 15
	// DepthBinCount is the fixed bin grid of the mining-depth histogram.
	DepthBinCount = 60
	// WealthBinCount is the fixed bin grid of the wealth histogram.
	WealthBinCount = 40
)

type DailyPoint struct {
	Day   int     `json:"day"`
	Hours float64 `json:"hours"`
}

type PlayerHours struct {
	Player string  `json:"player"`
	Hours  float64 `json:"hours"`
	Rank   int     `json:"rank"`
}

type DepthBin struct {
	From     float64          `json:"from"`
	To       float64          `json:"to"`
	Resource dataset.Resource `json:"resource"`
	Count    int              `json:"count"`
}

type BiomeResourceCount struct {
	Biome    dataset.Biome    `json:"biome"`
	Resource dataset.Resource `json:"resource"`
	Count    int              `json:"count"`
}

type BiomeWeight struct {
	Biome dataset.Biome `json:"biome"`
	Count int           `json:"count"`
}

type PlayerBalance struct {
	Player  string  `json:"player"`
	Balance float64 `json:"balance"`
	Rank    int     `json:"rank,omitempty"`
}

type BalanceBin struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Count int     `json:"count"`
}

type CauseCount struct {
	Cause dataset.Cause `json:"cause"`
	Count int           `json:"count"`
}

// DailyPlaytime sums hours per day, ascending by day.
func DailyPlaytime(rows []dataset.ActivityRecord) []DailyPoint {
	sums := make(map[int]float64)
	for _, r := range rows {
		sums[r.Day] += r.HoursPlayed
	}

	days := make([]int, 0, len(sums))
	for d := range sums {
		days = append(days, d)
	}
	sort.Ints(days)

	out := make([]DailyPoint, len(days))
	for i, d := range days {
		out[i] = DailyPoint{Day: d, Hours: sums[d]}
	}
	return out
}

// TopPlayers sums hours per player and returns the top 15 by total, ranked
// from 1. Ties keep the order players were first encountered in the input.
func TopPlayers(rows []dataset.ActivityRecord) []PlayerHours {
	totals := sumByPlayer(rowsToPlayerHours(rows))
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Hours > totals[j].Hours
	})
	if len(totals) > TopN {
		totals = totals[:TopN]
	}
	for i := range totals {
		totals[i].Rank = i + 1
	}
	return totals
}

// DepthHistogram buckets mining events into 60 equal-width bins across the
// observed y_level range, one row per non-empty (bin, resource) pair. The bin
// grid is shared across resources.
func DepthHistogram(rows []dataset.MiningRecord) []DepthBin {
	if len(rows) == 0 {
		return nil
	}

	lo, hi := rows[0].YLevel, rows[0].YLevel
	for _, r := range rows {
		if r.YLevel < lo {
			lo = r.YLevel
		}
		if r.YLevel > hi {
			hi = r.YLevel
		}
	}
	width := float64(hi-lo+1) / DepthBinCount

	counts := make(map[int]map[dataset.Resource]int)
	for _, r := range rows {
		bin := int(float64(r.YLevel-lo) / width)
		if bin >= DepthBinCount {
			bin = DepthBinCount - 1
		}
		if counts[bin] == nil {
			counts[bin] = make(map[dataset.Resource]int)
		}
		counts[bin][r.Resource]++
	}

	var out []DepthBin
	for bin := 0; bin < DepthBinCount; bin++ {
		byResource := counts[bin]
		if byResource == nil {
			continue
		}
		for _, res := range dataset.Resources {
			if n := byResource[res]; n > 0 {
				out = append(out, DepthBin{
					From:     float64(lo) + float64(bin)*width,
					To:       float64(lo) + float64(bin+1)*width,
					Resource: res,
					Count:    n,
				})
			}
		}
	}
	return out
}

// ResourcesByBiome counts mining events per (biome, resource), one row per
// non-empty combination, in canonical enum order.
func ResourcesByBiome(rows []dataset.MiningRecord) []BiomeResourceCount {
	counts := make(map[dataset.Biome]map[dataset.Resource]int)
	for _, r := range rows {
		if counts[r.Biome] == nil {
			counts[r.Biome] = make(map[dataset.Resource]int)
		}
		counts[r.Biome][r.Resource]++
	}

	var out []BiomeResourceCount
	for _, b := range dataset.Biomes {
		for _, res := range dataset.Resources {
			if n := counts[b][res]; n > 0 {
				out = append(out, BiomeResourceCount{Biome: b, Resource: res, Count: n})
			}
		}
	}
	return out
}

// BiomeFootprint counts mining events per biome, descending by count, ties in
// first-encounter order. The counts feed a proportional-area chart.
func BiomeFootprint(rows []dataset.MiningRecord) []BiomeWeight {
	counts := make(map[dataset.Biome]int)
	var order []dataset.Biome
	for _, r := range rows {
		if counts[r.Biome] == 0 {
			order = append(order, r.Biome)
		}
		counts[r.Biome]++
	}

	out := make([]BiomeWeight, len(order))
	for i, b := range order {
		out[i] = BiomeWeight{Biome: b, Count: counts[b]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// WealthByPlayer sums balance per player in first-encounter order.
func WealthByPlayer(rows []dataset.EconomyRecord) []PlayerBalance {
	sums := make(map[string]float64)
	var order []string
	for _, r := range rows {
		if _, seen := sums[r.Player]; !seen {
			order = append(order, r.Player)
		}
		sums[r.Player] += r.Balance
	}

	out := make([]PlayerBalance, len(order))
	for i, p := range order {
		out[i] = PlayerBalance{Player: p, Balance: sums[p]}
	}
	return out
}

// RichestPlayers ranks wealth descending and keeps the top 15, same tie
// policy as TopPlayers.
func RichestPlayers(wealth []PlayerBalance) []PlayerBalance {
	out := append([]PlayerBalance(nil), wealth...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Balance > out[j].Balance
	})
	if len(out) > TopN {
		out = out[:TopN]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// WealthHistogram buckets per-player wealth into 40 equal-width bins.
func WealthHistogram(wealth []PlayerBalance) []BalanceBin {
	if len(wealth) == 0 {
		return nil
	}

	lo, hi := wealth[0].Balance, wealth[0].Balance
	for _, w := range wealth {
		if w.Balance < lo {
			lo = w.Balance
		}
		if w.Balance > hi {
			hi = w.Balance
		}
	}
	if lo == hi {
		return []BalanceBin{{From: lo, To: hi, Count: len(wealth)}}
	}

	width := (hi - lo) / WealthBinCount
	counts := make([]int, WealthBinCount)
	for _, w := range wealth {
		bin := int((w.Balance - lo) / width)
		if bin >= WealthBinCount {
			bin = WealthBinCount - 1
		}
		counts[bin]++
	}

	var out []BalanceBin
	for i, n := range counts {
		if n > 0 {
			out = append(out, BalanceBin{
				From:  lo + float64(i)*width,
				To:    lo + float64(i+1)*width,
				Count: n,
			})
		}
	}
	return out
}

// DeathCauses counts deaths per cause, descending by count, ties in
// first-encounter order.
func DeathCauses(rows []dataset.DeathRecord) []CauseCount {
	counts := make(map[dataset.Cause]int)
	var order []dataset.Cause
	for _, r := range rows {
		if counts[r.Cause] == 0 {
			order = append(order, r.Cause)
		}
		counts[r.Cause]++
	}

	out := make([]CauseCount, len(order))
	for i, c := range order {
		out[i] = CauseCount{Cause: c, Count: counts[c]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// sumByPlayer folds per-row hours into per-player totals, preserving
// first-encounter order.
func sumByPlayer(rows []PlayerHours) []PlayerHours {
	sums := make(map[string]float64)
	var order []string
	for _, r := range rows {
		if _, seen := sums[r.Player]; !seen {
			order = append(order, r.Player)
		}
		sums[r.Player] += r.Hours
	}

	out := make([]PlayerHours, len(order))
	for i, p := range order {
		out[i] = PlayerHours{Player: p, Hours: sums[p]}
	}
	return out
}

func rowsToPlayerHours(rows []dataset.ActivityRecord) []PlayerHours {
	out := make([]PlayerHours, len(rows))
	for i, r := range rows {
		out[i] = PlayerHours{Player: r.Player, Hours: r.HoursPlayed}
	}
	return out
}
