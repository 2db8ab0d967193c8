package output

import (
	"fmt"
	"math"
	"sort"

	"github.com/tstromberg/cachesim/internal/engine"
)

// Points awarded by placement: 1st=10, 2nd=7, 3rd=5, 4th=4, 5th=3, 6th=2, 7th=1.
var placementPoints = []float64{10, 7, 5, 4, 3, 2, 1}

// Ranking represents an overall ranking entry.
type Ranking struct {
	Rank   int     `json:"rank"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Gold   int     `json:"gold"`
	Silver int     `json:"silver"`
	Bronze int     `json:"bronze"`
}

// CapacityMedal holds the top three placements at one cache capacity.
// Tied policies share a placement.
type CapacityMedal struct {
	Capacity int      `json:"capacity"`
	Gold     []string `json:"gold,omitempty"`
	Silver   []string `json:"silver,omitempty"`
	Bronze   []string `json:"bronze,omitempty"`
}

// rankedEntry holds a name and score for tie detection.
type rankedEntry struct {
	name  string
	score float64
}

// Round3 rounds to 3 decimal places for tie detection.
func Round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// WinnerEntry represents a ranked entry for winner display.
type WinnerEntry struct {
	Name  string
	Score float64
}

// FormatWinners returns winner names and the first runner-up for comparison.
// If multiple entries tie for first, all are returned as winners.
// Returns (winners, runnerUp) where runnerUp is nil if everyone ties or only one entry.
func FormatWinners(entries []WinnerEntry) (winners []string, runnerUp *WinnerEntry) {
	if len(entries) == 0 {
		return nil, nil
	}

	bestScore := Round3(entries[0].Score)
	for _, e := range entries {
		if Round3(e.Score) != bestScore {
			runnerUp = &WinnerEntry{Name: e.Name, Score: e.Score}
			break
		}
		winners = append(winners, e.Name)
	}

	return winners, runnerUp
}

// ComputeRankings ranks policies by placement at every swept capacity.
// Hit rates are compared as percentages rounded to 3 decimals, so policies
// that tie share the placement and the following placement is skipped.
func ComputeRankings(sweeps []engine.SweepResult) ([]Ranking, []CapacityMedal) {
	if len(sweeps) == 0 {
		return nil, nil
	}

	scores := make(map[string]float64)
	medals := make(map[string][3]int) // [gold, silver, bronze]
	var table []CapacityMedal

	assignPoints := func(capacity int, entries []rankedEntry) {
		cm := CapacityMedal{Capacity: capacity}
		pos := 0 // current medal position (0=gold, 1=silver, 2=bronze)
		i := 0

		for i < len(entries) {
			var tied []string
			baseScore := Round3(entries[i].score)
			for i < len(entries) && Round3(entries[i].score) == baseScore {
				tied = append(tied, entries[i].name)
				i++
			}

			for _, n := range tied {
				if pos < len(placementPoints) {
					scores[n] += placementPoints[pos]
				}
				if pos < 3 {
					m := medals[n]
					m[pos]++
					medals[n] = m
				}
			}

			switch pos {
			case 0:
				cm.Gold = tied
			case 1:
				cm.Silver = tied
			case 2:
				cm.Bronze = tied
			}

			pos += len(tied)
		}

		table = append(table, cm)
	}

	for _, r := range sweeps[0].Results {
		capacity := r.Capacity
		entries := make([]rankedEntry, len(sweeps))
		for i, s := range sweeps {
			entries[i] = rankedEntry{s.Policy.String(), Percent(s.Ratio(capacity))}
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].score > entries[j].score
		})
		assignPoints(capacity, entries)
	}

	var result []Ranking
	for name, score := range scores {
		m := medals[name]
		result = append(result, Ranking{Name: name, Score: score, Gold: m[0], Silver: m[1], Bronze: m[2]})
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Gold != b.Gold {
			return a.Gold > b.Gold
		}
		if a.Silver != b.Silver {
			return a.Silver > b.Silver
		}
		if a.Bronze != b.Bronze {
			return a.Bronze > b.Bronze
		}
		return a.Name < b.Name
	})
	for i := range result {
		result[i].Rank = i + 1
	}

	return result, table
}

// winnerLine describes the best policy by average hit rate, or the tie.
func winnerLine(sweeps []engine.SweepResult) string {
	sorted := sortedSweeps(sweeps)
	if len(sorted) < 2 {
		return ""
	}

	entries := make([]WinnerEntry, len(sorted))
	for i, s := range sorted {
		entries[i] = WinnerEntry{Name: s.Policy.String(), Score: Percent(s.AvgRatio())}
	}
	winners, runnerUp := FormatWinners(entries)

	if runnerUp == nil {
		return fmt.Sprintf("tie: %v (%.2f%% avg)", winners, entries[0].Score)
	}
	if len(winners) > 1 {
		return fmt.Sprintf("tie: %v (%.2f%% avg, %s %.2f%%)", winners, entries[0].Score, runnerUp.Name, runnerUp.Score)
	}
	best := entries[0]
	if runnerUp.Score == 0 {
		return fmt.Sprintf("winner: %s (%.2f%% avg, %s never hits)", best.Name, best.Score, runnerUp.Name)
	}
	pct := (best.Score - runnerUp.Score) / runnerUp.Score * 100
	return fmt.Sprintf("winner: %s (%.2f%% avg, +%.2f%% vs %s)", best.Name, best.Score, pct, runnerUp.Name)
}
