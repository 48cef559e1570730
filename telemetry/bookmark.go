package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/petri/bacteria"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction      BookmarkType = "extinction"
	BookmarkColonyCleared   BookmarkType = "colony_cleared"
	BookmarkPopulationCrash BookmarkType = "population_crash"
	BookmarkKillSurge       BookmarkType = "kill_surge"
	BookmarkPlateau         BookmarkType = "plateau"
)

// Bookmark marks a notable moment in a run.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	SimTimeSec  float64      `csv:"sim_time"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"sim_time", b.SimTimeSec,
		"description", b.Description,
	)
}

// plateauWindows is how many consecutive steady windows trigger a plateau.
const plateauWindows = 5

// BookmarkDetector watches successive windows for notable changes.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historyIdx  int
	historyFull bool

	recentPeak    int
	steadyWindows int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < plateauWindows {
		historySize = plateauWindows
	}
	return &BookmarkDetector{history: make([]WindowStats, historySize)}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(t BookmarkType, format string, args ...any) {
		bookmarks = append(bookmarks, Bookmark{
			Type:        t,
			Tick:        stats.WindowEndTick,
			SimTimeSec:  stats.SimTimeSec,
			Description: fmt.Sprintf(format, args...),
		})
	}

	if prev, ok := bd.last(); ok {
		for _, s := range bacteria.AllSpecies() {
			if speciesCount(prev, s) > 0 && speciesCount(stats, s) == 0 {
				add(BookmarkExtinction, "%s died out (was %d)", s, speciesCount(prev, s))
			}
		}
		if prev.Population > 0 && stats.Population == 0 {
			add(BookmarkColonyCleared, "Colony cleared after %d kills this window", stats.Kills)
		}
		if avg, ok := bd.avgKillRate(); ok && stats.Kills >= 3 && stats.KillRate > 2*avg {
			add(BookmarkKillSurge, "Kill rate %.2f is %.1fx average (%.2f)", stats.KillRate, stats.KillRate/avg, avg)
		}
	}

	if bd.recentPeak > 0 {
		drop := 1 - float64(stats.Population)/float64(bd.recentPeak)
		if drop > 0.30 && stats.Population < bd.recentPeak-10 {
			add(BookmarkPopulationCrash, "Population crashed %.0f%% from peak %d to %d", drop*100, bd.recentPeak, stats.Population)
			bd.recentPeak = stats.Population
		}
	}
	if stats.Population > bd.recentPeak {
		bd.recentPeak = stats.Population
	}

	bd.addToHistory(stats)

	if bd.checkPlateau() {
		add(BookmarkPlateau, "Population steady near %d over %d windows", stats.Population, plateauWindows)
	}

	return bookmarks
}

func speciesCount(s WindowStats, sp bacteria.Species) int {
	switch sp {
	case bacteria.Cocci:
		return s.Cocci
	case bacteria.Diplococcus:
		return s.Diplococcus
	case bacteria.Staphylococci:
		return s.Staphylococci
	case bacteria.Bacillus:
		return s.Bacillus
	}
	return 0
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % len(bd.history)
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// ordered returns the history oldest first.
func (bd *BookmarkDetector) ordered() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, len(bd.history))
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) last() (WindowStats, bool) {
	h := bd.ordered()
	if len(h) == 0 {
		return WindowStats{}, false
	}
	return h[len(h)-1], true
}

func (bd *BookmarkDetector) avgKillRate() (float64, bool) {
	h := bd.ordered()
	if len(h) < 3 {
		return 0, false
	}
	var kills, hits int
	for _, s := range h {
		kills += s.Kills
		hits += s.Hits
	}
	if hits == 0 || kills == 0 {
		return 0, false
	}
	return float64(kills) / float64(hits), true
}

// checkPlateau fires once when the population has held steady, with a
// coefficient of variation under 0.2, for plateauWindows windows in a row.
func (bd *BookmarkDetector) checkPlateau() bool {
	h := bd.ordered()
	if len(h) < 4 || h[len(h)-1].Population < 10 {
		bd.steadyWindows = 0
		return false
	}

	pops := make([]float64, 4)
	for i, s := range h[len(h)-4:] {
		pops[i] = float64(s.Population)
	}
	mean, variance := stat.MeanVariance(pops, nil)
	if mean > 0 && variance/(mean*mean) < 0.04 {
		bd.steadyWindows++
	} else {
		bd.steadyWindows = 0
	}
	return bd.steadyWindows == plateauWindows
}
