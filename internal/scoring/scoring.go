// Package scoring maps finished projects to points and points to grade
// bands. Every function here is pure.
package scoring

import "github.com/lox/publishorperish/internal/catalog"

// Band is a grade band.
type Band string

const (
	BandLow          Band = "low"
	BandModerate     Band = "moderate"
	BandHigh         Band = "high"
	BandBreakthrough Band = "breakthrough"
)

// Bands lists the bands from lowest to highest.
var Bands = []Band{BandLow, BandModerate, BandHigh, BandBreakthrough}

// BandRange is the inclusive point range of a band. Max < 0 means unbounded.
type BandRange struct {
	Band       Band
	Min        int
	Max        int
	Multiplier int
}

// Ranges partitions the non-negative integers.
var Ranges = []BandRange{
	{Band: BandLow, Min: 0, Max: 10, Multiplier: 1},
	{Band: BandModerate, Min: 11, Max: 20, Multiplier: 2},
	{Band: BandHigh, Min: 21, Max: 30, Multiplier: 3},
	{Band: BandBreakthrough, Min: 31, Max: -1, Multiplier: 5},
}

var (
	fundingPoints = map[string]int{
		catalog.TypeSmall:      2,
		catalog.TypeMedium:     4,
		catalog.TypeLarge:      6,
		catalog.TypeIndustry:   5,
		catalog.TypeGovernment: 7,
	}
	collaborationPoints = map[string]int{
		catalog.TypeLocal:             1,
		catalog.TypeNational:          3,
		catalog.TypeInternational:     5,
		catalog.TypeInterdisciplinary: 4,
	}
	progressPoints = map[string]int{
		catalog.TypeBasic:        1,
		catalog.TypeApplied:      2,
		catalog.TypeBreakthrough: 4,
		catalog.TypeTheory:       2,
	}
)

// Project is the scoring view of a project: one type tag per component.
// An empty tag means the component is missing.
type Project struct {
	Funding       string
	Collaboration string
	Progress      string
}

// Complete reports whether all three components are present.
func (p Project) Complete() bool {
	return p.Funding != "" && p.Collaboration != "" && p.Progress != ""
}

func lookup(table map[string]int, tag string) int {
	points, ok := table[tag]
	if !ok {
		return 0
	}
	return points
}

// FundingPoints returns the points for a funding type; unknown types score 0.
func FundingPoints(tag string) int { return lookup(fundingPoints, tag) }

// CollaborationPoints returns the points for a collaboration type.
func CollaborationPoints(tag string) int { return lookup(collaborationPoints, tag) }

// ProgressPoints returns the points for a progress (research) type.
func ProgressPoints(tag string) int { return lookup(progressPoints, tag) }

// ProjectPoints sums the three independent component lookups.
func ProjectPoints(p Project) int {
	return FundingPoints(p.Funding) + CollaborationPoints(p.Collaboration) + ProgressPoints(p.Progress)
}

// GradeBand returns the band containing points. Negative input is treated
// as zero.
func GradeBand(points int) Band {
	for i := len(Ranges) - 1; i >= 0; i-- {
		if points >= Ranges[i].Min {
			return Ranges[i].Band
		}
	}
	return BandLow
}

// PublicationBonus returns the band multiplier; unknown bands get 1.
func PublicationBonus(band Band) int {
	for _, r := range Ranges {
		if r.Band == band {
			return r.Multiplier
		}
	}
	return 1
}

// Result is the outcome of one year-end publication event for a player.
type Result struct {
	ProjectPoints int  `json:"projectPoints"`
	Band          Band `json:"band"`
	Bonus         int  `json:"bonus"`
	FinalScore    int  `json:"finalScore"`
	CarryOver     int  `json:"carryOver"`
}

// YearEndScore scores the complete projects among projects. Incomplete
// projects are ignored.
func YearEndScore(projects []Project) Result {
	total := 0
	for _, p := range projects {
		if p.Complete() {
			total += ProjectPoints(p)
		}
	}
	band := GradeBand(total)
	bonus := PublicationBonus(band)
	final := total * bonus
	return Result{
		ProjectPoints: total,
		Band:          band,
		Bonus:         bonus,
		FinalScore:    final,
		// floor(final * 0.1); final is never negative.
		CarryOver: final / 10,
	}
}
