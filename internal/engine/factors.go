package engine

import (
	"github.com/yourusername/sharp-picks/internal/models"
)

// Factor identifies a single normalized signal computed from team statistics
type Factor string

const (
	FactorOverallRecord     Factor = "overall_record"
	FactorHomeAwaySplit     Factor = "home_away_split"
	FactorRecentForm        Factor = "recent_form"
	FactorHeadToHead        Factor = "head_to_head"
	FactorScoringDiff       Factor = "scoring_diff"
	FactorPitcherMatchup    Factor = "pitcher_matchup"
	FactorTeamPitching      Factor = "team_pitching"
	FactorBatterHandedness  Factor = "batter_handedness"
	FactorBallpark          Factor = "ballpark"
	FactorBattingStrength   Factor = "batting_strength"
	FactorPitchingStrength  Factor = "pitching_strength"
	FactorKeyPlayerImpact   Factor = "key_player_impact"
	FactorPace              Factor = "pace"
	FactorEfficiency        Factor = "efficiency"
)

// FactorSet maps each computed factor to its value in [0,1].
// 0.5 is neutral, above favors the home side.
type FactorSet map[Factor]float64

// mlbParkFactors maps home team names to run-scoring park indices.
// Teams not listed play in roughly neutral parks.
var mlbParkFactors = map[string]float64{
	"Colorado Rockies":      1.15,
	"Cincinnati Reds":       1.08,
	"Boston Red Sox":        1.07,
	"Philadelphia Phillies": 1.05,
	"Texas Rangers":         1.04,
	"Baltimore Orioles":     1.03,
	"Chicago Cubs":          1.03,
	"San Francisco Giants":  0.92,
	"Miami Marlins":         0.93,
	"Oakland Athletics":     0.94,
	"St. Louis Cardinals":   0.95,
	"Seattle Mariners":      0.95,
}

// MatchupInput bundles everything factor computation needs for one event.
// RecentCombinedScores carries the combined final scores of the two
// sides' recent games, used only by the calibrator's totals adjustment.
type MatchupInput struct {
	Event                *models.Event
	HomeStats            *models.TeamStatSnapshot
	AwayStats            *models.TeamStatSnapshot
	HeadToHead           *models.HeadToHeadSnapshot
	RecentCombinedScores []float64
}

// ComputeFactors derives the full factor set for a matchup. Factors whose
// inputs are missing resolve to the neutral 0.5 rather than being omitted,
// so the aggregation step always sees a complete set for the sport.
func ComputeFactors(in MatchupInput) FactorSet {
	fs := FactorSet{}

	fs[FactorOverallRecord] = overallRecordFactor(in.HomeStats, in.AwayStats)
	fs[FactorHomeAwaySplit] = homeAwaySplitFactor(in.HomeStats, in.AwayStats)
	fs[FactorRecentForm] = recentFormFactor(in.HomeStats, in.AwayStats)
	fs[FactorHeadToHead] = in.HeadToHead.HomeWinFraction()
	fs[FactorScoringDiff] = scoringDiffFactor(in.Event.Sport, in.HomeStats, in.AwayStats)

	switch in.Event.Sport {
	case models.SportBaseball:
		fs[FactorPitcherMatchup] = starterPitchingFactor(in.HomeStats, in.AwayStats)
		fs[FactorTeamPitching] = teamPitchingFactor(in.HomeStats, in.AwayStats)
		fs[FactorBatterHandedness] = batterHandednessFactor(in.HomeStats, in.AwayStats)
		fs[FactorBallpark] = ballparkFactor(in.Event.HomeTeamName)
		fs[FactorBattingStrength] = battingStrengthFactor(in.HomeStats, in.AwayStats)
		fs[FactorPitchingStrength] = pitchingStrengthFactor(in.HomeStats, in.AwayStats)
		fs[FactorKeyPlayerImpact] = keyPlayerImpactFactor(in.HomeStats, in.AwayStats)
	case models.SportBasketball:
		fs[FactorPace] = paceFactor(in.HomeStats, in.AwayStats)
		fs[FactorEfficiency] = efficiencyFactor(in.HomeStats, in.AwayStats)
	}

	return fs
}

func overallRecordFactor(home, away *models.TeamStatSnapshot) float64 {
	if home == nil || away == nil {
		return 0.5
	}
	return clamp01((home.WinPct() - away.WinPct() + 1) / 2)
}

func homeAwaySplitFactor(home, away *models.TeamStatSnapshot) float64 {
	if home == nil || away == nil {
		return 0.5
	}
	h := home.HomeWinPct()
	a := away.AwayWinPct()
	if h == nil || a == nil {
		return 0.5
	}
	return clamp01((*h - *a + 1) / 2)
}

func recentFormFactor(home, away *models.TeamStatSnapshot) float64 {
	if home == nil || away == nil || home.LastTenWins == nil || away.LastTenWins == nil {
		return 0.5
	}
	return clamp01(float64(*home.LastTenWins-*away.LastTenWins+10) / 20)
}

// scoringDiffFactor normalizes the net-margin gap by a sport-scale
// divisor so one full divisor of advantage moves the factor by 0.5.
func scoringDiffFactor(sport models.Sport, home, away *models.TeamStatSnapshot) float64 {
	if home == nil || away == nil {
		return 0.5
	}
	h := home.NetScoring()
	a := away.NetScoring()
	if h == nil || a == nil {
		return 0.5
	}
	divisor := 2.0
	if sport == models.SportBasketball {
		divisor = 20.0
	}
	return clamp01(0.5 + (*h-*a)/(2*divisor))
}

func starterPitchingFactor(home, away *models.TeamStatSnapshot) float64 {
	if home == nil || away == nil {
		return 0.5
	}
	return pitchingComparisonFactor(home.StarterERA, home.StarterWHIP, away.StarterERA, away.StarterWHIP)
}

func teamPitchingFactor(home, away *models.TeamStatSnapshot) float64 {
	if home == nil || away == nil {
		return 0.5
	}
	return pitchingComparisonFactor(home.TeamERA, home.TeamWHIP, away.TeamERA, away.TeamWHIP)
}

// pitchingComparisonFactor compares ERA and WHIP pairs; lower numbers are
// better, so the away-minus-home direction favors the home side.
func pitchingComparisonFactor(homeERA, homeWHIP, awayERA, awayWHIP *float64) float64 {
	var parts []float64
	if homeERA != nil && awayERA != nil {
		parts = append(parts, (*awayERA-*homeERA)/2.0)
	}
	if homeWHIP != nil && awayWHIP != nil {
		parts = append(parts, (*awayWHIP-*homeWHIP)/0.2)
	}
	if len(parts) == 0 {
		return 0.5
	}
	var sum float64
	for _, p := range parts {
		sum += p
	}
	norm := sum / float64(len(parts))
	return clamp01(0.5 + norm/2)
}

func batterHandednessFactor(home, away *models.TeamStatSnapshot) float64 {
	if home == nil || away == nil {
		return 0.5
	}
	hOPS := opsVsHand(home, away.StarterThrows)
	aOPS := opsVsHand(away, home.StarterThrows)
	if hOPS == nil || aOPS == nil {
		return 0.5
	}
	return clamp01(0.5 + (*hOPS-*aOPS)/(2*0.100))
}

// opsVsHand picks the batting side's OPS split against the given
// opposing starter hand, defaulting to the vs-right split.
func opsVsHand(batting *models.TeamStatSnapshot, throws *string) *float64 {
	if throws != nil && *throws == "L" {
		return batting.OPSVsLeft
	}
	return batting.OPSVsRight
}

func ballparkFactor(homeTeamName string) float64 {
	idx, ok := mlbParkFactors[homeTeamName]
	if !ok {
		return 0.5
	}
	return clamp01((idx - 0.8) / 0.4)
}

func battingStrengthFactor(home, away *models.TeamStatSnapshot) float64 {
	if home == nil || away == nil || len(home.KeyBatters) == 0 || len(away.KeyBatters) == 0 {
		return 0.5
	}
	diff := batterScore(home.KeyBatters) - batterScore(away.KeyBatters)
	return clamp01((diff + 1) / 2)
}

func batterScore(batters []models.BatterLine) float64 {
	var sum float64
	for _, b := range batters {
		sum += b.OPS*0.6 + b.WRCPlus/150*0.4
	}
	return sum / float64(len(batters))
}

func pitchingStrengthFactor(home, away *models.TeamStatSnapshot) float64 {
	if home == nil || away == nil || len(home.KeyPitchers) == 0 || len(away.KeyPitchers) == 0 {
		return 0.5
	}
	h := pitcherScore(home.KeyPitchers)
	a := pitcherScore(away.KeyPitchers)
	return clamp01((h - a + 2) / 4)
}

func pitcherScore(pitchers []models.PitcherLine) float64 {
	var sum float64
	for _, p := range pitchers {
		sum += (4.5-p.ERA)*0.4 + (1.3-p.WHIP)*0.3 + (4.5-p.FIP)*0.3
	}
	return sum / float64(len(pitchers))
}

// keyPlayerImpactFactor compares the combined WAR of each side's top
// three players across batters and pitchers.
func keyPlayerImpactFactor(home, away *models.TeamStatSnapshot) float64 {
	if home == nil || away == nil {
		return 0.5
	}
	h := topWAR(home, 3)
	a := topWAR(away, 3)
	if h == nil || a == nil {
		return 0.5
	}
	return clamp01((*h - *a + 15) / 30)
}

func topWAR(s *models.TeamStatSnapshot, n int) *float64 {
	var wars []float64
	for _, b := range s.KeyBatters {
		wars = append(wars, b.WAR)
	}
	for _, p := range s.KeyPitchers {
		wars = append(wars, p.WAR)
	}
	if len(wars) == 0 {
		return nil
	}
	// selection of the n largest; rosters here are tiny
	for i := 0; i < len(wars); i++ {
		for j := i + 1; j < len(wars); j++ {
			if wars[j] > wars[i] {
				wars[i], wars[j] = wars[j], wars[i]
			}
		}
	}
	if len(wars) > n {
		wars = wars[:n]
	}
	var sum float64
	for _, w := range wars {
		sum += w
	}
	return &sum
}

// paceFactor maps the two teams' average possession pace against the
// league-typical 100 possessions; faster games lean toward overs.
func paceFactor(home, away *models.TeamStatSnapshot) float64 {
	if home == nil || away == nil || home.Pace == nil || away.Pace == nil {
		return 0.5
	}
	avg := (*home.Pace + *away.Pace) / 2
	return clamp01(0.5 + (avg-100)/(2*5))
}

func efficiencyFactor(home, away *models.TeamStatSnapshot) float64 {
	if home == nil || away == nil {
		return 0.5
	}
	h := home.NetRating()
	a := away.NetRating()
	if h == nil || a == nil {
		return 0.5
	}
	return clamp01(0.5 + (*h-*a)/(2*10))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
