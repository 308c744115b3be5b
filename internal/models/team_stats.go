package models

// BatterLine holds per-player batting aggregates used for roster-strength factors
type BatterLine struct {
	Name    string  `json:"name"`
	OPS     float64 `json:"ops"`
	WRCPlus float64 `json:"wrc_plus"`
	WAR     float64 `json:"war"`
}

// PitcherLine holds per-player pitching aggregates used for roster-strength factors
type PitcherLine struct {
	Name string  `json:"name"`
	ERA  float64 `json:"era"`
	WHIP float64 `json:"whip"`
	FIP  float64 `json:"fip"`
	WAR  float64 `json:"war"`
}

// TeamStatSnapshot is a point-in-time aggregate of one team's statistics.
// Optional fields are pointers; absence feeds a neutral factor downstream.
type TeamStatSnapshot struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`

	HomeWins    *int `json:"home_wins,omitempty"`
	HomeLosses  *int `json:"home_losses,omitempty"`
	AwayWins    *int `json:"away_wins,omitempty"`
	AwayLosses  *int `json:"away_losses,omitempty"`
	LastTenWins *int `json:"last_ten_wins,omitempty"`

	AvgScored  *float64 `json:"avg_scored,omitempty"`
	AvgAllowed *float64 `json:"avg_allowed,omitempty"`

	// Baseball
	TeamERA     *float64      `json:"team_era,omitempty"`
	TeamWHIP    *float64      `json:"team_whip,omitempty"`
	StarterERA    *float64    `json:"starter_era,omitempty"`
	StarterWHIP   *float64    `json:"starter_whip,omitempty"`
	StarterThrows *string     `json:"starter_throws,omitempty"`
	OPSVsLeft   *float64      `json:"ops_vs_left,omitempty"`
	OPSVsRight  *float64      `json:"ops_vs_right,omitempty"`
	KeyBatters  []BatterLine  `json:"key_batters,omitempty"`
	KeyPitchers []PitcherLine `json:"key_pitchers,omitempty"`

	// Basketball
	Pace            *float64 `json:"pace,omitempty"`
	OffensiveRating *float64 `json:"offensive_rating,omitempty"`
	DefensiveRating *float64 `json:"defensive_rating,omitempty"`
}

// WinPct returns the overall win percentage, 0.5 when no games played
func (s *TeamStatSnapshot) WinPct() float64 {
	games := s.Wins + s.Losses
	if games == 0 {
		return 0.5
	}
	return float64(s.Wins) / float64(games)
}

// HomeWinPct returns the win percentage in home games, or nil when splits are absent
func (s *TeamStatSnapshot) HomeWinPct() *float64 {
	if s.HomeWins == nil || s.HomeLosses == nil {
		return nil
	}
	games := *s.HomeWins + *s.HomeLosses
	if games == 0 {
		return nil
	}
	pct := float64(*s.HomeWins) / float64(games)
	return &pct
}

// AwayWinPct returns the win percentage in away games, or nil when splits are absent
func (s *TeamStatSnapshot) AwayWinPct() *float64 {
	if s.AwayWins == nil || s.AwayLosses == nil {
		return nil
	}
	games := *s.AwayWins + *s.AwayLosses
	if games == 0 {
		return nil
	}
	pct := float64(*s.AwayWins) / float64(games)
	return &pct
}

// NetScoring returns average margin (scored minus allowed), or nil when absent
func (s *TeamStatSnapshot) NetScoring() *float64 {
	if s.AvgScored == nil || s.AvgAllowed == nil {
		return nil
	}
	net := *s.AvgScored - *s.AvgAllowed
	return &net
}

// NetRating returns offensive minus defensive rating, or nil when absent
func (s *TeamStatSnapshot) NetRating() *float64 {
	if s.OffensiveRating == nil || s.DefensiveRating == nil {
		return nil
	}
	net := *s.OffensiveRating - *s.DefensiveRating
	return &net
}

// HeadToHeadSnapshot aggregates prior meetings between two teams,
// always oriented so HomeWins counts wins by the current event's home side.
type HeadToHeadSnapshot struct {
	TotalGames   int      `json:"total_games"`
	HomeWins     int      `json:"home_wins"`
	AwayWins     int      `json:"away_wins"`
	AvgScoreDiff *float64 `json:"avg_score_diff,omitempty"`
	LastResult   string   `json:"last_result,omitempty"`
}

// HomeWinFraction returns the home side's share of prior meetings, 0.5 when none
func (h *HeadToHeadSnapshot) HomeWinFraction() float64 {
	if h == nil || h.TotalGames == 0 {
		return 0.5
	}
	return float64(h.HomeWins) / float64(h.TotalGames)
}
