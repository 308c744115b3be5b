package models

import (
	"time"

	"github.com/google/uuid"
)

// Sport identifies the league an event belongs to
type Sport string

const (
	SportBaseball   Sport = "MLB"
	SportBasketball Sport = "NBA"
)

// EventStatus represents the lifecycle state of an event
type EventStatus string

const (
	EventStatusScheduled  EventStatus = "SCHEDULED"
	EventStatusInProgress EventStatus = "IN_PROGRESS"
	EventStatusFinal      EventStatus = "FINAL"
	EventStatusPostponed  EventStatus = "POSTPONED"
	EventStatusCancelled  EventStatus = "CANCELLED"
)

// Event represents one scheduled contest between a home and away team
type Event struct {
	ID             uuid.UUID    `db:"id" json:"id" validate:"required,uuid4"`
	ExternalID     string       `db:"external_id" json:"external_id"`
	Sport          Sport        `db:"sport" json:"sport" validate:"required,oneof=MLB NBA"`
	HomeTeamID     string       `db:"home_team_id" json:"home_team_id" validate:"required"`
	AwayTeamID     string       `db:"away_team_id" json:"away_team_id" validate:"required"`
	HomeTeamName   string       `db:"home_team_name" json:"home_team_name" validate:"required"`
	AwayTeamName   string       `db:"away_team_name" json:"away_team_name" validate:"required"`
	ScheduledStart time.Time    `db:"scheduled_start" json:"scheduled_start" validate:"required"`
	Status         EventStatus  `db:"status" json:"status" validate:"required,oneof=SCHEDULED IN_PROGRESS FINAL POSTPONED CANCELLED"`
	HomeScore      *int         `db:"home_score" json:"home_score"`
	AwayScore      *int         `db:"away_score" json:"away_score"`
	Lines          *MarketLines `db:"lines" json:"lines"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

// IsUpcoming checks if the event hasn't started yet
func (e *Event) IsUpcoming() bool {
	return e.Status == EventStatusScheduled
}

// IsFinal checks if the event has completed with both scores recorded
func (e *Event) IsFinal() bool {
	return e.Status == EventStatusFinal && e.HomeScore != nil && e.AwayScore != nil
}

// FinalScore returns the final scores when the event is settled-ready
func (e *Event) FinalScore() (home, away int, ok bool) {
	if !e.IsFinal() {
		return 0, 0, false
	}
	return *e.HomeScore, *e.AwayScore, true
}

// TimeToStart returns the duration until the scheduled start
func (e *Event) TimeToStart() time.Duration {
	return time.Until(e.ScheduledStart)
}
