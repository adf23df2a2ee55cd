package models

import "time"

// AdCampaignStatus represents the state of an ad campaign
type AdCampaignStatus string

const (
	AdCampaignStatusDraft   AdCampaignStatus = "draft"
	AdCampaignStatusRunning AdCampaignStatus = "running"
	AdCampaignStatusPaused  AdCampaignStatus = "paused"
	AdCampaignStatusEnded   AdCampaignStatus = "ended"
)

// CanTransitionTo reports whether the campaign may move to next.
// Ended campaigns are terminal.
func (s AdCampaignStatus) CanTransitionTo(next AdCampaignStatus) bool {
	switch s {
	case AdCampaignStatusDraft:
		return next == AdCampaignStatusRunning || next == AdCampaignStatusEnded
	case AdCampaignStatusRunning:
		return next == AdCampaignStatusPaused || next == AdCampaignStatusEnded
	case AdCampaignStatusPaused:
		return next == AdCampaignStatusRunning || next == AdCampaignStatusEnded
	default:
		return false
	}
}

// AdCampaign promotes a pitch in the pitch browser
type AdCampaign struct {
	ID         int64            `db:"id" json:"id"`
	BusinessID int64            `db:"business_id" json:"business_id"`
	PitchID    int64            `db:"pitch_id" json:"pitch_id"`
	Name       string           `db:"name" json:"name"`
	Budget     int64            `db:"budget" json:"budget"`
	Status     AdCampaignStatus `db:"status" json:"status"`
	StartDate  time.Time        `db:"start_date" json:"start_date"`
	EndDate    time.Time        `db:"end_date" json:"end_date"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}
