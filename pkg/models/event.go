package models

import "time"

// EventType names a moderation event published to subscribers.
type EventType string

const (
	EventWarning          EventType = "warning"
	EventWarningRemoved   EventType = "warning_removed"
	EventBan              EventType = "ban"
	EventUnban            EventType = "unban"
	EventKick             EventType = "kick"
	EventMute             EventType = "mute"
	EventUnmute           EventType = "unmute"
	EventFine             EventType = "fine"
	EventFinePaid         EventType = "fine_paid"
	EventInfraction       EventType = "infraction"
	EventInfractionRevoke EventType = "infraction_revoked"
	EventBulk             EventType = "bulk"
	EventRestart          EventType = "restart"
)

// ModerationEvent is the wire shape of a moderation action sent over MQTT
// and the live websocket feed.
type ModerationEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	CaseNumber int64     `json:"caseNumber,omitempty"`
	Target     string    `json:"target,omitempty"`
	TargetUUID string    `json:"targetUuid,omitempty"`
	DiscordID  string    `json:"discordId,omitempty"`
	StaffID    string    `json:"staffId,omitempty"`
	StaffName  string    `json:"staffName,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Duration   string    `json:"duration,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
