package server

import (
	"guardians/internal/domain"
	"guardians/internal/events"
)

// Request payloads. Enum fields are plain strings: the entity rules decide
// what is accepted and word the error.

type AssignmentRequest struct {
	GuildID string `json:"guildId,omitempty" doc:"Guild to join; empty leaves the guardian unassigned"`
	Role    string `json:"role,omitempty" doc:"leader, tester or scribe; empty keeps the current role"`
}

type BossStatusRequest struct {
	Status string `json:"status,omitempty" example:"in-progress"`
}

type ArsenalWeaponRequest struct {
	WeaponID string `json:"weaponId,omitempty" example:"w-1"`
}

type RunWeaponRequest struct {
	Target string `json:"target,omitempty" example:"staging"`
}

type ResolveBattleRequest struct {
	Outcome string `json:"outcome,omitempty" example:"victory"`
	Notes   string `json:"notes,omitempty"`
}

type PredictRequest struct {
	Prophecy string `json:"prophecy,omitempty" doc:"Explicit prophecy; empty draws an omen"`
}

type RelicURLRequest struct {
	URL string `json:"url,omitempty" doc:"Empty clears the url"`
}

type AllianceMemberRequest struct {
	GuildID string `json:"guildId,omitempty" example:"g-1"`
}

// Responses

type AssignmentResponse struct {
	Message  string          `json:"message" example:"Assigned"`
	Guardian domain.Guardian `json:"guardian"`
}

type TriggerResponse struct {
	Message  string          `json:"message" example:"Triggered"`
	Campaign domain.Campaign `json:"campaign"`
}

type HealthResponse struct {
	Status  string         `json:"status" example:"ok"`
	Records map[string]int `json:"records"`
}

type ChronicleResponse struct {
	Items []events.Event `json:"items"`
}
