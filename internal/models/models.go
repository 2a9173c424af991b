// Package models holds the JSON shapes of the world API.
package models

// WorldSummary describes a generated world without shipping its cells.
type WorldSummary struct {
	Seed     uint64             `json:"seed"`
	Width    uint32             `json:"width"`
	Height   uint32             `json:"height"`
	Kinds    map[string]float64 `json:"kind_percentages"`
	Contents map[string]float64 `json:"content_percentages"`
}

// GenerateRequest asks the server to generate (or return the cached) world
// for a seed.
type GenerateRequest struct {
	Seed uint64 `json:"seed"`
}

// GenerateResponse reports where the generated world can be fetched.
type GenerateResponse struct {
	Seed     uint64 `json:"seed"`
	WorldURL string `json:"world_url"`
	StatsURL string `json:"stats_url"`
}
