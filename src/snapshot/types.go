package snapshot

import "encoding/json"

// Space is one row of the verified-spaces directory.
type Space struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Strategy defines how voting power is calculated for a space.
type Strategy struct {
	Name   string          `json:"name"`
	Params json.RawMessage `json:"params"`
}

// Filters holds a space's voting rules.
type Filters struct {
	MinScore    float64 `json:"minScore"`
	OnlyMembers bool    `json:"onlyMembers"`
}

// SpaceDetail is the full governance metadata for one space. Fetched fresh per
// request; never persisted.
type SpaceDetail struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	About      string          `json:"about"`
	Avatar     string          `json:"avatar"`
	Network    string          `json:"network"`
	Symbol     string          `json:"symbol"`
	Strategies []Strategy      `json:"strategies"`
	Admins     []string        `json:"admins"`
	Moderators []string        `json:"moderators"`
	Members    []string        `json:"members"`
	Filters    Filters         `json:"filters"`
	Plugins    json.RawMessage `json:"plugins"`
}

// Proposal is a single governance vote item. Scores aligns positionally with
// Choices; the hub guarantees that, we do not re-verify it.
type Proposal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Choices     []string  `json:"choices"`
	Start       int64     `json:"start"`
	End         int64     `json:"end"`
	Snapshot    string    `json:"snapshot"`
	State       string    `json:"state"`
	Author      string    `json:"author"`
	Created     int64     `json:"created"`
	Scores      []float64 `json:"scores"`
	ScoresTotal float64   `json:"scores_total"`
}
