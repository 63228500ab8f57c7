package mock_generator

import "ad-agent-api/domain"

// MockScene is a canned scene plus how long to wait before streaming it.
type MockScene struct {
	domain.ScriptScene
	DelayMs int `json:"delayMs"`
}
