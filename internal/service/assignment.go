package service

import "github.com/motorhall/garage-api/internal/models"

// AssignmentPolicy chooses a mechanic from the free candidates for a
// slot. Candidates arrive in the workshop's affiliation order.
type AssignmentPolicy interface {
	Assign(candidates []models.Mechanic) (models.Mechanic, bool)
}

// FirstAvailablePolicy picks the first free mechanic in affiliation
// order. Deterministic given the same candidate list.
type FirstAvailablePolicy struct{}

// Assign implements AssignmentPolicy.
func (FirstAvailablePolicy) Assign(candidates []models.Mechanic) (models.Mechanic, bool) {
	if len(candidates) == 0 {
		return models.Mechanic{}, false
	}
	return candidates[0], true
}
