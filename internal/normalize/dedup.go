package normalize

import "github.com/scholartriage/pipeline/internal/leadmodel"

// Dedup walks leads, computing an entity key and content hash per lead.
// A content hash already bound to a different entity key is a second-level
// duplicate and is dropped outright; otherwise the higher-quality lead wins
// the entity key and the other is dropped.
func Dedup(leads []leadmodel.Lead) []leadmodel.Lead {
	winners := make(map[string]leadmodel.Lead, len(leads))
	winnerOrder := make([]string, 0, len(leads))
	contentHashToEntityKey := make(map[string]string, len(leads))

	for _, lead := range leads {
		entityKey := EntityKey(lead)
		contentHash := ContentHash(lead)

		if boundKey, seen := contentHashToEntityKey[contentHash]; seen && boundKey != entityKey {
			continue
		}
		contentHashToEntityKey[contentHash] = entityKey

		incumbent, exists := winners[entityKey]
		if !exists {
			winners[entityKey] = lead
			winnerOrder = append(winnerOrder, entityKey)
			continue
		}
		if betterLead(lead, incumbent) {
			winners[entityKey] = lead
		}
	}

	deduped := make([]leadmodel.Lead, 0, len(winnerOrder))
	for _, key := range winnerOrder {
		deduped = append(deduped, winners[key])
	}
	return deduped
}
