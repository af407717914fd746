package ecs

import "sort"

// StorageStats is a point-in-time summary of a Storage.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes one archetype in a StorageStats snapshot.
type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

// CollectStats walks every archetype and singleton. Breakdown entries are
// ordered by descending entity count.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		ArchetypeCount:     len(s.archetypes),
		SingletonCount:     len(s.singletons),
		ArchetypeBreakdown: make([]ArchetypeStats, 0, len(s.archetypes)),
		SingletonTypes:     make([]string, 0, len(s.singletons)),
	}

	for id, archetype := range s.archetypes {
		names := make([]string, len(archetype.types))
		for i, typ := range archetype.types {
			names[i] = typ.String()
		}
		count := archetype.Len()
		stats.TotalEntityCount += count
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             id,
			ComponentTypes: names,
			EntityCount:    count,
		})
	}

	for typ := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, typ.String())
	}

	sort.Slice(stats.ArchetypeBreakdown, func(i, j int) bool {
		a, b := stats.ArchetypeBreakdown[i], stats.ArchetypeBreakdown[j]
		if a.EntityCount != b.EntityCount {
			return a.EntityCount > b.EntityCount
		}
		return a.ID < b.ID
	})
	sort.Strings(stats.SingletonTypes)
	return stats
}
