package ecs

// EntityId packs an archetype ID, a slot generation and a slot index.
//
//	bits 63..44  archetype ID
//	bits 43..32  generation of the slot
//	bits 31..0   slot index inside the archetype
//
// Slots are recycled after Delete; the generation changes on every recycle so
// an id held past its entity's deletion no longer resolves.
type EntityId uint64

const (
	indexBits      = 32
	generationBits = 12
	archetypeBits  = 20

	generationMask = 1<<generationBits - 1
	archetypeMask  = 1<<archetypeBits - 1
)

// NewEntityId creates an EntityId from an archetype ID, slot generation and
// slot index. Out-of-range archetype IDs and generations are truncated.
func NewEntityId(archetypeId uint32, generation uint16, index uint32) EntityId {
	return EntityId(uint64(archetypeId&archetypeMask)<<(indexBits+generationBits) |
		uint64(generation&generationMask)<<indexBits |
		uint64(index))
}

// ArchetypeId extracts the archetype ID from the entity ID
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> (indexBits + generationBits))
}

// Generation extracts the slot generation from the entity ID
func (e EntityId) Generation() uint16 {
	return uint16(e>>indexBits) & generationMask
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// EntityRef is a stable handle to an entity. It survives archetype moves
// (AddComponent) and is zeroed when the entity is deleted.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}

// Valid reports whether the referenced entity is still alive.
func (r *EntityRef) Valid() bool {
	return r != nil && r.Id != 0
}
