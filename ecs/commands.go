package ecs

// Commands buffers structural changes made by systems. The Scheduler flushes
// the buffer once every system of the phase has run, so queries never observe
// archetypes changing under them mid-frame.
type Commands struct {
	spawns     []spawnCommand
	deletes    []EntityId
	adds       []addComponentCommand
	singletons []any
	defers     []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
	onSpawn    func(EntityId)
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

// Defer queues a function to run after all other buffered commands.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// SpawnThen queues a spawn and calls fn with the new id once it exists.
func (c *Commands) SpawnThen(fn func(EntityId), components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components, onSpawn: fn})
}

// SpawnBatch queues one spawn per bundle.
func (c *Commands) SpawnBatch(bundles ...[]any) {
	for _, bundle := range bundles {
		c.Spawn(bundle...)
	}
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// InsertSingleton queues a resource insertion (or overwrite).
func (c *Commands) InsertSingleton(value any) {
	c.singletons = append(c.singletons, value)
}

// Pending reports how many operations are buffered.
func (c *Commands) Pending() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.singletons) + len(c.defers)
}

// Flush applies buffered commands in order: singletons, deletes, component
// additions, spawns, then deferred functions. Spawn callbacks run as part of
// the spawn step, so a callback may queue follow-up commands which are applied
// by the same flush.
//
// AddComponent moves an entity to a new archetype and changes its id. Later
// commands in the same flush that still carry the old id follow the move.
func (c *Commands) Flush(storage *Storage) {
	moved := make(map[EntityId]EntityId)
	resolve := func(id EntityId) EntityId {
		for {
			next, ok := moved[id]
			if !ok {
				return id
			}
			id = next
		}
	}

	for c.Pending() > 0 {
		singletons, deletes, adds, spawns, defers := c.singletons, c.deletes, c.adds, c.spawns, c.defers
		c.singletons, c.deletes, c.adds, c.spawns, c.defers = nil, nil, nil, nil, nil

		for _, value := range singletons {
			storage.AddSingleton(value)
		}

		deleted := make(map[EntityId]bool, len(deletes))
		for _, id := range deletes {
			id = resolve(id)
			storage.Delete(id)
			deleted[id] = true
		}

		for _, cmd := range adds {
			id := resolve(cmd.entity)
			if deleted[id] {
				continue
			}
			if newId := storage.AddComponent(id, cmd.component); newId != 0 && newId != id {
				moved[id] = newId
			}
		}

		for _, cmd := range spawns {
			id := storage.Spawn(cmd.components...)
			if cmd.onSpawn != nil {
				cmd.onSpawn(id)
			}
		}

		for _, fn := range defers {
			fn()
		}
	}
}
