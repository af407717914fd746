package ecs

// UpdateFrame is handed to every system for one scheduler tick.
type UpdateFrame struct {
	// DeltaTime is the elapsed time since the previous tick, in seconds.
	DeltaTime float64
	// Number counts ticks from zero; startup systems see the same number as
	// the first frame systems.
	Number   uint64
	Commands *Commands
	Storage  *Storage
}

func newUpdateFrame(dt float64, number uint64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Number:    number,
		Commands:  newCommands(),
		Storage:   storage,
	}
}
