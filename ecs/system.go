package ecs

// System represents a behavior that operates on entities with specific components.
// Systems are structs that may declare Query and Singleton fields, which the
// Scheduler wires on Register, plus any state that persists between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}
