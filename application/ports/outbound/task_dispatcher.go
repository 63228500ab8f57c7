package outbound

// TaskDispatcher runs tasks in the background. *ants.Pool satisfies it.
type TaskDispatcher interface {
	Submit(task func()) error
}
