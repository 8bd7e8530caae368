package ports

// DummyClient defines the client port for calling a deployed dummies
// function. Implemented by the remote function client adapter; its methods
// mirror DummyController so either can back the same caller.
type DummyClient interface {
	DummyController
}
