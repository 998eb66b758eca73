package console

// Event is one operator interaction fed to Transition.
type Event interface {
	isEvent()
}

// Open starts (or restarts) a console session at the root menu.
type Open struct{}

// Select is a menu-interaction event carrying the opaque button payload.
type Select struct {
	Data string
}

// Input is a free-text message from the operator.
type Input struct {
	Text string
}

// Cancel unconditionally returns the session to the root menu, discarding
// any in-progress wizard data.
type Cancel struct{}

func (Open) isEvent()   {}
func (Select) isEvent() {}
func (Input) isEvent()  {}
func (Cancel) isEvent() {}
