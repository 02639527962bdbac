package libapp

// these functions are only exported when running tests

var NewInputManagerFrom = newInputManager

func (i *inputManager) AddScroll(x, y float32) {
	i.addScroll(x, y)
}
