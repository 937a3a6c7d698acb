package hxdash

// SwapMode is an hx-swap value.
type SwapMode string

const (
	// SwapOuter replaces the target element. Every action uses it unless
	// told otherwise.
	SwapOuter SwapMode = "outerHTML"

	// SwapNone keeps the page as is, for actions that only record state
	// such as a form field change.
	SwapNone SwapMode = "none"
)
