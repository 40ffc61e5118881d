package types

// Params holds the transfer module's operator-controlled switches.
type Params struct {
	// SendEnabled gates outgoing transfers.
	SendEnabled bool `json:"send_enabled"`
	// ReceiveEnabled gates incoming transfers.
	ReceiveEnabled bool `json:"receive_enabled"`
}

// DefaultParams enables transfers in both directions.
func DefaultParams() Params {
	return Params{
		SendEnabled:    true,
		ReceiveEnabled: true,
	}
}

func NewParams(sendEnabled, receiveEnabled bool) Params {
	return Params{
		SendEnabled:    sendEnabled,
		ReceiveEnabled: receiveEnabled,
	}
}
