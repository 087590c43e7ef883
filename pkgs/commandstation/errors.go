package commandstation

import "errors"

// Sentinel errors, one per error kind the protocol layer can raise. Call
// sites wrap these with fmt.Errorf("%w: ...") so errors.Is keeps working
// while the message stays specific to the failing call.
var (
	ErrAddressResolution = errors.New("z21: address resolution failed")
	ErrSocketOpen        = errors.New("z21: socket open failed")
	ErrSendFailed        = errors.New("z21: send failed")
	ErrDecode            = errors.New("z21: decode failed")
	ErrChecksum          = errors.New("z21: LAN_X checksum mismatch")
	ErrNotConnected      = errors.New("z21: not connected")
	ErrTimeout           = errors.New("z21: timed out waiting for response")
	ErrVerifyMismatch    = errors.New("z21: CV verify mismatch after write")
)
