package protocol

import "errors"

var (
	// ErrFieldOverflow is returned by Encode when a header field value
	// cannot be represented as a single decimal digit.
	ErrFieldOverflow = errors.New("header field does not fit one decimal digit")

	// ErrShortDatagram is returned by Decode when the buffer ends
	// before the fixed header and timestamp begin.
	ErrShortDatagram = errors.New("datagram shorter than the fixed header")

	// ErrBadDigit is returned by Decode when a header position holds a
	// non-digit byte.
	ErrBadDigit = errors.New("non-digit byte in header field")
)
