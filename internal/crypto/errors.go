package crypto

import "errors"

var (
	ErrNonFiniteFloat  = errors.New("float values must be finite")
	ErrInvalidNumber   = errors.New("invalid json number")
	ErrNonStringMapKey = errors.New("map keys must be strings")
	ErrUnsupportedType = errors.New("unsupported type for canonicalization")
	ErrKeyCollision    = errors.New("normalized map key collision")
	ErrEmptySecret     = errors.New("hmac secret is empty")
)
