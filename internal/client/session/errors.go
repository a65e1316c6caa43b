package session

import "errors"

var (
	ErrClosed          = errors.New("session store closed")
	ErrEmptyCredential = errors.New("empty credential")
)
