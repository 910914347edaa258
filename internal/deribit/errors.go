package deribit

import "errors"

var (
	ErrRateLimited = errors.New("rate limited by Deribit")
	ErrBadStatus   = errors.New("unexpected status from Deribit")
)
