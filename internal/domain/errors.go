package domain

import "errors"

var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrEmptyMessage    = errors.New("empty message")
	ErrRemoteRejected  = errors.New("remote endpoint rejected request")
	ErrRemoteStatus    = errors.New("remote endpoint returned non-success status")
	ErrStorageDriver   = errors.New("unsupported storage driver")
)
