package storerrors

import "errors"

var (
	ErrSessionNotFound   = errors.New("invalid session")
	ErrSessionExpired    = errors.New("session expired")
	ErrWrongCode         = errors.New("wrong code")
	ErrAttemptsExhausted = errors.New("attempts exhausted")
	ErrBookNoExist       = errors.New("book does not exists")
	ErrEmptyBooksList    = errors.New("empty books list")
)
