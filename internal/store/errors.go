package store

import "errors"

// Общие ошибки хранилища.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists — запись с таким ID уже существует.
	ErrAlreadyExists = errors.New("already exists")
)
