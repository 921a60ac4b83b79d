package repository

import "errors"

// ErrNotFound возвращается, когда сущность отсутствует в хранилище.
var ErrNotFound = errors.New("not found")
