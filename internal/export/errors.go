package export

import "errors"

var (
	// ErrUnknownFormat — запрошен незарегистрированный формат экспорта.
	ErrUnknownFormat = errors.New("unknown export format")
)
