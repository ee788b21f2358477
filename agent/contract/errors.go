package contract

import "errors"

var (
	ErrModelInvoke = errors.New("model invoke failed")
	ErrUnknownTool = errors.New("model requested unknown tool")
	ErrValidation  = errors.New("validation failed")
)
