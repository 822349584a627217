package api

import (
	"errors"

	service "github.com/gilberto978/bishbash-api/internal/app"
)

// ErrBadRequest marks requests a handler could not decode.
var ErrBadRequest = errors.New("bad request")

// badRequest wraps a decode failure. message is what the client sees.
func badRequest(op, message string, err error) *service.Error {
	return &service.Error{Op: op, Kind: ErrBadRequest, Message: message, Err: err}
}
