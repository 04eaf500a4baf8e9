package google

import (
	"errors"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"google.golang.org/api/googleapi"
)

func transportError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &types.TransportError{Op: op, StatusCode: gerr.Code, Err: err}
	}
	return &types.TransportError{Op: op, Err: err}
}
