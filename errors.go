package plugdj

import (
	"errors"

	"github.com/hilthontt/plugdj/internal/apierror"
)

// Error is returned for every non-2xx REST response.
type Error = apierror.Error

var (
	ErrInvalidLogin       = errors.New("plugdj: invalid login")
	ErrMissingToken       = errors.New("plugdj: socket token not found in page")
	ErrStatusNotOK        = errors.New("plugdj: response status is not ok")
	ErrEmptyResponse      = errors.New("plugdj: response carried no data")
	ErrMissingIDParameter = errors.New("plugdj: missing required id parameter")
	ErrMissingSlug        = errors.New("plugdj: missing required room slug")
	ErrNoTrack            = errors.New("plugdj: nothing is playing")
	ErrNoRoom             = errors.New("plugdj: session has not joined a room")
	ErrNotConnected       = errors.New("plugdj: socket is not connected")
	ErrSocketClosed       = errors.New("plugdj: socket is closed")
	ErrAuthRejected       = errors.New("plugdj: socket auth rejected")
	ErrRateLimited        = errors.New("plugdj: chat rate limit exceeded")
)
