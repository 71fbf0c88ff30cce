package httpclient

import "errors"

var errBodyNotReplayable = errors.New("request body cannot be replayed")
