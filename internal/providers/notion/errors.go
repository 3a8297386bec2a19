package notion

import "errors"

var errInvalidJSON = errors.New("search response is not valid JSON")
