package request

import (
	"encoding/json"
	"errors"
)

// ErrEncodeBody wraps failures while serializing a body value.
var ErrEncodeBody = errors.New("failed to encode body")

// EncodeBody turns a body value into bytes. Strings and byte slices are
// used verbatim, nil yields an empty payload and anything else is encoded
// as JSON.
func EncodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	case Matcher:
		return nil, ErrUnresolvedMatcher
	}

	out, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Join(ErrEncodeBody, err)
	}
	return out, nil
}
