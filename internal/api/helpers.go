package api

import (
	"encoding/json/v2"
	"net/http"

	domainerrors "github.com/applytrackapp/applytrack-server/internal/errors"
)

// maxJSONBodySize caps JSON request bodies. File uploads go through
// multipart and have their own limit.
const maxJSONBodySize = 1 << 20 // 1 MiB

// decodeJSON reads a JSON request body into dst using json/v2.
// Oversized or malformed bodies become validation errors.
func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxJSONBodySize)
	defer body.Close()

	if err := json.UnmarshalRead(body, dst); err != nil {
		return domainerrors.Validation("invalid JSON request body").WithCause(err)
	}
	return nil
}
