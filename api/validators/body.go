package validators

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	pkgerrors "github.com/angelmondragon/speakeasy-backend/pkg/errors"
)

const maxBodyBytes = 1 << 20

// DecodeJSONBody decodes the request body into dest. An empty body leaves dest
// at its zero value so the service can report every missing field.
func DecodeJSONBody(r *http.Request, dest any) error {
	if r.Body == nil {
		return nil
	}
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid JSON body").WithDetails(map[string]any{"error": err.Error()})
	}
	return nil
}
