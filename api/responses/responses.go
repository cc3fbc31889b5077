package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/angelmondragon/speakeasy-backend/pkg/errors"
	"github.com/angelmondragon/speakeasy-backend/pkg/logger"
	"github.com/angelmondragon/speakeasy-backend/pkg/types"
)

// WriteSuccess writes {success:true, data} with status 200.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, "", data)
}

// WriteSuccessStatus writes {success:true, message?, data?} with the given status.
func WriteSuccessStatus(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Success: true, Message: message, Data: data})
}

// WriteBody writes an endpoint-specific body that already carries its own success flag.
func WriteBody(w http.ResponseWriter, status int, body any) {
	writeJSON(w, status, body)
}

// WriteError maps err onto the failure envelope. Untyped errors become internal
// errors; internal messages never reach the caller for codes that hide them.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if meta.ExposeMessage {
		if m := typed.Message(); m != "" {
			msg = m
		}
	} else if m := typed.PublicMessage(); m != "" {
		msg = m
	}

	payload := types.ErrorEnvelope{
		Success: false,
		Message: msg,
		Code:    string(typed.Code()),
	}

	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Errors = details
		}
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

// WriteNotFound writes the envelope for unmatched routes.
func WriteNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, types.ErrorEnvelope{
		Success: false,
		Message: "Route not found",
		Code:    string(pkgerrors.CodeNotFound),
	})
}

// WriteMethodNotAllowed writes the envelope for a known path with the wrong method.
func WriteMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, types.ErrorEnvelope{
		Success: false,
		Message: "Method not allowed",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
