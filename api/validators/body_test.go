package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/speakeasy-backend/pkg/errors"
)

type sample struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Jane","size":4,"extra":true}`))
	var got sample
	if err := DecodeJSONBody(req, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Jane" || got.Size != 4 {
		t.Fatalf("unexpected value %+v", got)
	}
}

func TestDecodeJSONBodyEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	var got sample
	if err := DecodeJSONBody(req, &got); err != nil {
		t.Fatalf("empty body should decode to zero value: %v", err)
	}
}

func TestDecodeJSONBodyMalformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"size":"four"}`))
	var got sample
	err := DecodeJSONBody(req, &got)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
