package httperr_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zintix-labs/cyclelab/botapi"
	"github.com/zintix-labs/cyclelab/dto"
	"github.com/zintix-labs/cyclelab/errs"
	"github.com/zintix-labs/cyclelab/preset"
	"github.com/zintix-labs/cyclelab/server/httperr"
)

func TestStatusCode(t *testing.T) {
	var list errs.List
	list.Add(errs.Invalid(errs.NameRequired, "bot name is required", "name"))

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"canceled", context.Canceled, http.StatusRequestTimeout},
		{"backend", &botapi.Error{Status: 422, Message: "taken"}, http.StatusBadGateway},
		{"not found", errs.Wrap(preset.ErrNotFound, "load"), http.StatusNotFound},
		{"duplicate", preset.ErrDuplicateKey, http.StatusConflict},
		{"list", list, http.StatusBadRequest},
		{"warn", errs.NewWarn("bad input"), http.StatusBadRequest},
		{"fatal", errs.NewFatal("boom"), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := httperr.StatusCode(c.err); got != c.want {
			t.Errorf("%s: status = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestErrsHidesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	httperr.Errs(rec, errs.NewFatal("db password leaked"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body dto.ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Errors) != 1 || body.Errors[0].Message != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("body = %+v", body)
	}
}

func TestErrsListsValidation(t *testing.T) {
	var list errs.List
	list.Add(
		errs.Invalid(errs.NameRequired, "bot name is required", "name"),
		errs.Invalid(errs.BetRangeInvalid, "min bet must not exceed max bet", "min_bet_amount", "max_bet_amount"),
	)
	rec := httptest.NewRecorder()
	httperr.Errs(rec, list)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body dto.ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Errors) != 2 || body.Errors[1].Code != string(errs.BetRangeInvalid) || len(body.Errors[1].Fields) != 2 {
		t.Fatalf("body = %+v", body)
	}
}

func TestErrsNil(t *testing.T) {
	rec := httptest.NewRecorder()
	httperr.Errs(rec, nil)
	if rec.Body.Len() != 0 {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
