package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"rainpath-cases/internal/domain"
)

// maxBodyBytes request body limit for JSON endpoints.
const maxBodyBytes int64 = 1 << 20

var errBodyTooLarge = errors.New("request entity too large")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// readBodyJSON decodes one JSON value, rejecting unknown properties and trailing data.
// Decode failures come back as *domain.ValidationError; an oversized body as errBodyTooLarge.
func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return err
	}
	if int64(len(body)) > maxBytes {
		return errBodyTooLarge
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return domain.NewValidationError("request body is required")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return decodeProblem(err)
	}
	if dec.More() {
		return domain.NewValidationError("request body must contain a single JSON value")
	}
	return nil
}

func decodeProblem(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return domain.NewValidationError(fmt.Sprintf("malformed JSON at position %d", syntaxErr.Offset))
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return domain.NewValidationError(fmt.Sprintf("%s must be %s", field, jsonKind(typeErr.Type.Kind().String())))
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		name := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return domain.NewValidationError(fmt.Sprintf("property %s should not exist", name))
	case errors.Is(err, io.ErrUnexpectedEOF):
		return domain.NewValidationError("malformed JSON: unexpected end of input")
	}
	return domain.NewValidationError(err.Error())
}

func jsonKind(goKind string) string {
	switch goKind {
	case "slice", "array":
		return "an array"
	case "struct", "map":
		return "an object"
	case "int", "int64", "int32", "float64":
		return "a number"
	case "bool":
		return "a boolean"
	case "string":
		return "a string"
	}
	return "a " + goKind
}

// parseID base-10 integer path segment with an optional leading "-". Zero and negative ids
// parse; the lookup answers 404 for them like for any other id without a case.
func parseID(s string) (int64, bool) {
	if strings.HasPrefix(s, "+") {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
