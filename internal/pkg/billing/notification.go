package billing

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"
)

// Recognized notification keys.
const (
	FieldPID         = "pid"
	FieldName        = "name"
	FieldMoney       = "money"
	FieldOrderRef    = "out_trade_no"
	FieldProviderRef = "trade_no"
	FieldParam       = "param"
	FieldTradeStatus = "trade_status"
	FieldType        = "type"
)

const (
	ContentTypeForm      = "application/x-www-form-urlencoded"
	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"
)

// TradeStatusSuccess is the provider's only success sentinel.
const TradeStatusSuccess = "TRADE_SUCCESS"

const maxMultipartFieldBytes = 64 << 10

var recognizedFields = map[string]struct{}{
	FieldPID:         {},
	FieldName:        {},
	FieldMoney:       {},
	FieldOrderRef:    {},
	FieldProviderRef: {},
	FieldParam:       {},
	FieldTradeStatus: {},
	FieldType:        {},
	SignField:        {},
	SignTypeField:    {},
}

// Fields is a canonical notification or request parameter map. An empty
// value is equivalent to an absent key.
type Fields map[string]string

// Get returns the trimmed value for key.
func (f Fields) Get(key string) string {
	return strings.TrimSpace(f[key])
}

func (f Fields) setFirst(key, value string) {
	if _, ok := recognizedFields[key]; !ok || value == "" {
		return
	}
	if _, exists := f[key]; exists {
		return
	}
	f[key] = value
}

// NormalizeNotification decodes a notification body according to its
// declared content type. Unknown encodings and malformed bodies produce an
// empty map, which the reconciler rejects as a bad request.
func NormalizeNotification(contentType string, body []byte) Fields {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return Fields{}
	}

	var out Fields
	switch mediaType {
	case ContentTypeForm:
		out, err = normalizeForm(string(body))
	case ContentTypeJSON:
		out, err = normalizeJSON(body)
	case ContentTypeMultipart:
		out, err = normalizeMultipart(body, params["boundary"])
	default:
		return Fields{}
	}
	if err != nil {
		return Fields{}
	}
	return out
}

// NormalizeQuery decodes the raw query string of a browser return request.
func NormalizeQuery(rawQuery string) Fields {
	out, err := normalizeForm(rawQuery)
	if err != nil {
		return Fields{}
	}
	return out
}

func normalizeForm(raw string) (Fields, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, err
	}
	out := Fields{}
	for key := range recognizedFields {
		out.setFirst(key, values.Get(key))
	}
	return out, nil
}

func normalizeJSON(body []byte) (Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("notification body is not a JSON object")
	}

	out := Fields{}
	for key, v := range raw {
		switch val := v.(type) {
		case string:
			out.setFirst(key, val)
		case json.Number:
			out.setFirst(key, val.String())
		case bool:
			if val {
				out.setFirst(key, "true")
			} else {
				out.setFirst(key, "false")
			}
		}
	}
	return out, nil
}

func normalizeMultipart(body []byte, boundary string) (Fields, error) {
	if boundary == "" {
		return nil, errors.New("multipart boundary missing")
	}
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	out := Fields{}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		name := part.FormName()
		if part.FileName() != "" || name == "" {
			_ = part.Close()
			continue
		}
		value, err := io.ReadAll(io.LimitReader(part, maxMultipartFieldBytes))
		_ = part.Close()
		if err != nil {
			return nil, err
		}
		out.setFirst(name, string(value))
	}
}
