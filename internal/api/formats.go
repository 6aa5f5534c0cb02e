package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"

	"github.com/danielgtaylor/huma/v2"
)

const formContentType = "application/x-www-form-urlencoded"

// formFormat lets HTML forms post to the same operations as JSON clients.
// Every field decodes as a string; repeated keys keep their first value.
var formFormat = huma.Format{
	Marshal: func(io.Writer, any) error {
		return errors.New("form encoding is request-only")
	},
	Unmarshal: unmarshalForm,
}

func unmarshalForm(data []byte, v any) error {
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return err
	}

	fields := make(map[string]any, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			fields[k] = vs[0]
		}
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
