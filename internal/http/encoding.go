package http

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/rossum/internal/constants"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// FilePart is one part of a multipart upload. A part without Filename is sent
// as a plain form field.
type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

// EncodeQuery converts query values to their wire form. Booleans become
// "true"/"false" and slices repeat the key.
func EncodeQuery(query rossum.Query) url.Values {
	values := url.Values{}

	for key, value := range query {
		switch typed := value.(type) {
		case nil:
			continue
		case []string:
			values[key] = append(values[key], typed...)
		case []int:
			for _, item := range typed {
				values.Add(key, strconv.Itoa(item))
			}
		case []bool:
			for _, item := range typed {
				values.Add(key, encodeScalar(item))
			}
		case []interface{}:
			for _, item := range typed {
				values.Add(key, encodeScalar(item))
			}
		default:
			values.Add(key, encodeScalar(typed))
		}
	}

	return values
}

func encodeScalar(value interface{}) string {
	switch typed := value.(type) {
	case bool:
		if typed {
			return constants.BooleanTrue
		}

		return constants.BooleanFalse
	case string:
		return typed
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}

func encodeMultipart(parts []FilePart) (interface{}, string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	for _, part := range parts {
		if part.Filename == "" {
			content, err := io.ReadAll(part.Content)
			if err != nil {
				return nil, "", fmt.Errorf("reading field %s: %w", part.Field, err)
			}

			err = writer.WriteField(part.Field, string(content))
			if err != nil {
				return nil, "", fmt.Errorf("writing field %s: %w", part.Field, err)
			}

			continue
		}

		fileWriter, err := writer.CreateFormFile(part.Field, part.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("creating file part %s: %w", part.Field, err)
		}

		_, err = io.Copy(fileWriter, part.Content)
		if err != nil {
			return nil, "", fmt.Errorf("writing file part %s: %w", part.Field, err)
		}
	}

	err := writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}
