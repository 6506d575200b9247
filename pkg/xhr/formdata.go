package xhr

import (
	"bytes"
	"mime/multipart"
)

type formField struct {
	name  string
	value string
}

// FormData is an ordered multipart form body. Sending it never injects a
// default Content-Type.
type FormData struct {
	fields []formField
}

func NewFormData() *FormData {
	return &FormData{}
}

func (f *FormData) Append(name string, value string) {
	f.fields = append(f.fields, formField{name: name, value: value})
}

// Get returns the first value stored under name.
func (f *FormData) Get(name string) (string, bool) {
	for _, field := range f.fields {
		if field.name == name {
			return field.value, true
		}
	}
	return "", false
}

func (f *FormData) Len() int {
	return len(f.fields)
}

// Encode writes the fields as multipart/form-data and returns the body with
// its Content-Type, boundary included.
func (f *FormData) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, field := range f.fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func (f *FormData) String() string {
	return "[object FormData]"
}

func isFormData(body any) bool {
	switch body.(type) {
	case *FormData, FormData:
		return true
	}
	return false
}
