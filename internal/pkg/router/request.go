package router

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/growguard/internal/pkg/goerror"
)

// Request wraps http.Request with decoding helpers.
type Request struct {
	*http.Request
}

// File is a streamed multipart upload.
type File struct {
	io.ReadCloser
	Filename    string
	ContentType string
}

func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// GetQueryInt returns def when key is absent.
func (r *Request) GetQueryInt(key string, def int) (int, error) {
	v := r.GetQuery(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, goerror.NewInvalidFormat("Invalid query " + key)
	}
	return n, nil
}

// DecodeBody decodes a single JSON document into dst, rejecting unknown fields.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}

// StreamSingleFile returns the first multipart part named name, reading at
// most maxBytes of the request body. The caller must close the file.
func (r *Request) StreamSingleFile(name string, maxBytes int64) (*File, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, goerror.NewInvalidFormat("Invalid request content-type")
	}

	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, goerror.NewInvalidInput(nil, name, "No "+name+" uploaded")
		}
		if err != nil {
			return nil, goerror.NewInvalidFormat()
		}

		if part.FormName() == name {
			return newFile(part), nil
		}

		if _, err := io.Copy(io.Discard, part); err != nil {
			_ = part.Close()
			return nil, goerror.NewInvalidFormat(err.Error())
		}
		_ = part.Close()
	}
}

func newFile(part *multipart.Part) *File {
	return &File{
		ReadCloser:  part,
		Filename:    part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
	}
}
