package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
)

// Health checks that the service is up.
func (c *Client) Health(ctx context.Context) error {
	var result HealthResponse
	if err := c.Do(ctx, http.MethodGet, PathHealth, nil, &result); err != nil {
		return err
	}
	if result.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", result.Status)
	}
	return nil
}

// Derive asks the service to derive a master key.
func (c *Client) Derive(ctx context.Context, req DeriveRequest) (*DeriveResponse, error) {
	var result DeriveResponse
	if err := c.Do(ctx, http.MethodPost, PathDerive, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Encrypt seals a message and returns the zip archive holding the stego
// image and the hex secret key.
func (c *Client) Encrypt(ctx context.Context, req EncryptRequest) ([]byte, error) {
	form := newForm()
	form.field(FieldTranscript, req.Transcript)
	form.field(FieldMessage, req.Message)
	if len(req.Cover) > 0 {
		form.file(FieldCover, "cover.png", req.Cover)
	}
	body, contentType, err := form.close()
	if err != nil {
		return nil, err
	}
	return c.send(ctx, http.MethodPost, PathEncrypt, contentType, body)
}

// Decrypt opens a sealed message.
func (c *Client) Decrypt(ctx context.Context, req DecryptRequest) (*DecryptResponse, error) {
	name := req.Filename
	if name == "" {
		name = ArchiveImage
	}

	form := newForm()
	form.file(FieldFile, path.Base(name), req.File)
	form.field(FieldPrivateKey, strings.TrimSpace(req.PrivateKey))
	form.field(FieldTranscript, req.Transcript)
	body, contentType, err := form.close()
	if err != nil {
		return nil, err
	}

	data, err := c.send(ctx, http.MethodPost, PathDecrypt, contentType, body)
	if err != nil {
		return nil, err
	}

	var result DecryptResponse
	if err := decodeJSON(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// form builds a multipart body, remembering the first write error.
type form struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newForm() *form {
	f := &form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *form) field(name, value string) {
	if f.err == nil {
		f.err = f.w.WriteField(name, value)
	}
}

func (f *form) file(field, filename string, data []byte) {
	if f.err != nil {
		return
	}
	part, err := f.w.CreateFormFile(field, filename)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = part.Write(data)
}

func (f *form) close() ([]byte, string, error) {
	if f.err != nil {
		return nil, "", fmt.Errorf("failed to build form: %w", f.err)
	}
	if err := f.w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to build form: %w", err)
	}
	return f.buf.Bytes(), f.w.FormDataContentType(), nil
}
