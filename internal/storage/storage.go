// Package storage uploads attachments to object storage through the CMS
// signed-URL flow.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/estatedesk/internal/cms"
)

// MaxConcurrentUploads bounds parallel slot uploads.
const MaxConcurrentUploads = 4

// File is one attachment to upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// LoadFile reads a picture from disk. The content type comes from the
// extension.
func LoadFile(name string) (File, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return File{}, err
	}
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return File{Name: filepath.Base(name), ContentType: ct, Data: data}, nil
}

// SignedURL is the answer of GET /aws/signed-url.
type SignedURL struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// PublicURL is the signed URL without its signature query.
func (s SignedURL) PublicURL() string {
	u, err := url.Parse(s.URL)
	if err != nil {
		return s.URL
	}
	u.RawQuery = ""
	return u.String()
}

// Slot is one picture position. A slot holds either an already stored
// picture, a new file, or nothing.
type Slot struct {
	Existing string
	File     *File
}

// Uploader runs the signed-URL flow.
type Uploader struct {
	client *cms.Client
	http   *http.Client
	logger *slog.Logger
}

// NewUploader returns an uploader that asks client for signed URLs. A nil
// logger discards slot failure logs.
func NewUploader(client *cms.Client, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Uploader{client: client, http: &http.Client{}, logger: logger}
}

type signedURLResponse struct {
	Msg SignedURL `json:"msg"`
}

// Sign requests an upload URL for fileName.
func (u *Uploader) Sign(ctx context.Context, fileName, contentType string) (SignedURL, error) {
	var resp signedURLResponse
	err := u.client.Do(ctx, cms.Request{
		Method: http.MethodGet,
		Path:   "/aws/signed-url",
		Query:  url.Values{"fileName": {fileName}, "contentType": {contentType}},
		Auth:   cms.AuthOptional,
	}, &resp)
	if err != nil {
		return SignedURL{}, fmt.Errorf("sign %s: %w", fileName, err)
	}
	if resp.Msg.URL == "" {
		return SignedURL{}, fmt.Errorf("sign %s: %w: empty url", fileName, cms.ErrInvalidResponse)
	}
	return resp.Msg, nil
}

// Upload signs and PUTs one file, returning its public URL.
func (u *Uploader) Upload(ctx context.Context, f File) (string, error) {
	signed, err := u.Sign(ctx, f.Name, f.ContentType)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, signed.URL, bytes.NewReader(f.Data))
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", f.ContentType)
	resp, err := u.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", f.Name, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("upload %s: storage returned %d", f.Name, resp.StatusCode)
	}
	return signed.PublicURL(), nil
}

// Delete removes a stored object by file name or URL.
func (u *Uploader) Delete(ctx context.Context, nameOrURL string) error {
	name := nameOrURL
	if parsed, err := url.Parse(nameOrURL); err == nil && parsed.Path != "" {
		name = path.Base(parsed.Path)
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return fmt.Errorf("delete: empty file name")
	}
	return u.client.Do(ctx, cms.Request{
		Method: http.MethodDelete,
		Path:   "/aws/" + url.PathEscape(name),
		Auth:   cms.AuthOptional,
	}, nil)
}

// UploadSlots uploads every new file concurrently and returns the picture
// list in slot order. A failed upload leaves nil in its position and does
// not affect the other slots. The second result counts failed slots.
func (u *Uploader) UploadSlots(ctx context.Context, slots []Slot) ([]*string, int) {
	out := make([]*string, len(slots))
	failed := make([]bool, len(slots))

	var g errgroup.Group
	g.SetLimit(MaxConcurrentUploads)
	for i, slot := range slots {
		switch {
		case slot.File != nil:
			g.Go(func() error {
				stored, err := u.Upload(ctx, *slot.File)
				if err != nil {
					failed[i] = true
					u.logger.WarnContext(ctx, "picture_upload_failed", "slot", i, "file", slot.File.Name, "error", err.Error())
					return nil
				}
				out[i] = &stored
				return nil
			})
		case slot.Existing != "":
			existing := slot.Existing
			out[i] = &existing
		}
	}
	_ = g.Wait()

	n := 0
	for _, f := range failed {
		if f {
			n++
		}
	}
	return out, n
}
