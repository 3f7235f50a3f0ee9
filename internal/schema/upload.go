package schema

import (
	"errors"
	"io"
	"mime/multipart"
)

// ErrFileClosed is returned when reading an upload after Release.
var ErrFileClosed = errors.New("upload file is closed")

// UploadFile is a multipart file bound to a request. Its content is readable
// until the owning Bound is released.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Header      *multipart.FileHeader

	f multipart.File
}

func openUpload(fh *multipart.FileHeader) (*UploadFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &UploadFile{
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Header:      fh,
		f:           f,
	}, nil
}

func (u *UploadFile) Read(p []byte) (int, error) {
	if u.f == nil {
		return 0, ErrFileClosed
	}
	return u.f.Read(p)
}

func (u *UploadFile) Seek(offset int64, whence int) (int64, error) {
	if u.f == nil {
		return 0, ErrFileClosed
	}
	return u.f.Seek(offset, whence)
}

// Bytes reads the whole content from the start.
func (u *UploadFile) Bytes() ([]byte, error) {
	if _, err := u.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(u)
}

// Close releases the underlying file. It is safe to call more than once.
func (u *UploadFile) Close() error {
	if u.f == nil {
		return nil
	}
	err := u.f.Close()
	u.f = nil
	return err
}
