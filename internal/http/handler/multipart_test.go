package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
)

type multipartWriter struct {
	*multipart.Writer
	err error
}

func newMultipartWriter(w io.Writer) *multipartWriter {
	return &multipartWriter{Writer: multipart.NewWriter(w)}
}

func (w *multipartWriter) file(field, filename, contentType, content string) {
	if w.err != nil {
		return
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		w.err = err
		return
	}
	_, w.err = io.WriteString(part, content)
}

func (w *multipartWriter) field(name, value string) {
	if w.err != nil {
		return
	}
	w.err = w.WriteField(name, value)
}

func (w *multipartWriter) Close() error {
	if w.err != nil {
		return w.err
	}
	return w.Writer.Close()
}
