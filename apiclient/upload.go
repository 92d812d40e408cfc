package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Upload is a file ready to be sent as the multipart "file" field.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (u Upload) multipart() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(u.Name)))
	ct := u.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(u.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// UploadReport counts the outcome of a batch upload.
type UploadReport struct {
	Success int
	Fail    int
	Failed  []string
}

// Total returns the number of files attempted.
func (r UploadReport) Total() int { return r.Success + r.Fail }

func (r UploadReport) String() string {
	return fmt.Sprintf("success: %d, fail: %d", r.Success, r.Fail)
}

// Summary is the user-facing message for the report.
func (r UploadReport) Summary() string {
	switch {
	case r.Total() == 0:
		return "No files selected"
	case r.Fail == 0:
		return fmt.Sprintf("Uploaded %d images", r.Success)
	case r.Success == 0:
		return "Upload failed"
	default:
		return r.String()
	}
}

// UploadSequential sends files one at a time in order, waiting for each
// before starting the next. Failures are counted, not returned. A cancelled
// context fails the remaining files without sending them.
func UploadSequential(ctx context.Context, files []Upload, send func(context.Context, Upload) error, logger *slog.Logger) UploadReport {
	if logger == nil {
		logger = slog.Default()
	}
	var r UploadReport
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			r.Fail++
			r.Failed = append(r.Failed, f.Name)
			continue
		}
		if err := send(ctx, f); err != nil {
			logger.Warn("upload failed", "file", f.Name, "err", err)
			r.Fail++
			r.Failed = append(r.Failed, f.Name)
			continue
		}
		r.Success++
	}
	logger.Info("upload finished", "success", r.Success, "fail", r.Fail)
	return r
}
