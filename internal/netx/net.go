// Package netx uploads file content straight to object storage through a
// presigned URL.
package netx

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultUploadTimeout bounds an upload when ctx carries no deadline.
const DefaultUploadTimeout = 2 * time.Minute

// ContentType guesses the MIME type from the file extension.
func ContentType(fileName string) string {
	if ct := mime.TypeByExtension(filepath.Ext(fileName)); ct != "" {
		return ct
	}
	return fiber.MIMEOctetStream
}

// PutPresigned PUTs data to a presigned URL. Any non-2xx answer is an error.
func PutPresigned(ctx context.Context, url string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := DefaultUploadTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(fiber.MethodPut)
	req.SetRequestURI(url)
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return fmt.Errorf("parse upload url: %w", err)
	}

	code, body, errs := a.Body(data).ContentType(contentType).Timeout(timeout).Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("upload: %w", errs[0])
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("upload failed: %d; body: %s", code, string(body))
	}
	return nil
}
