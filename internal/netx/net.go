// Package netx holds client-side transfer helpers that talk to object
// storage directly, outside the budget API.
package netx

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// UploadTimeout bounds a single receipt upload.
const UploadTimeout = 60 * time.Second

// UploadToS3PresignedURL PUTs data to a presigned object URL. The content
// type is sniffed from the payload.
func UploadToS3PresignedURL(url string, data []byte) error {
	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(fiber.MethodPut)
	req.SetRequestURI(url)
	// The signature covers the exact path.
	req.URI().DisablePathNormalizing = true

	a.ContentType(http.DetectContentType(data))
	a.Body(data)
	a.Timeout(UploadTimeout)
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return err
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("upload failed: %w", errs[0])
	}
	if code != fiber.StatusOK {
		return fmt.Errorf("upload failed: %d; body: %s", code, string(body))
	}
	return nil
}
