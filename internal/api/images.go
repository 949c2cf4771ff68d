package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/gbnam453/nalbom-admin/internal/model"
)

// ImageUpload is one image file sent to a notice
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
	// Progress is called as the request body is written
	Progress ProgressFunc
}

func imagesPath(noticeID int64) string {
	return "api/notices/" + itoa(noticeID) + "/images"
}

// ListImages returns the images attached to a notice
func (c *Client) ListImages(ctx context.Context, noticeID int64) ([]model.NoticeImage, error) {
	var images []model.NoticeImage
	if err := c.doJSON(ctx, http.MethodGet, imagesPath(noticeID), nil, &images); err != nil {
		return nil, err
	}
	model.SortNewestFirst(images)
	return images, nil
}

// UploadImage posts one image as multipart field "image"
func (c *Client) UploadImage(ctx context.Context, noticeID int64, img ImageUpload) (model.NoticeImage, error) {
	var created model.NoticeImage

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, img.Filename))
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return created, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, img.Body); err != nil {
		return created, fmt.Errorf("failed to copy image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return created, fmt.Errorf("failed to finish form: %w", err)
	}

	total := int64(buf.Len())
	body := newProgressReader(&buf, total, img.Progress)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(imagesPath(noticeID)), body)
	if err != nil {
		return created, err
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	if err := c.do(req, &created); err != nil {
		return created, err
	}
	return created, nil
}

// DeleteImage removes one image from a notice
func (c *Client) DeleteImage(ctx context.Context, noticeID, imageID int64) error {
	return c.doJSON(ctx, http.MethodDelete, imagesPath(noticeID)+"/"+itoa(imageID), nil, nil)
}
