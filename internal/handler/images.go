package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"github.com/gbnam453/nalbom-admin/internal/api"
	"github.com/gbnam453/nalbom-admin/internal/utils"
	"github.com/gbnam453/nalbom-admin/templates"
)

const (
	imageMissingAlert = "이미지를 선택하세요."
	imageTypeAlert    = "이미지 파일만 업로드할 수 있습니다."
)

// multipartOverhead leaves room for the form encoding around the image
const multipartOverhead = 1 << 20

// HandleNoticeImageUpload attaches one image to a notice. The content must
// sniff as image/*, whatever the declared type.
func (h *Handler) HandleNoticeImageUpload(c echo.Context) error {
	id, err := recordID(c, "id")
	if err != nil {
		return err
	}

	limit := h.cfg.MaxImageSizeToBytes()
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, limit+multipartOverhead)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Printf("Rejected image upload for notice %d: body over %d bytes", id, tooLarge.Limit)
			return h.renderNotice(c, http.StatusRequestEntityTooLarge, id, nil, imageSizeAlert(limit))
		}
		return h.renderNotice(c, http.StatusBadRequest, id, nil, imageMissingAlert)
	}
	if fh.Size == 0 {
		return h.renderNotice(c, http.StatusBadRequest, id, nil, imageMissingAlert)
	}
	if fh.Size > limit {
		return h.renderNotice(c, http.StatusRequestEntityTooLarge, id, nil, imageSizeAlert(limit))
	}

	src, err := fh.Open()
	if err != nil {
		log.Printf("Error opening uploaded image: %v", err)
		return h.renderNotice(c, http.StatusBadRequest, id, nil, imageMissingAlert)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		log.Printf("Error detecting image type: %v", err)
		return h.renderNotice(c, http.StatusBadRequest, id, nil, imageTypeAlert)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		log.Printf("Rejected %s upload for notice %d: %s", mtype.String(), id, fh.Filename)
		return h.renderNotice(c, http.StatusUnsupportedMediaType, id, nil, imageTypeAlert)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		log.Printf("Error rewinding uploaded image: %v", err)
		return h.renderNotice(c, http.StatusInternalServerError, id, nil, "")
	}

	_, err = h.api.UploadImage(c.Request().Context(), id, api.ImageUpload{
		Filename:    fh.Filename,
		ContentType: mtype.String(),
		Body:        src,
		Progress:    logUploadProgress(fh.Filename),
	})
	if err != nil {
		logAPIError("upload notice image", err)
	}
	return c.Redirect(http.StatusSeeOther, templates.NoticePath(id))
}

func imageSizeAlert(limit int64) string {
	return fmt.Sprintf("이미지는 %s 이하만 업로드할 수 있습니다.", utils.FormatFileSize(limit))
}

func logUploadProgress(filename string) api.ProgressFunc {
	return func(sent, total int64) {
		if sent == total {
			log.Printf("Sent image %s (%s)", filename, utils.FormatFileSize(total))
		}
	}
}

// HandleNoticeImageDelete removes one image from a notice
func (h *Handler) HandleNoticeImageDelete(c echo.Context) error {
	id, err := recordID(c, "id")
	if err != nil {
		return err
	}
	imageID, err := recordID(c, "imageId")
	if err != nil {
		return err
	}
	if err := h.api.DeleteImage(c.Request().Context(), id, imageID); err != nil {
		logAPIError("delete notice image", err)
	}
	return c.Redirect(http.StatusSeeOther, templates.NoticePath(id))
}
