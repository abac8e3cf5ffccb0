package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"unihub/internal/service"
)

// MaxUploadSize bounds the multipart body of an upload.
const MaxUploadSize = "10M"

// UploadHandler accepts pictures and stores them as WebP.
type UploadHandler struct {
	svc service.UploadService
}

// NewUploadHandler creates an upload handler.
func NewUploadHandler(svc service.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// UploadResponse carries the public URL of the stored picture.
type UploadResponse struct {
	URL string `json:"url"`
}

// Upload godoc
// @Summary Upload a picture
// @Description JPEG or PNG. Profile and club pictures are cropped square.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Picture"
// @Param kind formData string true "profile, club, post or event"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 415 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /uploads [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest("multipart field \"file\" is required")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest("cannot read uploaded file")
	}
	defer f.Close()

	contentType := fh.Header.Get(echo.HeaderContentType)
	if contentType == "" || contentType == echo.MIMEOctetStream {
		head := make([]byte, 512)
		n, _ := io.ReadFull(f, head)
		contentType = http.DetectContentType(head[:n])
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return badRequest("cannot read uploaded file")
		}
	}

	url, err := h.svc.Upload(ctxOf(c), service.UploadKind(c.FormValue("kind")), contentType, f)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, UploadResponse{URL: url})
}
