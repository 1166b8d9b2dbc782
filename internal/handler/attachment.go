package handler

import (
	"io"

	"github.com/adifathi/planner/planner-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AttachmentURLResponse is a temporary download link for an attached file
type AttachmentURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn"`
}

// readUpload reads the multipart "file" field. Reading stops one byte past the size
// limit so oversized uploads are still rejected by validation.
func readUpload(c echo.Context) (filename string, data []byte, ok bool, err error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", nil, false, NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return "", nil, false, NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err = io.ReadAll(io.LimitReader(src, service.MaxAttachmentSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return "", nil, false, NewInternalError(c, "Failed to read file")
	}
	return file.Filename, data, true, nil
}
