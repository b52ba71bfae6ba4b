// Upload HTTP handler: POST /uploads/recipe-image streams the multipart
// "image" field to the configured image host and returns its public URL.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadImageResponse carries the hosted image URL.
type UploadImageResponse struct {
	ImageURL string `json:"image_url" example:"https://ik.imagekit.io/demo/recipes/1700000000000_soup.jpg"`
}

// UploadRecipeImage godoc
// @ID          uploadRecipeImage
// @Summary     Upload a recipe image
// @Description Accepts JPEG, PNG or WebP (sniffed, not trusted from the client) up to the configured size.
// @Tags        Uploads
// @Accept      multipart/form-data
// @Produce     json
// @Param       image  formData  file  true  "Image file"
// @Success     201  {object}  handlers.UploadImageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing, empty, oversized or unsupported file"
// @Failure     502  {object}  handlers.ErrorResponse  "Image host failed"
// @Failure     503  {object}  handlers.ErrorResponse  "Uploads not configured"
// @Router      /uploads/recipe-image [post]
func (h *Handlers) UploadRecipeImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "request body too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "no file provided")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unreadable file")
		return
	}
	defer f.Close()

	url, err := h.uploads.UploadRecipeImage(c.Request.Context(), fh.Filename, f, fh.Size)
	if err != nil {
		writeError(c, err, ErrCodeUploadFailed)
		return
	}
	ok(c, http.StatusCreated, UploadImageResponse{ImageURL: url})
}
