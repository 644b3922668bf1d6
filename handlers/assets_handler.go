package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"gamestore/middleware"
	"gamestore/models"
	"gamestore/services"

	"github.com/gin-gonic/gin"
)

// AssetsHandler maps logical asset kinds (header, capsule, screenshots,
// trailers) to files inside a game's asset directory. Every successful upload
// unpublishes the game: new binary content invalidates prior approval.
type AssetsHandler struct {
	gameService  *services.GameService
	assetService *services.AssetService
}

func NewAssetsHandler(gameService *services.GameService, assetService *services.AssetService) *AssetsHandler {
	return &AssetsHandler{
		gameService:  gameService,
		assetService: assetService,
	}
}

func (h *AssetsHandler) gameFromQuery(c *gin.Context) (*models.Game, bool) {
	gameID, err := strconv.ParseUint(c.Query("game_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game_id query parameter required"})
		return nil, false
	}

	game, err := h.gameService.GetGameByID(uint(gameID))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return game, true
}

// canUpload allows the game's owner and administrators to modify assets.
func canUpload(c *gin.Context, game *models.Game) bool {
	if middleware.HasRole(c, models.RoleAdmin) {
		return true
	}
	userID, ok := middleware.CurrentUserID(c)
	if ok && userID == game.OwnerID {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": models.ErrForbidden.Error()})
	return false
}

// DownloadHeader returns the image for the header section of the game.
func (h *AssetsHandler) DownloadHeader(c *gin.Context) {
	h.downloadSingle(c, services.AssetHeader)
}

// DownloadCapsule returns the image for the capsule section of the game.
func (h *AssetsHandler) DownloadCapsule(c *gin.Context) {
	h.downloadSingle(c, services.AssetCapsule)
}

func (h *AssetsHandler) downloadSingle(c *gin.Context, kind string) {
	game, ok := h.gameFromQuery(c)
	if !ok {
		return
	}

	path, name, err := h.assetService.SingleFile(game.Directory, kind)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", "filename="+name)
	c.Header("Content-Type", "image/webp")
	c.File(path)
}

// UploadHeader stores a header section file. An existing file is overwritten
// and the associated game becomes unpublished.
func (h *AssetsHandler) UploadHeader(c *gin.Context) {
	h.uploadSingle(c, services.AssetHeader)
}

// UploadCapsule stores a capsule section file. An existing file is overwritten
// and the associated game becomes unpublished.
func (h *AssetsHandler) UploadCapsule(c *gin.Context) {
	h.uploadSingle(c, services.AssetCapsule)
}

func (h *AssetsHandler) uploadSingle(c *gin.Context, kind string) {
	game, ok := h.gameFromQuery(c)
	if !ok {
		return
	}
	if !canUpload(c, game) {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload required"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer src.Close()

	if err := h.assetService.SaveFile(game.Directory, kind, fileHeader.Filename, src); err != nil {
		writeError(c, err)
		return
	}

	if err := h.gameService.Unpublish(game.ID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetScreenshots returns the names of the stored screenshot files, or the
// file itself when the filename query param is provided.
func (h *AssetsHandler) GetScreenshots(c *gin.Context) {
	h.downloadMulti(c, services.AssetScreenshots)
}

// GetTrailers returns the names of the stored trailer files, or the file
// itself when the filename query param is provided.
func (h *AssetsHandler) GetTrailers(c *gin.Context) {
	h.downloadMulti(c, services.AssetTrailers)
}

func (h *AssetsHandler) downloadMulti(c *gin.Context, kind string) {
	game, ok := h.gameFromQuery(c)
	if !ok {
		return
	}

	if filename := c.Query("filename"); filename != "" {
		path, err := h.assetService.FilePath(game.Directory, kind, filename)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Content-Disposition", "filename="+filename)
		c.File(path)
		return
	}

	names, err := h.assetService.ListFiles(game.Directory, kind)
	if err != nil {
		writeError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"files": names})
}

// UploadScreenshots replaces the whole screenshot set and unpublishes the game.
func (h *AssetsHandler) UploadScreenshots(c *gin.Context) {
	h.uploadMulti(c, services.AssetScreenshots)
}

// UploadTrailers replaces the whole trailer set and unpublishes the game.
func (h *AssetsHandler) UploadTrailers(c *gin.Context) {
	h.uploadMulti(c, services.AssetTrailers)
}

func (h *AssetsHandler) uploadMulti(c *gin.Context, kind string) {
	game, ok := h.gameFromQuery(c)
	if !ok {
		return
	}
	if !canUpload(c, game) {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one file required"})
		return
	}

	uploads := make([]services.AssetUpload, 0, len(fileHeaders))
	opened := make([]multipart.File, 0, len(fileHeaders))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, fileHeader := range fileHeaders {
		src, err := fileHeader.Open()
		if err != nil {
			writeError(c, err)
			return
		}
		opened = append(opened, src)
		uploads = append(uploads, services.AssetUpload{Name: fileHeader.Filename, Reader: src})
	}

	if err := h.assetService.SaveFiles(game.Directory, kind, uploads); err != nil {
		writeError(c, err)
		return
	}

	if err := h.gameService.Unpublish(game.ID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
