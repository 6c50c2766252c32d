package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"salescast/models"
	"salescast/tabular"
	"salescast/utils"
)

// HandleUploadFile stores an uploaded CSV or XLSX dataset.
// POST /api/v1/files (multipart field "file")
func (h *Handler) HandleUploadFile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Missing file field"})
	}

	f, err := fh.Open()
	if err != nil {
		return respondError(c, "UPLOAD", err)
	}
	defer f.Close()

	limit := int64(h.cfg.MaxUploadMB) << 20
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return respondError(c, "UPLOAD", err)
	}
	if int64(len(data)) > limit {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"success": false, "message": "File too large"})
	}

	if _, err := tabular.Read(data); err != nil {
		if errors.Is(err, tabular.ErrEmptyTable) {
			return respondError(c, "UPLOAD", errEmptyFile)
		}
		return respondError(c, "UPLOAD", fmt.Errorf("%w: %v", errUnreadableTable, err))
	}

	saved, err := h.store.SaveFile(c.UserContext(), fh.Filename, data)
	if err != nil {
		return respondError(c, "UPLOAD", err)
	}

	log.Info().Str("id", saved.ID).Str("name", saved.Name).Int("size", saved.Size).Msg("📥 [UPLOAD] Stored dataset")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": saved.Info()})
}

// HandleListFiles returns stored datasets, newest first.
// GET /api/v1/files?page=&pageSize=
func (h *Handler) HandleListFiles(c *fiber.Ctx) error {
	page, pageSize := utils.NormalizePage(c.QueryInt("page", 1), c.QueryInt("pageSize", 10))

	files, total, err := h.store.ListFiles(c.UserContext(), pageSize, utils.Offset(page, pageSize))
	if err != nil {
		return respondError(c, "FILES", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": models.PaginatedFilesResponse{
		Data:       files,
		Pagination: utils.CreatePagination(total, page, pageSize),
	}})
}
