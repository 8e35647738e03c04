package controller

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"educa_backend/internals/constants"
	"educa_backend/internals/features/schools/schools/dto"
	helper "educa_backend/internals/helpers"
	"educa_backend/internals/helpers/media"
)

// POST /api/a/schools/:id/images  (multipart: image=<file>, cover=true|false)
// The upload is re-encoded as WebP and appended to the gallery; cover=true also sets the cover image.
func (sc *SchoolController) UploadImage(c *fiber.Ctx) error {
	school, ok := sc.Dir.SchoolByID(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Escola não encontrada")
	}
	if sc.Media == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Armazenamento de imagens não configurado")
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Campo 'image' obrigatório")
	}
	if fh.Size > media.MaxUploadSize {
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, "Imagem maior que 5MB")
	}
	if !constants.IsImageFile(fh.Filename) {
		return helper.JsonError(c, fiber.StatusUnsupportedMediaType, media.ErrUnsupportedFormat.Error())
	}

	src, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Não foi possível ler o arquivo")
	}
	defer src.Close()

	data, err := media.ConvertToWebP(src, media.DefaultWebPOptions())
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedFormat) {
			return helper.JsonError(c, fiber.StatusUnsupportedMediaType, err.Error())
		}
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Imagem inválida")
	}

	key := media.BuildObjectKey("schools/"+school.SchoolID, fh.Filename, ".webp")
	url, err := sc.Media.Put(c.UserContext(), key, data, "image/webp")
	if err != nil {
		sc.Log.Error("store school image failed", zap.String("school_id", school.SchoolID), zap.Error(err))
		return helper.JsonError(c, fiber.StatusBadGateway, "Falha ao armazenar a imagem")
	}

	school.SchoolGallery = append(school.SchoolGallery, url)
	if cover, _ := strconv.ParseBool(c.FormValue("cover")); cover || school.SchoolImage == nil {
		school.SchoolImage = &url
	}

	saved, err := sc.Dir.AddSchool(c.UserContext(), school)
	if err != nil {
		// keep storage consistent with the directory
		if derr := sc.Media.Delete(c.UserContext(), key); derr != nil {
			sc.Log.Warn("orphan media object", zap.String("key", key), zap.Error(derr))
		}
		return sc.mutationError(c, err)
	}
	return helper.JsonCreated(c, "Imagem adicionada", dto.FromView(sc.Dir.View(saved)))
}

func itoa(i int) string { return strconv.Itoa(i) }
