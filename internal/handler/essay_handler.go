package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/cssprep-api/internal/dto"
	"github.com/noah-isme/cssprep-api/internal/service"
	"github.com/noah-isme/cssprep-api/internal/utils"
	"github.com/noah-isme/cssprep-api/pkg/essay"
)

// maxEssayFileBytes bounds uploaded essay files. 15000 characters of four-byte runes still fit.
const maxEssayFileBytes = 256 * 1024

var (
	errEssayFileType    = errors.New("essay file must be plain text")
	errEssayFileTooBig  = errors.New("essay file is too large")
	errEssayFileMissing = errors.New("essay text or file is required")
)

// EssayHandler exposes essay evaluation and history endpoints for students.
type EssayHandler struct {
	service service.EssayService
	logger  zerolog.Logger
}

// NewEssayHandler constructs the handler.
func NewEssayHandler(service service.EssayService, logger zerolog.Logger) *EssayHandler {
	return &EssayHandler{
		service: service,
		logger:  logger.With().Str("component", "essay_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group. evaluateGuards run before the evaluate endpoint only.
func (h *EssayHandler) Register(router fiber.Router, evaluateGuards ...fiber.Handler) {
	evaluate := append(append([]fiber.Handler{}, evaluateGuards...), h.evaluate)
	router.Post("/evaluate", evaluate...)
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

func (h *EssayHandler) evaluate(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	if actor.ID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload, err := h.bindEvaluation(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Evaluate(c.UserContext(), actor, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	requestLogger(h.logger, c).Info().
		Uint("essay_id", response.ID).
		Uint("user_id", actor.ID).
		Int("total_marks", response.Result.TotalMarks).
		Str("source", response.Source).
		Msg("essay evaluated")

	return utils.SendSuccess(c, "essay evaluated", response)
}

func (h *EssayHandler) list(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	if actor.ID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	page, pageSize, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.List(c.UserContext(), actor, page, pageSize)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "essays retrieved", response)
}

func (h *EssayHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Get(c.UserContext(), id, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "essay retrieved", response)
}

// bindEvaluation accepts a JSON body or a multipart form carrying either the essay text or a text file.
func (h *EssayHandler) bindEvaluation(c *fiber.Ctx) (dto.EssayEvaluationRequest, error) {
	var payload dto.EssayEvaluationRequest
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&payload); err != nil {
			return payload, errors.New("invalid request body")
		}
		return payload, nil
	}

	payload.Essay = c.FormValue("essay")
	if raw := strings.TrimSpace(c.FormValue("is_pdf")); raw != "" {
		isPDF, err := strconv.ParseBool(raw)
		if err != nil {
			return payload, errors.New("is_pdf must be a boolean")
		}
		payload.IsPDF = isPDF
	}
	if strings.TrimSpace(payload.Essay) != "" {
		return payload, nil
	}

	file, err := c.FormFile("file")
	if err != nil {
		return payload, errEssayFileMissing
	}
	text, err := readEssayFile(file)
	if err != nil {
		return payload, err
	}
	payload.Essay = text
	return payload, nil
}

func readEssayFile(file *multipart.FileHeader) (string, error) {
	if file.Size > maxEssayFileBytes {
		return "", errEssayFileTooBig
	}

	reader, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open essay file: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, maxEssayFileBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read essay file: %w", err)
	}
	if len(data) > maxEssayFileBytes {
		return "", errEssayFileTooBig
	}

	if !mimetype.Detect(data).Is("text/plain") || !utf8.Valid(data) {
		return "", errEssayFileType
	}
	return string(data), nil
}

func pagination(c *fiber.Ctx) (int, int, error) {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return 0, 0, err
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}

func (h *EssayHandler) handleError(c *fiber.Ctx, err error) error {
	if handled, sendErr := sendValidationError(c, err); handled {
		return sendErr
	}

	switch {
	case errors.Is(err, essay.ErrInputOutOfRange):
		return utils.SendError(c, fiber.StatusBadRequest, fmt.Sprintf("essay must be between %d and %d characters", essay.MinEssayLength, essay.MaxEssayLength))
	case errors.Is(err, service.ErrSubscriptionRequired):
		return utils.SendError(c, fiber.StatusPaymentRequired, "an active subscription is required to check essays")
	case errors.Is(err, service.ErrEssayNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEssayForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "forbidden")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("essay operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
