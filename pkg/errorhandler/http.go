package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/gaze-network/grc20-indexer/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

// NewHTTPErrorHandler renders public errors with their message (404 for NotFound kinds,
// 400 otherwise) and hides every other error behind a 500.
func NewHTTPErrorHandler() fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		if e := new(errs.PublicError); errors.As(err, &e) {
			status := http.StatusBadRequest
			if errors.Is(err, errs.NotFound) {
				status = http.StatusNotFound
			}
			return errors.WithStack(ctx.Status(status).JSON(common.NewHttpErrorResponse(e.Message())))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).JSON(common.NewHttpErrorResponse(e.Message)))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error", err,
			slogx.String("event", "api_unhandled_error"),
		)
		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(common.NewHttpErrorResponse("Internal Server Error")))
	}
}
