package handler

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"infosight-worker/dto"
	"infosight-worker/service"
)

type ServiceDependencies struct {
	SubmissionService service.Service
	ReprocessService  service.ReprocessService
}

// SubmissionHandler processes one queued submission message. Errors are
// terminal for the message: the pipeline has already written the FAILED
// status, so there is nothing to requeue.
func SubmissionHandler(ctx context.Context, msg amqp.Delivery, deps ServiceDependencies) error {
	var message dto.ProcessMessage
	if err := json.Unmarshal(msg.Body, &message); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal submission message")
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("submission_id", message.SubmissionId.String()).
		Msg("received submission process message")

	if _, err := deps.SubmissionService.Process(ctx, message); err != nil {
		return err
	}

	return nil
}
