package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"fitstudio-backend/internal/shared"
)

// Client wraps the asynq producer used by the API process to hand work
// to the worker.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr, redisPassword string, redisDB int) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueProcessImage schedules variant generation for one image.
func (c *Client) EnqueueProcessImage(imageID string) error {
	payload, err := json.Marshal(shared.ProcessImagePayload{ImageID: imageID})
	if err != nil {
		return fmt.Errorf("marshal process image payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeProcessOfferingImage, payload)
	if _, err := c.client.Enqueue(task, asynq.Queue(shared.QueueDefault), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue process image: %w", err)
	}

	return nil
}

// EnqueueDeleteImages schedules object storage cleanup after an
// offering is removed.
func (c *Client) EnqueueDeleteImages(offeringID string) error {
	payload, err := json.Marshal(shared.DeleteImagesPayload{OfferingID: offeringID})
	if err != nil {
		return fmt.Errorf("marshal delete images payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeDeleteOfferingImages, payload)
	if _, err := c.client.Enqueue(task, asynq.Queue(shared.QueueLow), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue delete images: %w", err)
	}

	return nil
}
