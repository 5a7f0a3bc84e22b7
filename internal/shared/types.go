package shared

// Asynq task type names, shared between enqueuers and the worker mux.
const (
	TypeProcessOfferingImage   = "offering:process_image"
	TypeDeleteOfferingImages   = "offering:delete_images"
	TypeExportRedemptionReport = "discount:export_report"
)

// Queue names, ordered by priority in the worker config.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// ProcessImagePayload is the body of an offering:process_image task.
type ProcessImagePayload struct {
	ImageID string `json:"image_id"`
}

// DeleteImagesPayload is the body of an offering:delete_images task.
type DeleteImagesPayload struct {
	OfferingID string `json:"offering_id"`
}
