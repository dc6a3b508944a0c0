package services

import "image"

// ImageComposer renders an NFD from its three fragment filenames and saves
// the result. The production implementation lives in pkg/imaging.
type ImageComposer interface {
	Compose(body, mouth, eyes string) (image.Image, error)
	Save(img image.Image, path string) error
}

// EventPublisher pushes domain events to the message broker. Publishing is
// best-effort: services log failures but never fail an operation over them.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}
