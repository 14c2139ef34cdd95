package dto

import "encoding/json"

// WidgetResponse is the configuration blob for one embedded calculator
// widget. Configuration flows one way only: the client pushes Options
// into the widget and never reads anything back.
type WidgetResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Calculator  string          `json:"calculator"`
	ContainerID string          `json:"container_id"`
	Options     json.RawMessage `json:"options" swaggertype:"object"`
}
