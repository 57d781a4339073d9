package consumer

import (
	"encoding/json"
	"fmt"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/domain"
)

// JSONPurchaseParser implements MessageParser for JSON encoded purchase events
type JSONPurchaseParser struct{}

// NewJSONPurchaseParser creates a new JSON purchase parser
func NewJSONPurchaseParser() *JSONPurchaseParser {
	return &JSONPurchaseParser{}
}

// Parse decodes body and checks the required fields
func (p *JSONPurchaseParser) Parse(body []byte) (*domain.PurchaseEvent, error) {
	var event domain.PurchaseEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal purchase event: %w", err)
	}

	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("invalid purchase event: %w", err)
	}

	return &event, nil
}
