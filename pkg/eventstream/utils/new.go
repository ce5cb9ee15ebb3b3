// Package eventstreamutils builds an eventstream.Publisher for the configured provider.
package eventstreamutils

import (
	"fmt"
	"log/slog"

	"github.com/papercomputeco/policyqa/pkg/eventstream"
	"github.com/papercomputeco/policyqa/pkg/eventstream/kafka"
	"github.com/papercomputeco/policyqa/pkg/eventstream/nop"
)

type NewPublisherOpts struct {
	ProviderType string
	Brokers      []string
	Topic        string
	Logger       *slog.Logger
}

func NewPublisher(o *NewPublisherOpts) (eventstream.Publisher, error) {
	switch o.ProviderType {
	case "", "none":
		return nop.NewPublisher(), nil
	case "kafka":
		return kafka.NewPublisher(kafka.Config{
			Brokers: o.Brokers,
			Topic:   o.Topic,
			Logger:  o.Logger,
		})
	default:
		return nil, fmt.Errorf("unsupported event stream provider: %s", o.ProviderType)
	}
}
