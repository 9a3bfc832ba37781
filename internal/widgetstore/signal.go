package widgetstore

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ReloadTopic carries the one-byte reload ping the widget may subscribe to
// instead of polling the store.
const ReloadTopic = "vakit/widget/reload"

const connectTimeout = 5 * time.Second

// Notifier signals the widget to re-read the shared snapshot after a
// publish. It is strictly best-effort: the snapshot itself is the source of
// truth and a lost ping only delays the widget until its next poll.
type Notifier struct {
	client mqtt.Client
}

// NewNotifier connects to the MQTT broker at the given URL
// (e.g. "tcp://localhost:1883").
func NewNotifier(brokerURL, clientID string) (*Notifier, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetConnectTimeout(connectTimeout)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Notifier{client: client}, nil
}

// NotifyReload publishes the reload ping.
func (n *Notifier) NotifyReload() error {
	token := n.client.Publish(ReloadTopic, 1, false, []byte("reload"))
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish reload signal: %w", token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (n *Notifier) Close() {
	n.client.Disconnect(250)
}
