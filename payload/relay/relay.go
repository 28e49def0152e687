// Package relay defines the JSON-RPC 2.0 protocol spoken between the
// signaling relay and its clients.
package relay

import "errors"

const (
	MethodSubscribe   = "subscribe"
	MethodUnsubscribe = "unsubscribe"
	MethodPublish     = "publish"

	// MethodMessage is the server-to-client notification carrying a
	// published payload.
	MethodMessage = "message"
)

var ErrEmptyTopic = errors.New("topic is empty")

type SubscribeRequest struct {
	Topic string `json:"topic"`
}

type SubscribeResponse struct {
	Subscribers int `json:"subscribers"`
}

type UnsubscribeRequest struct {
	Topic string `json:"topic"`
}

type PublishRequest struct {
	Topic string `json:"topic"`
	Data  []byte `json:"data"`
}

type PublishResponse struct {
	Delivered int `json:"delivered"`
}

type MessageNotification struct {
	Topic string `json:"topic"`
	Data  []byte `json:"data"`
}

func (r SubscribeRequest) Validate() error {
	return validateTopic(r.Topic)
}

func (r UnsubscribeRequest) Validate() error {
	return validateTopic(r.Topic)
}

func (r PublishRequest) Validate() error {
	return validateTopic(r.Topic)
}

func validateTopic(topic string) error {
	if topic == "" {
		return ErrEmptyTopic
	}
	return nil
}
