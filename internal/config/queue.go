package config

import "os"

// QueueConfig holds the RabbitMQ settings for grant audit events.  An empty
// URL disables publishing.
type QueueConfig struct {
	URL   string
	Queue string
}

// LoadQueueConfig reads RABBITMQ_URL (or AMQP_URL) and AUDIT_QUEUE.
func LoadQueueConfig() QueueConfig {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	return QueueConfig{
		URL:   url,
		Queue: envStr("AUDIT_QUEUE", "access.audit"),
	}
}
