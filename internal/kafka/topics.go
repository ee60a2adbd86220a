package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"

	"tixmojo-server/internal/logger"
)

// EnsureTopicsExist creates the payment topics if they don't already exist.
// Failures are logged per topic; startup proceeds either way since the
// producer is best-effort.
func EnsureTopicsExist(brokers []string, topics []string, log *logger.Logger) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", controller.Host)
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	for _, topic := range topics {
		topicConfigs := []kafka.TopicConfig{
			{
				Topic:             topic,
				NumPartitions:     1,
				ReplicationFactor: 1,
			},
		}

		err = controllerConn.CreateTopics(topicConfigs...)
		if err != nil {
			if err.Error() == "kafka server: topic already exists" {
				log.Debug("KAFKA", "Topic "+topic+" already exists")
				continue
			}
			log.Warn("KAFKA", "Error creating topic "+topic+": "+err.Error())
		} else {
			log.Info("KAFKA", "Created topic: "+topic)
		}
	}

	// Give the brokers a moment before the first produce.
	time.Sleep(1 * time.Second)
	return nil
}
