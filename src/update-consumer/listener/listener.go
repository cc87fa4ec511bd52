package listener

import (
	"context"
	"sync"

	"github.com/go-stomp/stomp/v3"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/railcore/cif-engine/src/common/utils"
)

// Listener bridges one STOMP topic subscription onto a handler holding a
// RabbitMQ channel for anything it wants to publish downstream.
type Listener struct {
	ctx       context.Context
	wg        *sync.WaitGroup
	channel   *amqp.Channel
	stompConn *stomp.Conn
	topic     string
	handler   func(*amqp.Channel, string)
}

func NewListener(ctx context.Context, wg *sync.WaitGroup, channel *amqp.Channel, stompConn *stomp.Conn, topic string, handler func(*amqp.Channel, string)) *Listener {
	return &Listener{
		ctx:       ctx,
		wg:        wg,
		channel:   channel,
		stompConn: stompConn,
		topic:     topic,
		handler:   handler,
	}
}

func (l *Listener) DeclareQueue(name string) error {
	_, err := l.channel.QueueDeclare(
		name,
		false,
		false,
		false,
		false,
		nil,
	)
	return err
}

func (l *Listener) Start() error {
	defer l.wg.Done()
	logger := utils.GetLogger()

	sub, err := l.stompConn.Subscribe(l.topic, stomp.AckAuto)
	if err != nil {
		logger.Errorw("failed to subscribe", "topic", l.topic, "error", err)
		return err
	}
	defer sub.Unsubscribe()
	logger.Infow("subscribed", "topic", l.topic)

	for {
		select {
		case <-l.ctx.Done():
			return nil
		case msg, ok := <-sub.C:
			if !ok {
				logger.Warnw("subscription channel closed", "topic", l.topic)
				return nil
			}
			if msg.Err != nil {
				logger.Warnw("bad frame on subscription", "topic", l.topic, "error", msg.Err)
				continue
			}

			l.handler(l.channel, string(msg.Body))
		}
	}
}
