package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/nathanieltooley/hackemon/engine"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const TOPIC_BATTLE_EVENTS = "battle.events"

const (
	metaKeySession = "session"
	metaKeyType    = "type"
	metaKeySeq     = "seq"
)

// Envelope is one engine event as it leaves the process.
type Envelope struct {
	Type    string          `json:"type"`
	Session uuid.UUID       `json:"session"`
	Seq     int             `json:"seq"`
	Payload json.RawMessage `json:"payload"`
}

type Handler func(ctx context.Context, env Envelope) error

// Bus publishes battle events on an in-memory watermill channel. Publish blocks until every
// subscriber has handled the message, so subscribers see events in the order they happened.
// It is safe for concurrent use; each Publish call's events stay contiguous.
type Bus struct {
	pub    message.Publisher
	sub    message.Subscriber
	logger zerolog.Logger

	mu  sync.Mutex
	seq int
}

var feedLogger = func() zerolog.Logger {
	return log.With().Str("location", "feed").Logger()
}

func NewBus() *Bus {
	return NewBusWithLogger(NewZerologAdapter(log.Logger))
}

func NewBusWithLogger(logger watermill.LoggerAdapter) *Bus {
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{BlockPublishUntilSubscriberAck: true},
		logger,
	)

	return &Bus{
		pub:    goChannel,
		sub:    goChannel,
		logger: feedLogger(),
	}
}

func toMessage(session uuid.UUID, seq int, e engine.Event) (*message.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	env := Envelope{Type: engine.EventName(e), Session: session, Seq: seq, Payload: payload}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(metaKeySession, session.String())
	msg.Metadata.Set(metaKeyType, env.Type)
	msg.Metadata.Set(metaKeySeq, strconv.Itoa(seq))

	return msg, nil
}

// Publish sends events one message at a time on TOPIC_BATTLE_EVENTS.
func (b *Bus) Publish(ctx context.Context, session uuid.UUID, events []engine.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := toMessage(session, b.seq, e)
		if err != nil {
			return fmt.Errorf("encoding %s event: %w", engine.EventName(e), err)
		}
		msg.SetContext(ctx)

		if err := b.pub.Publish(TOPIC_BATTLE_EVENTS, msg); err != nil {
			return err
		}
		b.seq++
	}

	return nil
}

// Subscribe runs handler for every published event until ctx is done or the bus is closed.
// Messages a handler fails on are logged and dropped.
func (b *Bus) Subscribe(ctx context.Context, handler Handler) error {
	messages, err := b.sub.Subscribe(ctx, TOPIC_BATTLE_EVENTS)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var env Envelope
			if err := json.Unmarshal(msg.Payload, &env); err != nil {
				b.logger.Error().Err(err).Str("msg_id", msg.UUID).Msg("Dropping malformed event")
				msg.Ack()
				continue
			}

			if err := handler(ctx, env); err != nil {
				b.logger.Error().Err(err).Str("msg_id", msg.UUID).Str("type", env.Type).Msg("Failed to handle event")
			}
			msg.Ack()
		}

		b.logger.Debug().Msg("Subscription ended")
	}()

	return nil
}

func (b *Bus) Close() error {
	return b.pub.Close()
}

// LogHandler writes every event to logger, narration as its text and everything else as its payload.
func LogHandler(logger zerolog.Logger) Handler {
	return func(_ context.Context, env Envelope) error {
		event := logger.Debug().Str("session", env.Session.String()).Int("seq", env.Seq).Str("type", env.Type)

		if env.Type == engine.EventName(engine.NarrationEvent{}) {
			var narration engine.NarrationEvent
			if err := json.Unmarshal(env.Payload, &narration); err != nil {
				return err
			}
			event.Msg(narration.Text)
			return nil
		}

		event.RawJSON("payload", env.Payload).Msg("Battle event")
		return nil
	}
}
