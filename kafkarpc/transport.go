package kafkarpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/aalemi-dev/msgrpc-lab/observability"
	"github.com/aalemi-dev/msgrpc-lab/rpc"
)

// Call produces the request to the target's topic and waits for the
// correlated reply on the configured reply topic. A remote endpoint error
// comes back as a *RemoteError; transport failures come back as translated
// Kafka errors. Call respects ctx and gives up after CallTimeout.
func (t *Transport) Call(ctx context.Context, req *rpc.Request) (*rpc.Response, error) {
	if err := t.ensureReplyLoop(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	replyChan := t.registerPending(id)
	defer t.unregisterPending(id)

	if err := t.produceRequest(ctx, req, id, t.cfg.ReplyTopic); err != nil {
		return nil, err
	}

	timer := time.NewTimer(t.cfg.CallTimeout)
	defer timer.Stop()

	select {
	case reply := <-replyChan:
		if reply.Error != "" {
			return nil, &RemoteError{Message: reply.Error}
		}
		return &rpc.Response{Result: reply.Result}, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: %s.%s after %s", ErrCallTimeout, req.Target.Topic, req.Method, t.cfg.CallTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.shutdownSignal:
		return nil, ErrTransportClosed
	}
}

// Cast produces the request to the target's topic and returns as soon as the
// broker acknowledges it. The remote outcome is invisible to the caller.
func (t *Transport) Cast(ctx context.Context, req *rpc.Request) error {
	return t.produceRequest(ctx, req, "", "")
}

// produceRequest serializes and writes one request envelope. Request metadata
// rides in message headers.
func (t *Transport) produceRequest(ctx context.Context, req *rpc.Request, id, replyTo string) error {
	start := time.Now()

	envelope := requestEnvelope{
		ID:      id,
		Method:  req.Method,
		Kind:    string(req.Kind),
		Args:    req.Args,
		ReplyTo: replyTo,
	}

	body, err := t.serializer.Serialize(envelope)
	if err != nil {
		return fmt.Errorf("failed to serialize request envelope: %w", err)
	}

	select {
	case <-t.shutdownSignal:
		err = ErrTransportClosed
	case <-ctx.Done():
		err = ctx.Err()
	default:
		err = t.writer.WriteMessages(ctx, kafka.Message{
			Topic:   req.Target.Topic,
			Key:     []byte(req.Method),
			Value:   body,
			Headers: metadataToHeaders(req.Metadata),
		})
		if err != nil {
			err = t.TranslateError(err)
		}
	}

	t.observeOperation(observability.OperationContext{
		Component:   "kafkarpc",
		Operation:   "produce",
		Resource:    req.Target.Topic,
		SubResource: req.Method,
		Duration:    time.Since(start),
		Error:       err,
		Size:        int64(len(body)),
	})

	return err
}

// registerPending creates the channel a call waits on for its reply.
func (t *Transport) registerPending(id string) chan *replyEnvelope {
	replyChan := make(chan *replyEnvelope, 1)
	t.mu.Lock()
	t.pending[id] = replyChan
	t.mu.Unlock()
	return replyChan
}

// unregisterPending drops a call's reply channel. Late replies for
// unregistered ids are discarded by the reply loop.
func (t *Transport) unregisterPending(id string) {
	t.mu.Lock()
	delete(t.pending, id)
	t.mu.Unlock()
}

// ensureReplyLoop lazily starts the reply consumer the first time a call
// needs it.
func (t *Transport) ensureReplyLoop() error {
	if t.cfg.ReplyTopic == "" {
		return ErrNoReplyTopic
	}

	t.replyOnce.Do(func() {
		// Each process owns its reply topic, so the topic doubles as the
		// consumer group id.
		reader := t.createReader(t.cfg.ReplyTopic, t.cfg.ReplyTopic)
		go t.replyLoop(reader)
	})
	return nil
}

// replyLoop consumes the reply topic and routes each reply to the pending
// call it correlates with. It exits when the transport shuts down.
func (t *Transport) replyLoop(reader *kafka.Reader) {
	ctx := context.Background()

	for {
		select {
		case <-t.shutdownSignal:
			t.logInfo(ctx, "Stopping reply consumer due to shutdown signal", nil)
			return
		default:
		}

		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			select {
			case <-t.shutdownSignal:
				return
			default:
			}
			if errors.Is(err, context.Canceled) {
				return
			}
			t.logError(ctx, "Reply consumer failed to fetch message", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}

		var reply replyEnvelope
		if err := t.deserializer.Deserialize(msg.Value, &reply); err != nil {
			t.logError(ctx, "Failed to decode reply envelope", map[string]interface{}{
				"error":  err.Error(),
				"offset": msg.Offset,
			})
			t.commitReply(ctx, reader, msg)
			continue
		}

		t.mu.RLock()
		replyChan, ok := t.pending[reply.ID]
		t.mu.RUnlock()

		if ok {
			select {
			case replyChan <- &reply:
			default:
				// The call already received a reply for this id.
			}
		} else {
			t.logWarn(ctx, "Discarding reply with no pending call", map[string]interface{}{
				"correlation_id": reply.ID,
			})
		}

		t.commitReply(ctx, reader, msg)
	}
}

// commitReply commits a consumed reply message, logging commit failures.
func (t *Transport) commitReply(ctx context.Context, reader *kafka.Reader, msg kafka.Message) {
	if err := reader.CommitMessages(ctx, msg); err != nil {
		t.logWarn(ctx, "Failed to commit reply message", map[string]interface{}{
			"error":  err.Error(),
			"offset": msg.Offset,
		})
	}
}
