package kafkarpc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/aalemi-dev/msgrpc-lab/observability"
	"github.com/aalemi-dev/msgrpc-lab/rpc"
)

// Serve consumes the server's topic and dispatches every delivered request
// through the rpc package. Calls get a correlated reply produced to the
// envelope's reply topic; casts are dispatched and committed with no reply.
//
// Serve returns immediately; consumption runs in a goroutine tracked by wg
// that stops when ctx is canceled or the transport shuts down. Multiple
// Serve invocations, or multiple processes sharing the configured GroupID,
// split the topic's partitions between them.
func (t *Transport) Serve(ctx context.Context, wg *sync.WaitGroup, server *rpc.Server) {
	reader := t.createReader(server.Target().Topic, t.cfg.GroupID)

	wg.Add(1)
	go func() {
		defer wg.Done()
		t.serveLoop(ctx, reader, server)
	}()
}

// serveLoop is the consume-dispatch-reply loop for one server topic.
func (t *Transport) serveLoop(ctx context.Context, reader *kafka.Reader, server *rpc.Server) {
	topic := server.Target().Topic

	for {
		select {
		case <-t.shutdownSignal:
			t.logInfo(ctx, "Stopping server consumer due to shutdown signal", map[string]interface{}{
				"topic": topic,
			})
			return
		case <-ctx.Done():
			t.logInfo(ctx, "Stopping server consumer due to context cancellation", map[string]interface{}{
				"topic": topic,
				"error": ctx.Err().Error(),
			})
			return
		default:
		}

		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			select {
			case <-t.shutdownSignal:
				return
			default:
			}
			t.logError(ctx, "Server consumer failed to fetch message", map[string]interface{}{
				"topic": topic,
				"error": err.Error(),
			})
			continue
		}

		t.handleRequest(ctx, reader, server, msg)
	}
}

// handleRequest decodes one request message, dispatches it, and produces the
// reply for calls. Decode failures are logged and committed; redelivering a
// malformed message cannot fix it.
func (t *Transport) handleRequest(ctx context.Context, reader *kafka.Reader, server *rpc.Server, msg kafka.Message) {
	start := time.Now()
	topic := server.Target().Topic

	var envelope requestEnvelope
	decodeErr := t.deserializer.Deserialize(msg.Value, &envelope)

	t.observeOperation(observability.OperationContext{
		Component:   "kafkarpc",
		Operation:   "consume",
		Resource:    topic,
		SubResource: envelope.Method,
		Duration:    time.Since(start),
		Error:       decodeErr,
		Size:        int64(len(msg.Value)),
	})

	if decodeErr != nil {
		t.logError(ctx, "Failed to decode request envelope", map[string]interface{}{
			"topic":  topic,
			"offset": msg.Offset,
			"error":  decodeErr.Error(),
		})
		t.commitRequest(ctx, reader, msg, topic)
		return
	}

	req := &rpc.Request{
		Target:   server.Target(),
		Method:   envelope.Method,
		Kind:     rpc.Kind(envelope.Kind),
		Args:     envelope.Args,
		Metadata: headersToMetadata(msg.Headers),
	}

	resp, dispatchErr := server.Dispatch(ctx, req)

	if envelope.Kind == string(rpc.KindCall) && envelope.ReplyTo != "" {
		t.produceReply(ctx, &envelope, resp, dispatchErr)
	}

	t.commitRequest(ctx, reader, msg, topic)
}

// produceReply writes the call's outcome to the caller's reply topic.
func (t *Transport) produceReply(ctx context.Context, envelope *requestEnvelope, resp *rpc.Response, dispatchErr error) {
	reply := replyEnvelope{ID: envelope.ID}
	if dispatchErr != nil {
		reply.Error = dispatchErr.Error()
	} else if resp != nil {
		reply.Result = resp.Result
	}

	body, err := t.serializer.Serialize(reply)
	if err != nil {
		t.logError(ctx, "Failed to serialize reply envelope", map[string]interface{}{
			"correlation_id": envelope.ID,
			"error":          err.Error(),
		})
		return
	}

	err = t.writer.WriteMessages(ctx, kafka.Message{
		Topic: envelope.ReplyTo,
		Key:   []byte(envelope.ID),
		Value: body,
	})
	if err != nil {
		t.logError(ctx, "Failed to produce reply", map[string]interface{}{
			"correlation_id": envelope.ID,
			"reply_to":       envelope.ReplyTo,
			"error":          t.TranslateError(err).Error(),
		})
	}
}

// commitRequest commits a consumed request message, logging commit failures.
func (t *Transport) commitRequest(ctx context.Context, reader *kafka.Reader, msg kafka.Message, topic string) {
	if err := reader.CommitMessages(ctx, msg); err != nil {
		t.logWarn(ctx, "Failed to commit request message", map[string]interface{}{
			"topic":  topic,
			"offset": msg.Offset,
			"error":  err.Error(),
		})
	}
}
