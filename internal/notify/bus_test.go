package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemoryBusDelivers(t *testing.T) {
	bus := NewMemoryBus()
	sub := bus.Subscribe(TopicShow)
	defer sub.Close()

	ev := Event{Severity: SeverityError, Summary: "Error", Detail: "boom"}
	bus.Emit(TopicShow, ev)

	select {
	case msg := <-sub.C():
		assert.Equal(t, TopicShow, msg.Topic)
		assert.Equal(t, ev, msg.Event)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestMemoryBusMultipleTopics(t *testing.T) {
	bus := NewMemoryBus()
	sub := bus.Subscribe(TopicShow, TopicTranslate)
	defer sub.Close()

	bus.Emit(TopicTranslate, Event{Severity: SeverityWarn, Summary: "toast.warn.summary"})
	bus.Emit(TopicShow, Event{Severity: SeverityInfo, Summary: "hello"})
	bus.Emit("other", Event{Severity: SeverityInfo})

	first := <-sub.C()
	second := <-sub.C()
	assert.Equal(t, TopicTranslate, first.Topic)
	assert.Equal(t, TopicShow, second.Topic)
	assert.Len(t, sub.C(), 0)
}

func TestMemoryBusNoSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	bus.Emit(TopicShow, Event{Severity: SeverityInfo})
	assert.Equal(t, 0, bus.Subscribers(TopicShow))
}

func TestMemoryBusDropsWhenFull(t *testing.T) {
	bus := NewMemoryBusWithBuffer(1)
	sub := bus.Subscribe("drop-test")
	defer sub.Close()

	before := testutil.ToFloat64(eventsDropped.WithLabelValues("drop-test"))
	bus.Emit("drop-test", Event{Severity: SeverityInfo, Summary: "one"})
	bus.Emit("drop-test", Event{Severity: SeverityInfo, Summary: "two"})

	assert.Equal(t, before+1, testutil.ToFloat64(eventsDropped.WithLabelValues("drop-test")))
	msg := <-sub.C()
	assert.Equal(t, "one", msg.Event.Summary)
}

func TestSubscriptionClose(t *testing.T) {
	bus := NewMemoryBus()
	sub := bus.Subscribe(TopicShow, TopicTranslate)
	require.Equal(t, 1, bus.Subscribers(TopicShow))

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	assert.Equal(t, 0, bus.Subscribers(TopicShow))
	assert.Equal(t, 0, bus.Subscribers(TopicTranslate))

	_, ok := <-sub.C()
	assert.False(t, ok)

	bus.Emit(TopicShow, Event{Severity: SeverityInfo})
}

func TestMemoryBusConcurrentEmitAndClose(t *testing.T) {
	bus := NewMemoryBus()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := bus.Subscribe(TopicShow)
			for j := 0; j < 50; j++ {
				bus.Emit(TopicShow, Event{Severity: SeverityInfo})
			}
			_ = sub.Close()
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, bus.Subscribers(TopicShow))
}

func TestEmitterFuncAndDiscard(t *testing.T) {
	var got []Message
	e := EmitterFunc(func(topic string, ev Event) {
		got = append(got, Message{Topic: topic, Event: ev})
	})
	e.Emit(TopicShow, Event{Severity: SeveritySuccess, Summary: "ok"})
	Discard.Emit(TopicShow, Event{Severity: SeveritySuccess})

	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Event.Summary)
}
