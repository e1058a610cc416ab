package notify

import (
	"reflect"
	"testing"
)

func TestHub_PublishInOrderAndUnsubscribe(t *testing.T) {
	t.Parallel()

	var h Hub[int]
	var got []string
	unA := h.Subscribe(func(v int) { got = append(got, "a") })
	h.Subscribe(func(v int) { got = append(got, "b") })

	h.Publish(1)
	unA()
	unA() // idempotent
	h.Publish(2)

	if want := []string{"a", "b", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v; want %v", got, want)
	}
	if h.Len() != 1 {
		t.Fatalf("Len = %d; want 1", h.Len())
	}
}

func TestHub_SubscriberMaySubscribeDuringPublish(t *testing.T) {
	t.Parallel()

	var h Hub[string]
	calls := 0
	h.Subscribe(func(string) {
		calls++
		h.Subscribe(func(string) { calls++ })
	})
	h.Publish("x")
	if calls != 1 {
		t.Fatalf("calls = %d; want 1 (new subscriber only sees later events)", calls)
	}
}
