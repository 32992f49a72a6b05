package wsserver

import "testing"

func TestConnectReplacesAndClosesPriorSink(t *testing.T) {
	r := NewRegistry()
	first := make(Sink, 1)
	r.Connect("alice", first)

	second := make(Sink, 1)
	r.Connect("alice", second)

	if _, ok := <-first; ok {
		t.Fatalf("expected prior sink to be closed")
	}

	got, ok := r.sinkFor("alice")
	if !ok || got != second {
		t.Fatalf("sinkFor(alice) = %v, %v; want second sink", got, ok)
	}
}

func TestDisconnectOnlyRemovesMatchingSink(t *testing.T) {
	r := NewRegistry()
	first := make(Sink, 1)
	r.Connect("alice", first)
	second := make(Sink, 1)
	r.Connect("alice", second)

	// first was already replaced (and closed); disconnecting it must not
	// tear down second's registration.
	r.Disconnect("alice", first)
	if _, ok := r.sinkFor("alice"); !ok {
		t.Fatalf("expected second sink to survive a stale disconnect of first")
	}

	r.Disconnect("alice", second)
	if _, ok := r.sinkFor("alice"); ok {
		t.Fatalf("expected alice to be fully disconnected")
	}
}

func TestSendDropsWhenSinkFull(t *testing.T) {
	r := NewRegistry()
	sink := make(Sink, 1)
	r.Connect("bob", sink)

	r.Send("bob", ServerMessage{Type: MsgAck, ID: "1"})
	r.Send("bob", ServerMessage{Type: MsgAck, ID: "2"}) // sink full, dropped

	msg := <-sink
	if msg.ID != "1" {
		t.Fatalf("id = %q, want 1 (second send should have been dropped)", msg.ID)
	}
}

func TestSendToUnknownUserIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Send("nobody", ServerMessage{Type: MsgAck}) // must not panic
}

func TestSubscribeUnsubscribeTracksLastMember(t *testing.T) {
	r := NewRegistry()
	r.Subscribe("match-1", "alice")
	r.Subscribe("match-1", "bob")

	if wasLast := r.Unsubscribe("match-1", "alice"); wasLast {
		t.Fatalf("expected bob to still be subscribed")
	}
	if wasLast := r.Unsubscribe("match-1", "bob"); !wasLast {
		t.Fatalf("expected bob to be reported as last subscriber")
	}
	if wasLast := r.Unsubscribe("match-1", "bob"); wasLast {
		t.Fatalf("unsubscribing an already-removed member must not report wasLast again")
	}
}

func TestBroadcastToExplicitRecipients(t *testing.T) {
	r := NewRegistry()
	aliceSink := make(Sink, 1)
	bobSink := make(Sink, 1)
	r.Connect("alice", aliceSink)
	r.Connect("bob", bobSink)
	r.Subscribe("match-1", "alice")
	r.Subscribe("match-1", "bob")

	r.Broadcast("match-1", []string{"bob"}, ServerMessage{Type: MsgSnapshot})

	select {
	case <-aliceSink:
		t.Fatalf("alice should not have received a message addressed only to bob")
	default:
	}
	if _, ok := <-bobSink; !ok {
		t.Fatalf("expected bob to receive the broadcast")
	}
}

func TestBroadcastToAllSubscribersWhenNoRecipients(t *testing.T) {
	r := NewRegistry()
	aliceSink := make(Sink, 1)
	bobSink := make(Sink, 1)
	r.Connect("alice", aliceSink)
	r.Connect("bob", bobSink)
	r.Subscribe("match-1", "alice")
	r.Subscribe("match-1", "bob")

	r.Broadcast("match-1", nil, ServerMessage{Type: MsgSnapshot})

	if _, ok := <-aliceSink; !ok {
		t.Fatalf("expected alice to receive the broadcast")
	}
	if _, ok := <-bobSink; !ok {
		t.Fatalf("expected bob to receive the broadcast")
	}
}
