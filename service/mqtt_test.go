/* Copyright 2024 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package service

import (
	"encoding/json"
	"testing"
	"time"
)

type published struct {
	topic   string
	qos     byte
	payload []byte
}

// publishing makes a publish function that reports what it's given
// on the returned channel.
func publishing(m *MQTT) chan published {
	pubs := make(chan published, 8)
	m.publish = func(topic string, qos byte, payload []byte) error {
		pubs <- published{topic, qos, payload}
		return nil
	}
	return pubs
}

func nextPublished(t *testing.T, pubs chan published) published {
	t.Helper()
	select {
	case p := <-pubs:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("nothing published")
	}
	return published{}
}

func TestMQTTHandle(t *testing.T) {
	ctx, s := newService(t, nil)

	m := NewMQTT(ctx, s, MQTTConf{
		Broker:       "tcp://localhost:1883",
		RequestTopic: "parsnip/in",
		ReplyTopic:   "parsnip/out:1",
	})
	pubs := publishing(m)

	m.handle(ctx, "parsnip/in", []byte(jsOp(t, &Op{Op: "define", Source: sumYAML})))
	m.handle(ctx, "parsnip/in", []byte(jsOp(t, &Op{Op: "parse", Grammar: "sum", Input: "5+5", ReplyTo: "me"})))

	p := nextPublished(t, pubs)
	if p.topic != "parsnip/out" || p.qos != 1 {
		t.Fatalf("%#v", p)
	}
	p = nextPublished(t, pubs)
	if p.topic != "me" || p.qos != 0 {
		t.Fatalf("%#v", p)
	}

	var r Response
	if err := json.Unmarshal(p.payload, &r); err != nil {
		t.Fatal(err)
	}
	if n, is := r.Value.(float64); !is || n != 10 {
		t.Fatalf("%#v", r)
	}
}

func TestMQTTHandleDoesNotWaitForPublish(t *testing.T) {
	ctx, s := newService(t, nil)

	m := NewMQTT(ctx, s, MQTTConf{
		Broker:     "tcp://localhost:1883",
		ReplyTopic: "parsnip/out:2",
	})

	// The broker never acknowledges until released.
	var (
		release = make(chan bool)
		pubs    = make(chan published, 8)
	)
	m.publish = func(topic string, qos byte, payload []byte) error {
		<-release
		pubs <- published{topic, qos, payload}
		return nil
	}

	handled := make(chan bool)
	go func() {
		for i := 0; i < 3; i++ {
			m.handle(ctx, "parsnip/in", []byte(`{"op":"list"}`))
		}
		close(handled)
	}()

	select {
	case <-handled:
	case <-time.After(5 * time.Second):
		t.Fatal("handler waited on the publisher")
	}

	close(release)
	for i := 0; i < 3; i++ {
		if p := nextPublished(t, pubs); p.topic != "parsnip/out" || p.qos != 2 {
			t.Fatalf("%#v", p)
		}
	}
}

func TestMQTTNoReplyTopic(t *testing.T) {
	ctx, s := newService(t, nil)

	m := NewMQTT(ctx, s, MQTTConf{
		Broker: "tcp://localhost:1883",
	})
	pubs := publishing(m)
	m.handle(ctx, "parsnip/in", []byte(`{"op":"list"}`))

	select {
	case p := <-pubs:
		t.Fatal("published to", p.topic)
	case <-time.After(100 * time.Millisecond):
	}
}

func jsOp(t *testing.T, o *Op) string {
	t.Helper()
	js, err := json.Marshal(o)
	if err != nil {
		t.Fatal(err)
	}
	return string(js)
}

func TestParseTopic(t *testing.T) {
	for _, c := range []struct {
		in    string
		topic string
		qos   byte
	}{
		{"a/b", "a/b", 0},
		{"a/b:1", "a/b", 1},
		{"a/b:2", "a/b", 2},
		{"", "", 0},
	} {
		topic, qos := parseTopic(c.in)
		if topic != c.topic || qos != c.qos {
			t.Fatalf("%q: %q %d", c.in, topic, qos)
		}
	}
}
