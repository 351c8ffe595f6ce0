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
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Comcast/parsnip/util"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConf configures an MQTT coupling.
type MQTTConf struct {
	// Broker is something like "tcp://localhost:1883".
	Broker   string
	ClientId string
	Username string
	Password string

	// KeepAlive in seconds.
	KeepAlive int

	// RequestTopic (TOPIC or TOPIC:QOS) carries Ops.
	RequestTopic string

	// ReplyTopic (TOPIC or TOPIC:QOS) gets Responses unless an
	// Op has a ReplyTo.
	ReplyTopic string

	// Quiesce is the disconnection quiescence in milliseconds.
	Quiesce uint
}

// PublishTimeout limits how long a reply publication waits for the
// broker.
var PublishTimeout = 10 * time.Second

// MQTT couples a Service to an MQTT broker: Ops arrive on a request
// topic, and Responses are published to a reply topic.
//
// Responses are published by a separate goroutine so that the
// client's message handler never waits on the broker.
type MQTT struct {
	Conf   MQTTConf
	Client mqtt.Client

	s        *Service
	publish  func(topic string, qos byte, payload []byte) error
	outbound chan *reply
}

type reply struct {
	topic   string
	qos     byte
	payload []byte
}

// NewMQTT makes an MQTT coupling.  Call Start to connect.
//
// Responses are published until ctx is done.
func NewMQTT(ctx context.Context, s *Service, conf MQTTConf) *MQTT {
	m := &MQTT{
		Conf:     conf,
		s:        s,
		outbound: make(chan *reply, 64),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(conf.Broker)
	opts.SetClientID(conf.ClientId)
	if 0 < conf.KeepAlive {
		opts.SetKeepAlive(time.Second * time.Duration(conf.KeepAlive))
	}
	opts.SetPingTimeout(10 * time.Second)
	opts.Username = conf.Username
	opts.Password = conf.Password
	opts.AutoReconnect = true
	opts.CleanSession = true

	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		util.Log.Warningf("MQTT connection lost: %v", err)
	}

	opts.DefaultPublishHandler = func(client mqtt.Client, msg mqtt.Message) {
		m.handle(ctx, msg.Topic(), msg.Payload())
	}

	m.Client = mqtt.NewClient(opts)
	m.publish = m.clientPublish

	go m.outLoop(ctx)

	return m
}

func (m *MQTT) clientPublish(topic string, qos byte, payload []byte) error {
	token := m.Client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(PublishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// outLoop publishes the replies that handle queues.
func (m *MQTT) outLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-m.outbound:
			if err := m.publish(r.topic, r.qos, r.payload); err != nil {
				util.Log.Warningf("MQTT publish error: %v", err)
				continue
			}
			util.Logf("MQTT published to %s", r.topic)
		}
	}
}

// handle does the Op in the payload and queues the Response for
// publication.
func (m *MQTT) handle(ctx context.Context, topic string, payload []byte) {
	util.Logf("MQTT incoming %s %s", topic, payload)

	r := m.s.process(ctx, payload)

	to := m.Conf.ReplyTopic
	var o struct {
		ReplyTo string `json:"replyTo"`
	}
	if err := json.Unmarshal(payload, &o); err == nil && o.ReplyTo != "" {
		to = o.ReplyTo
	}
	if to == "" {
		util.Log.Warningf("MQTT no reply topic for op from %s", topic)
		return
	}

	js, err := json.Marshal(r)
	if err != nil {
		util.Log.Warningf("MQTT can't marshal response: %v", err)
		return
	}

	to, qos := parseTopic(to)
	select {
	case <-ctx.Done():
		util.Log.Warningf("MQTT dropped response to %s", to)
	case m.outbound <- &reply{to, qos, js}:
	}
}

// Start connects to the broker and subscribes to the request topic.
func (m *MQTT) Start(ctx context.Context) error {
	util.Logf("MQTT connecting to %s", m.Conf.Broker)
	if token := m.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}

	topic, qos := parseTopic(m.Conf.RequestTopic)
	if topic == "" {
		return fmt.Errorf("no request topic")
	}
	if t := m.Client.Subscribe(topic, qos, nil); t.Wait() && t.Error() != nil {
		return t.Error()
	}
	util.Logf("MQTT subscribed to %s (%d)", topic, qos)

	return nil
}

// Stop disconnects from the broker.
func (m *MQTT) Stop(ctx context.Context) error {
	util.Logf("MQTT disconnecting")
	m.Client.Disconnect(m.Conf.Quiesce)
	return nil
}

// parseTopic can extract QoS from a topic name of the form TOPIC:QOS.
func parseTopic(s string) (string, byte) {
	var topic string
	var qos byte
	if _, err := fmt.Sscanf(strings.Replace(s, ":", " ", 1), "%s %d", &topic, &qos); err == nil {
		return topic, qos
	}
	return s, 0
}
