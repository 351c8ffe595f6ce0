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

// Package main is a grammar service.
//
// The service keeps named grammars (stored in BoltDB) and parses
// input with them.  Requests can arrive via stdio, WebSockets, and
// MQTT.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/Comcast/parsnip/interpreters"
	"github.com/Comcast/parsnip/interpreters/goja"
	"github.com/Comcast/parsnip/service"
	"github.com/Comcast/parsnip/storage"
	"github.com/Comcast/parsnip/storage/bolt"
	"github.com/Comcast/parsnip/util"

	"github.com/spf13/cobra"
)

type config struct {
	verbosity int
	logFile   string
	timeout   time.Duration

	db     string
	json   string
	debug  bool
	stdio  bool
	wsAddr string

	mqtt service.MQTTConf
}

func newRootCmd() *cobra.Command {
	c := &config{}

	cmd := &cobra.Command{
		Use:          "pservice",
		Short:        "Serve grammars via stdio, WebSockets, and MQTT",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			util.ConfigureLogging(c.verbosity, c.logFile)
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			return serve(ctx, c, cmd)
		},
	}

	flags := cmd.Flags()
	flags.CountVarP(&c.verbosity, "verbose", "v", "log verbosity (repeatable)")
	flags.StringVar(&c.logFile, "log", "", "log file (default stderr)")
	flags.DurationVar(&c.timeout, "timeout", time.Second, "limit for a single action's execution")

	flags.StringVar(&c.db, "db", "", "BoltDB filename for grammars (default is memory only)")
	flags.StringVar(&c.json, "json-store", "", "JSON filename for grammars (an alternative to --db)")
	flags.BoolVar(&c.debug, "db-debug", false, "log storage operations")
	flags.BoolVar(&c.stdio, "stdio", false, "serve ops on stdin/stdout")
	flags.StringVar(&c.wsAddr, "ws", "", "WebSocket listen address (like ':8080')")

	flags.StringVar(&c.mqtt.Broker, "mqtt-broker", "", "MQTT broker (like 'tcp://localhost:1883')")
	flags.StringVar(&c.mqtt.ClientId, "mqtt-client-id", "pservice", "MQTT client id")
	flags.StringVar(&c.mqtt.Username, "mqtt-user", "", "MQTT username")
	flags.StringVar(&c.mqtt.Password, "mqtt-password", "", "MQTT password")
	flags.IntVar(&c.mqtt.KeepAlive, "mqtt-keep-alive", 60, "MQTT keep-alive in seconds")
	flags.StringVar(&c.mqtt.RequestTopic, "mqtt-in", "parsnip/ops", "MQTT request topic (TOPIC or TOPIC:QOS)")
	flags.StringVar(&c.mqtt.ReplyTopic, "mqtt-out", "parsnip/responses", "MQTT default reply topic (TOPIC or TOPIC:QOS)")
	flags.UintVar(&c.mqtt.Quiesce, "mqtt-quiesce", 100, "MQTT disconnection quiescence in milliseconds")

	return cmd
}

func serve(ctx context.Context, c *config, cmd *cobra.Command) error {
	if !c.stdio && c.wsAddr == "" && c.mqtt.Broker == "" {
		return fmt.Errorf("need at least one of --stdio, --ws, or --mqtt-broker")
	}

	is := interpreters.Standard()
	if js, ok := is["goja"].(*goja.Interpreter); ok {
		js.Timeout = c.timeout
	}

	var st storage.Storage
	switch {
	case c.db != "" && c.json != "":
		return fmt.Errorf("can't use both --db and --json-store")
	case c.json != "":
		js := storage.NewJSONStore(c.json)
		js.WritePerChange = true
		st = js
	case c.db != "":
		bs, err := bolt.NewStorage(c.db)
		if err != nil {
			return err
		}
		bs.Debug = c.debug
		st = bs
	}

	s := service.NewService(is, st)
	if err := s.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := s.Stop(context.Background()); err != nil {
			util.Log.Warningf("service stop: %v", err)
		}
	}()

	util.Log.Infof("pservice has %d grammars", len(s.List()))

	if c.mqtt.Broker != "" {
		m := service.NewMQTT(ctx, s, c.mqtt)
		if err := m.Start(ctx); err != nil {
			return err
		}
		defer m.Stop(context.Background())
	}

	var couplings []func() error

	if c.wsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/ws", s.WebSocketHandler(ctx))
		srv := &http.Server{
			Addr:    c.wsAddr,
			Handler: mux,
		}
		couplings = append(couplings, func() error {
			util.Log.Infof("pservice WebSockets at %s/ws", c.wsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		defer srv.Shutdown(context.Background())
	}

	if c.stdio {
		couplings = append(couplings, func() error {
			return s.Stdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	}

	return runCouplings(ctx, couplings...)
}

// runCouplings runs each coupling in its own goroutine and returns
// when the first one finishes or when ctx is done.
//
// The couplings that finish later don't block.
func runCouplings(ctx context.Context, couplings ...func() error) error {
	errs := make(chan error, len(couplings))
	for _, f := range couplings {
		go func(f func() error) {
			errs <- f()
		}(f)
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errs:
		return err
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
