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
	"net/http"

	"github.com/Comcast/parsnip/util"

	"github.com/gorilla/websocket"
)

// WebSocketHandler returns an HTTP handler that upgrades the
// connection to a WebSocket.  Each message is an Op, and each Op gets
// a Response message.
func (s *Service) WebSocketHandler(ctx context.Context) http.HandlerFunc {
	var upgrader = websocket.Upgrader{} // use default options

	return func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			util.Log.Warningf("WebSocket upgrade error: %v", err)
			return
		}
		defer c.Close()

		util.Logf("WebSocket connection from %s", r.RemoteAddr)

		for {
			mt, message, err := c.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					util.Log.Warningf("WebSocket read error: %v", err)
				}
				return
			}

			select {
			case <-ctx.Done():
				return
			default:
			}

			js := s.Process(ctx, message)
			if err = c.WriteMessage(mt, js); err != nil {
				util.Log.Warningf("WebSocket write error: %v", err)
				return
			}
		}
	}
}
