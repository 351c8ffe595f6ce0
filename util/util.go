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

package util

import (
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var (
	// Logging is a clumsy switch that affects what Logf does.
	//
	// If Logging is true, then Logf logs at Info level.
	Logging = false

	// Log is the shared logger.
	Log = commonlog.GetLogger("parsnip")
)

// Logf is a silly utility function that logs if Logging is true.
func Logf(format string, args ...interface{}) {
	if !Logging {
		return
	}
	Log.Infof(format, args...)
}

// ConfigureLogging sets the log verbosity and, if path isn't empty,
// sends the log to that file.
//
// A positive verbosity also turns on Logging.
func ConfigureLogging(verbosity int, path string) {
	if path == "" {
		commonlog.Configure(verbosity, nil)
	} else {
		commonlog.Configure(verbosity, &path)
	}
	if 0 < verbosity {
		Logging = true
	}
}
