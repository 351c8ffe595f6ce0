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
	"bufio"
	"context"
	"io"
	"strings"
)

// Stdio reads one JSON Op per line from in and writes one JSON
// Response per line to out.
//
// Blank lines and lines starting with '#' are ignored.  The line
// "quit" or EOF ends the loop.
func (s *Service) Stdio(ctx context.Context, in io.Reader, out io.Writer) error {
	r := bufio.NewReader(in)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		eof := err == io.EOF

		line = strings.TrimSpace(line)
		switch {
		case line == "quit":
			return nil
		case line == "" || strings.HasPrefix(line, "#"):
		default:
			js := s.Process(ctx, []byte(line))
			if _, err := out.Write(append(js, '\n')); err != nil {
				return err
			}
		}

		if eof {
			return nil
		}
	}
}
