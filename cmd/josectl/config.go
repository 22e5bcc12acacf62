// Copyright (c) 2025-present deep.rent GmbH (https://deep.rent)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"time"

	"github.com/deep-rent/joseid/config"
)

// IssuerConfig names the defaults josectl falls back to when a command's
// own flags are left unset. SkewSeconds is stored as an integer, not a
// time.Duration, so the same struct round-trips through both the JSON and
// YAML codecs without a custom marshaler.
type IssuerConfig struct {
	KeyFile     string   `json:"key_file" yaml:"key_file"`
	Issuer      string   `json:"issuer" yaml:"issuer"`
	Audience    []string `json:"audience" yaml:"audience"`
	SkewSeconds int64    `json:"skew_seconds" yaml:"skew_seconds"`
}

// Skew returns the configured clock-skew tolerance as a time.Duration.
func (c IssuerConfig) Skew() time.Duration {
	return time.Duration(c.SkewSeconds) * time.Second
}

// loadIssuerConfig reads path with config.Load, or returns an empty
// IssuerConfig if path is empty: the --config flag is optional, since
// every value it supplies can also be passed directly on the command line.
func loadIssuerConfig(path string) (*IssuerConfig, error) {
	if path == "" {
		return &IssuerConfig{}, nil
	}
	c := &IssuerConfig{}
	if err := config.Load(path, c); err != nil {
		return nil, err
	}
	return c, nil
}
