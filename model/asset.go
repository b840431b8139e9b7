// Copyright 2024 go-dataspace
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Asset is the local record of an asset published to the connector.
type Asset struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Bucket     string `json:"bucket"`
	AssetID    string `json:"assetId"`
	PolicyID   string `json:"policyId"`
	ContractID string `json:"contractId"`
}

// AssetDescriptor describes the data asset that is to be published.
type AssetDescriptor struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Description string   `json:"description"`
	ContentType string   `json:"contenttype"`
	Version     string   `json:"version"`
	Keywords    []string `json:"keywords"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	DateFrom    *Date    `json:"dateFrom,omitempty"`
	DateTo      *Date    `json:"dateTo,omitempty"`
	KeyName     string   `json:"keyName"`
}

// HasCoordinates returns true if both latitude and longitude are set.
func (d AssetDescriptor) HasCoordinates() bool {
	return d.Latitude != nil && d.Longitude != nil
}

const dateFormat = "2006-01-02"

// Date is a calendar date that is encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate returns the date for the given day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateFormat)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		// Front ends sometimes send full timestamps.
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", s, err)
		}
	}
	d.Time = t.UTC()
	return nil
}
