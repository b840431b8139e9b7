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

import "time"

// Example is an illustrative entity with two free text fields.
type Example struct {
	ID     int64  `json:"id"`
	Field1 string `json:"field1"`
	Field2 string `json:"field2"`
}

// User is a user of the identity provider.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// GroupMembers are the members of the "Users" subgroup of a company group.
type GroupMembers struct {
	Group   string `json:"group"`
	Members []User `json:"members"`
}

// Bucket is an object storage bucket.
type Bucket struct {
	Name         string    `json:"name"`
	CreationDate time.Time `json:"creationDate"`
}

// Object is an object inside a bucket.
type Object struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// Keyword is a vocabulary term suggestion.
type Keyword struct {
	Label string `json:"label"`
	URI   string `json:"uri"`
}
