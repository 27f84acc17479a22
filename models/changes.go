// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
)

// Bucket identifies one part of the three-way partition of a change set.
type Bucket int

const (
	// BucketCreated holds records created after the watermark.
	BucketCreated Bucket = iota
	// BucketUpdated holds records created at or before the watermark and
	// updated after it.
	BucketUpdated
	// BucketDeleted holds records tombstoned after the watermark.
	BucketDeleted
)

// String returns the wire name of the bucket.
func (b Bucket) String() string {
	switch b {
	case BucketCreated:
		return "created"
	case BucketUpdated:
		return "updated"
	case BucketDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Buckets lists every bucket in the order they are applied on push.
var Buckets = []Bucket{BucketCreated, BucketUpdated, BucketDeleted}

// TableChanges is the change set of a single entity type.
//
// Created and Updated carry full records; Deleted carries only the
// identifiers of tombstoned records. A record never appears in more than one
// bucket of the same change set.
type TableChanges struct {
	Created []Record `json:"created"`
	Updated []Record `json:"updated"`
	Deleted []string `json:"deleted"`
}

// NewTableChanges returns a TableChanges with non-nil empty buckets so that
// it serializes as empty JSON arrays rather than null.
func NewTableChanges() TableChanges {
	return TableChanges{
		Created: make([]Record, 0),
		Updated: make([]Record, 0),
		Deleted: make([]string, 0),
	}
}

// Len returns the total number of entries across all buckets.
func (t TableChanges) Len() int {
	return len(t.Created) + len(t.Updated) + len(t.Deleted)
}

// IsEmpty reports whether the change set has no entries at all.
func (t TableChanges) IsEmpty() bool {
	return t.Len() == 0
}

// Changes maps entity type (table name) to its change set.
type Changes map[string]TableChanges

// Len returns the total number of entries across all tables.
func (c Changes) Len() int {
	total := 0
	for _, t := range c {
		total += t.Len()
	}
	return total
}

// DecodeChanges decodes a push body. Numbers are kept as [json.Number] so
// that epoch milliseconds survive without float rounding.
func DecodeChanges(raw []byte) (Changes, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var changes Changes
	if err := dec.Decode(&changes); err != nil {
		return nil, err
	}
	return changes, nil
}
