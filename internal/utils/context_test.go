// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"
)

func TestContextKeyString(t *testing.T) {
	key := contextKey("testKey")
	if key.String() != "testKey" {
		t.Errorf("expected 'testKey', got '%s'", key.String())
	}
}

func TestGetOwnerIDFromContext_Success(t *testing.T) {
	ctx := WithOwnerID(context.Background(), "owner-42")

	ownerID, ok := GetOwnerIDFromContext(ctx)

	if !ok {
		t.Fatal("expected ok=true, got false")
	}
	if ownerID != "owner-42" {
		t.Errorf("expected owner-42, got %q", ownerID)
	}
}

func TestGetOwnerIDFromContext_Missing(t *testing.T) {
	if _, ok := GetOwnerIDFromContext(context.Background()); ok {
		t.Error("expected ok=false for empty context")
	}
}

func TestGetOwnerIDFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), OwnerIDCtxKey, int64(42))

	if _, ok := GetOwnerIDFromContext(ctx); ok {
		t.Error("expected ok=false for non-string value")
	}
}

func TestGetOwnerIDFromContext_Empty(t *testing.T) {
	if _, ok := GetOwnerIDFromContext(WithOwnerID(context.Background(), "")); ok {
		t.Error("expected ok=false for empty owner id")
	}
}
