package storage

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestFSStoreRoundTrip(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if err := s.Write(ctx, "raw/raw_prices_20241010_080000.json", []byte(`{"records":[]}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := s.Read(ctx, "raw/raw_prices_20241010_080000.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, []byte(`{"records":[]}`)) {
		t.Fatalf("unexpected content: %s", got)
	}
}

func TestFSStoreReadMissing(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := s.Read(context.Background(), "silver/market_history.parquet"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFSStoreOverwrite(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if err := s.Write(ctx, "gold/table.parquet", []byte("v1")); err != nil {
		t.Fatalf("write v1: %v", err)
	}
	if err := s.Write(ctx, "gold/table.parquet", []byte("v2")); err != nil {
		t.Fatalf("write v2: %v", err)
	}
	got, err := s.Read(ctx, "gold/table.parquet")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "v2" {
		t.Fatalf("expected v2, got %s", got)
	}
}

func TestFSStoreListPrefix(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	keys := []string{
		"raw/raw_prices_20241011_080000.json",
		"raw/raw_prices_20241010_080000.json",
		"silver/market_history.parquet",
	}
	for _, k := range keys {
		if err := s.Write(ctx, k, []byte("x")); err != nil {
			t.Fatalf("write %s: %v", k, err)
		}
	}

	got, err := s.List(ctx, "raw/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{
		"raw/raw_prices_20241010_080000.json",
		"raw/raw_prices_20241011_080000.json",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
