// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/tickerflow/internal/models"
)

type fakeSink struct {
	appended []*models.Event
	nextID   int64
	err      error
}

func (f *fakeSink) AppendEvent(_ context.Context, event *models.Event) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	event.ID = f.nextID
	f.appended = append(f.appended, event)
	return nil
}

type fakePublisher struct {
	published []*models.Event
	err       error
}

func (f *fakePublisher) PublishEvent(_ context.Context, event *models.Event) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func TestRecorder_AppendsThenPublishes(t *testing.T) {
	sink := &fakeSink{}
	pub := &fakePublisher{}
	recorder := NewRecorder(sink, pub)

	event := testEvent(t, 0)
	if err := recorder.AppendEvent(context.Background(), event); err != nil {
		t.Fatalf("AppendEvent() failed: %v", err)
	}

	if len(sink.appended) != 1 {
		t.Fatalf("appended = %d, want 1", len(sink.appended))
	}
	if len(pub.published) != 1 {
		t.Fatalf("published = %d, want 1", len(pub.published))
	}
	if pub.published[0].ID != 1 {
		t.Errorf("published event id = %d, want the store-assigned 1", pub.published[0].ID)
	}
}

func TestRecorder_StoreFailureSkipsPublish(t *testing.T) {
	boom := errors.New("store down")
	sink := &fakeSink{err: boom}
	pub := &fakePublisher{}
	recorder := NewRecorder(sink, pub)

	err := recorder.AppendEvent(context.Background(), testEvent(t, 0))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if len(pub.published) != 0 {
		t.Error("publish happened despite store failure")
	}
}

func TestRecorder_PublishFailureDoesNotFailAppend(t *testing.T) {
	sink := &fakeSink{}
	pub := &fakePublisher{err: errors.New("bus wedged")}
	recorder := NewRecorder(sink, pub)

	if err := recorder.AppendEvent(context.Background(), testEvent(t, 0)); err != nil {
		t.Fatalf("AppendEvent() failed on publish error: %v", err)
	}
	if len(sink.appended) != 1 {
		t.Error("event was not stored")
	}
}

func TestRecorder_NilBusIsStoreOnly(t *testing.T) {
	sink := &fakeSink{}
	recorder := NewRecorder(sink, nil)

	if err := recorder.AppendEvent(context.Background(), testEvent(t, 0)); err != nil {
		t.Fatalf("AppendEvent() failed: %v", err)
	}
	if len(sink.appended) != 1 {
		t.Error("event was not stored")
	}
}
