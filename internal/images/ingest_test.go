package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"
)

// slowReader returns its payload after a delay, so read completion order
// differs from selection order.
func slowReader(payload string, delay time.Duration) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		time.Sleep(delay)
		return io.NopCloser(bytes.NewReader([]byte(payload))), nil
	}
}

func TestIngestPreservesSelectionOrder(t *testing.T) {
	// The first file finishes last; the committed batch must still be in
	// selection order.
	files := []File{
		{Name: "a.png", MIMEType: "image/png", Open: slowReader("payload-a", 60*time.Millisecond)},
		{Name: "b.png", MIMEType: "image/png", Open: slowReader("payload-b", 20*time.Millisecond)},
		{Name: "c.png", MIMEType: "image/png", Open: slowReader("payload-c", 1*time.Millisecond)},
	}

	got, err := Ingest(context.Background(), files, 3)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("Ingest() returned %d images, want 3", len(got))
	}
	for i, want := range []string{"a.png", "b.png", "c.png"} {
		if got[i].Name != want {
			t.Errorf("image[%d].Name = %v, want %v", i, got[i].Name, want)
		}
		wantPayload := fmt.Sprintf("payload-%c", 'a'+i)
		if string(got[i].Data) != wantPayload {
			t.Errorf("image[%d].Data = %q, want %q", i, got[i].Data, wantPayload)
		}
	}
}

func TestIngestFailsBatchOnReadError(t *testing.T) {
	files := []File{
		{Name: "ok.png", Open: slowReader("fine", 0)},
		{Name: "broken.png", Open: func() (io.ReadCloser, error) {
			return nil, errors.New("permission denied")
		}},
	}

	got, err := Ingest(context.Background(), files, 2)
	if err == nil {
		t.Fatal("Ingest() should fail when any read fails")
	}
	if got != nil {
		t.Error("Ingest() must not commit a partial batch")
	}
}

func TestIngestEmptySelection(t *testing.T) {
	got, err := Ingest(context.Background(), nil, 2)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if got != nil {
		t.Errorf("Ingest() = %v, want nil", got)
	}
}
