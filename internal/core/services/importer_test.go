package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/ports"
	"github.com/lokarni/lokarni-cli/internal/core/ports/mocks"
)

func newImporter(backend *mocks.MockBackend) *Importer {
	return NewImporter(backend, backend, backend, zap.NewNop().Sugar())
}

func TestImporter_QueueCap(t *testing.T) {
	backend := mocks.NewMockBackend()
	im := newImporter(backend)
	ctx := context.Background()

	for i := 0; i < MaxQueue; i++ {
		if err := im.AddFile(ctx, fmt.Sprintf("/tmp/img-%d.png", i)); err != nil {
			t.Fatalf("AddFile(%d) error = %v", i, err)
		}
	}
	if err := im.AddFile(ctx, "/tmp/overflow.png"); !errors.Is(err, ErrQueueFull) {
		t.Errorf("AddFile() past cap error = %v, want ErrQueueFull", err)
	}
	if got := len(im.Queue()); got != MaxQueue {
		t.Errorf("queue length = %d, want %d", got, MaxQueue)
	}
}

func TestImporter_ExtractionFailureStillQueues(t *testing.T) {
	backend := mocks.NewMockBackend()
	backend.Fail("ExtractImage", fmt.Errorf("no metadata chunk"))
	im := newImporter(backend)

	if err := im.AddFile(context.Background(), "/tmp/plain.png"); err != nil {
		t.Fatalf("AddFile() error = %v", err)
	}
	q := im.Queue()
	if len(q) != 1 || q[0].Meta.PositivePrompt != "" {
		t.Errorf("queue = %+v, want one item with empty metadata", q)
	}
}

func TestImporter_RunCreatesAssetsFromMeta(t *testing.T) {
	backend := mocks.NewMockBackend()
	backend.Extracted = domain.ExtractedMeta{
		PositivePrompt: "a castle at dusk",
		ModelName:      "DreamShaper",
		BaseModel:      "SDXL",
	}
	im := newImporter(backend)
	ctx := context.Background()

	if err := im.AddFile(ctx, "/tmp/castle.png"); err != nil {
		t.Fatalf("AddFile() error = %v", err)
	}
	done, failed := im.Run(ctx, "Images")
	if done != 1 || failed != 0 {
		t.Fatalf("Run() = %d,%d, want 1,0", done, failed)
	}

	q := im.Queue()
	if q[0].State != domain.UploadDone || q[0].AssetID == 0 {
		t.Fatalf("queue item after run = %+v", q[0])
	}
	created, err := backend.Get(ctx, q[0].AssetID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if created.Name != "DreamShaper" || created.PositivePrompt != "a castle at dusk" {
		t.Errorf("created asset = %+v, want metadata prefill", created)
	}
	if len(created.MediaFiles) != 1 || created.PreviewImage != created.MediaFiles[0] {
		t.Errorf("created media = %v preview %q", created.MediaFiles, created.PreviewImage)
	}
}

func TestImporter_RunKeepsGoingAfterFailure(t *testing.T) {
	backend := mocks.NewMockBackend()
	im := newImporter(backend)
	ctx := context.Background()

	if err := im.AddFile(ctx, "/tmp/a.png"); err != nil {
		t.Fatal(err)
	}
	if err := im.AddURL(ctx, "https://example.com/b.png"); err != nil {
		t.Fatal(err)
	}
	backend.Fail("UploadFile", fmt.Errorf("disk full"))

	done, failed := im.Run(ctx, "Images")
	if done != 1 || failed != 1 {
		t.Fatalf("Run() = %d,%d, want 1,1", done, failed)
	}
	q := im.Queue()
	if q[0].State != domain.UploadFailed || q[0].Err == "" {
		t.Errorf("failed item = %+v", q[0])
	}
	if q[1].State != domain.UploadDone {
		t.Errorf("second item = %+v, want done", q[1])
	}

	// A rerun only touches pending items, so nothing changes.
	done, failed = im.Run(ctx, "Images")
	if done != 0 || failed != 0 {
		t.Errorf("rerun = %d,%d, want 0,0", done, failed)
	}
}

func TestImporter_FallbackNameFromFile(t *testing.T) {
	backend := mocks.NewMockBackend()
	im := newImporter(backend)
	ctx := context.Background()

	if err := im.AddFile(ctx, "/tmp/sunset-beach.png"); err != nil {
		t.Fatal(err)
	}
	if done, _ := im.Run(ctx, "Images"); done != 1 {
		t.Fatal("Run() failed")
	}
	created, _ := backend.Get(ctx, im.Queue()[0].AssetID)
	if created.Name != "sunset-beach" {
		t.Errorf("fallback name = %q, want sunset-beach", created.Name)
	}
}

func TestImporter_CivitaiSearch(t *testing.T) {
	backend := mocks.NewMockBackend()
	backend.SearchHits = []ports.CivitaiModel{{ID: 42, Name: "Epic Realism", Type: "Checkpoint"}}
	im := newImporter(backend)

	hits, err := im.Search(context.Background(), ports.CivitaiSearchRequest{Query: "realism"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 || hits[0].ID != 42 {
		t.Errorf("Search() = %v", hits)
	}
}

func TestHub_CoalescesSignals(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe()

	hub.Notify()
	hub.Notify() // second signal coalesces into the buffered slot

	<-ch
	select {
	case <-ch:
		t.Error("hub delivered a second signal, want coalesced")
	default:
	}
}

func TestImporter_OverlappingRunsImportEachItemOnce(t *testing.T) {
	backend := mocks.NewMockBackend()
	im := newImporter(backend)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := im.AddFile(ctx, fmt.Sprintf("/tmp/batch-%d.png", i)); err != nil {
			t.Fatalf("AddFile(%d) error = %v", i, err)
		}
	}

	// A debounce flush and a queue-full flush can overlap; items must be
	// claimed by exactly one of the two runs.
	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			done, failed := im.Run(ctx, "Images")
			mu.Lock()
			total += done + failed
			mu.Unlock()
		}()
	}
	wg.Wait()

	if total != 4 {
		t.Errorf("items processed across runs = %d, want 4", total)
	}
	uploads := 0
	for _, call := range backend.Calls {
		if strings.HasPrefix(call, "UploadFile(") {
			uploads++
		}
	}
	if uploads != 4 {
		t.Errorf("uploads = %d, want one per queued file", uploads)
	}
	for _, item := range im.Queue() {
		if item.State != domain.UploadDone {
			t.Errorf("item %s state = %v, want done", item.Source(), item.State)
		}
	}
}
