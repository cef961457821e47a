package media

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryBackend keeps images in process memory. It is used when no media host
// is configured and serves the stored objects over HTTP.
type MemoryBackend struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	baseURL string
}

func NewMemoryBackend(baseURL string) *MemoryBackend {
	return &MemoryBackend{
		objects: make(map[string]memoryObject),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (b *MemoryBackend) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return b.baseURL + "/" + key, nil
}

func (b *MemoryBackend) Remove(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *MemoryBackend) Get(key string) ([]byte, string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	obj, ok := b.objects[key]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), obj.data...), obj.contentType, true
}

func (b *MemoryBackend) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.objects))
	for key := range b.objects {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// ServeHTTP serves an object by the request path, which must be the object key.
func (b *MemoryBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, contentType, ok := b.Get(strings.TrimLeft(r.URL.Path, "/"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}
