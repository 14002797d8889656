// Package catalog loads the model catalog: an ordered list of display
// names mapped to model files.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Record is one catalog entry.
type Record struct {
	Name string `json:"name"`
	File string `json:"file"`
}

// fetchTimeout bounds HTTP catalog fetches when the caller's context has
// no deadline of its own.
const fetchTimeout = 10 * time.Second

// Load reads a catalog from a local path or an http(s) URL. Entries keep
// their source order. Any failure, including unreachable sources and
// malformed JSON, is returned to the caller; there is no partial result.
func Load(ctx context.Context, source string) ([]Record, error) {
	var data []byte
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(ctx, source)
	} else if err = ctx.Err(); err == nil {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", source, err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", source, err)
	}

	return records, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
