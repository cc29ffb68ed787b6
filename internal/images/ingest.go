package images

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// File is one selected file pending ingestion.
type File struct {
	Name     string
	MIMEType string
	Open     func() (io.ReadCloser, error)
}

// Ingest reads the selected files concurrently and returns them as a
// single batch. Reads complete in arbitrary order, but the returned
// slice always matches the original selection order: each read writes
// into its own slot and the batch is committed only after every read
// has finished. Any failed read fails the whole batch.
func Ingest(ctx context.Context, files []File, maxConcurrent int) ([]UploadedImage, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	results := make([]UploadedImage, len(files))
	errs := make([]error, len(files))
	sem := make(chan struct{}, maxConcurrent)

	var wg sync.WaitGroup
	for i, f := range files {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		}

		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()
			defer func() { <-sem }()

			rc, err := f.Open()
			if err != nil {
				errs[i] = fmt.Errorf("open %s: %w", f.Name, err)
				return
			}
			defer rc.Close()

			data, err := io.ReadAll(rc)
			if err != nil {
				errs[i] = fmt.Errorf("read %s: %w", f.Name, err)
				return
			}

			results[i] = UploadedImage{
				Name:     f.Name,
				MIMEType: f.MIMEType,
				Data:     data,
			}
		}(i, f)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
