package app

import (
	"context"
	"encoding/json"
	"errors"

	"course_find/internal/extract"
	"course_find/internal/search"
)

// RunWorker 只输出 JSON Lines（每行一条 filename/pagenumber/bookchapterurl/contextsnippet 记录），
// 不打印 banner / progress，便于其他进程消费。
func RunWorker(ctx context.Context, opts CLIOptions) error {
	cfg := opts.searchConfig()
	if len(cfg.Roots) == 0 {
		return errors.New("roots 为空")
	}

	res, err := search.Run(ctx, cfg, nil)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(opts.out())
	enc.SetEscapeHTML(false)
	for _, rec := range res.Records() {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// RunPages dumps the extracted pages of one file as JSON Lines.
func RunPages(ctx context.Context, path string, opts CLIOptions) error {
	pages, err := extract.FilePages(ctx, path, extract.Options{MaxFileBytes: opts.MaxFileBytes})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(opts.out())
	enc.SetEscapeHTML(false)
	for _, p := range pages {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}
