package classifier

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the classifier's keyword tables whenever the rules file
// changes on disk. It blocks until the context is cancelled. A rules file
// that fails to parse is skipped; the previous tables stay active.
func Watch(ctx context.Context, c *Classifier, rulesPath string, onErr func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create rules watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace files rather than writing in
	// place, which would drop a watch on the file itself.
	if err := watcher.Add(filepath.Dir(rulesPath)); err != nil {
		return fmt.Errorf("watch rules directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(rulesPath) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			kw, err := LoadKeywords(rulesPath)
			if err != nil {
				if onErr != nil {
					onErr(err)
				}
				continue
			}
			c.SetKeywords(kw)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onErr != nil {
				onErr(err)
			}
		}
	}
}
