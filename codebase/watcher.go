package codebase

import (
	"os"
	"time"
)

// FileWatcher polls the codebase root for added, changed and removed
// sources and hands what changed to onChange.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	onChange     func(changed, removed []string)
}

func NewFileWatcher(c *Codebase, onChange func(changed, removed []string)) *FileWatcher {
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
		onChange:     onChange,
	}
}

// SetInterval changes the poll interval. It must be called before Start.
func (w *FileWatcher) SetInterval(d time.Duration) {
	w.pollInterval = d
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *FileWatcher) scan() {
	paths, err := w.codebase.Sources()
	if err != nil {
		log.Errorf("watch %s: %s", w.codebase.RootDir(), err)
		return
	}

	current := make(map[string]bool, len(paths))
	var changed, removed []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		current[path] = true

		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			if err := w.codebase.ScanFile(path); err != nil {
				log.Warningf("%s", err)
				continue
			}
			changed = append(changed, path)
		}
	}

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			removed = append(removed, path)
		}
	}

	if w.onChange != nil && (len(changed) > 0 || len(removed) > 0) {
		w.onChange(changed, removed)
	}
}
