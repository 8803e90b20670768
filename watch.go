package main

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultWatchDebounce = 300 * time.Millisecond

// fileWatcher 在设计文件变化后（去抖动）触发重新生成。
// 监听的是所在目录，以兼容编辑器的原子重命名保存。
type fileWatcher struct {
	watcher   *fsnotify.Watcher
	path      string
	debounce  time.Duration
	onChange  func() error
	onError   func(error)
	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
}

func newFileWatcher(path string, debounce time.Duration, onChange func() error, onError func(error)) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	return &fileWatcher{
		watcher:   w,
		path:      path,
		debounce:  debounce,
		onChange:  onChange,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

func (fw *fileWatcher) Start() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.running {
		return
	}
	fw.running = true
	go fw.loop()
}

// Stop 停止监听并等待事件循环退出。
func (fw *fileWatcher) Stop() {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		return
	}
	fw.running = false
	fw.mu.Unlock()
	close(fw.stopCh)
	<-fw.stoppedCh
}

func (fw *fileWatcher) matches(name string) bool {
	if filepath.Base(name) == filepath.Base(fw.path) {
		return true
	}
	a, _ := filepath.Abs(name)
	b, _ := filepath.Abs(fw.path)
	return a == b
}

func (fw *fileWatcher) loop() {
	defer close(fw.stoppedCh)
	defer fw.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-fw.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.matches(ev.Name) || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(fw.debounce)
			fire = timer.C
		case <-fire:
			timer, fire = nil, nil
			if err := fw.onChange(); err != nil && fw.onError != nil {
				fw.onError(err)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			if fw.onError != nil {
				fw.onError(err)
			}
		}
	}
}
