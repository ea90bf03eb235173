package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// core owns the outputs shared by a logger and everything derived from it
type core struct {
	config Config

	mu      sync.Mutex
	file    *os.File
	opened  time.Time
	size    int64
	writers []io.Writer
}

func newCore(config Config) (*core, error) {
	c := &core{config: config}

	if config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		if err := c.openFile(); err != nil {
			return nil, err
		}
		if c.needsRotation() {
			if err := c.rotate(); err != nil {
				return nil, err
			}
		}
	}

	c.resetWriters()
	return c, nil
}

func (c *core) openFile() error {
	file, err := os.OpenFile(c.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	c.file = file
	c.size = info.Size()
	c.opened = info.ModTime()
	if c.size == 0 {
		c.opened = time.Now()
	}
	return nil
}

func (c *core) resetWriters() {
	c.writers = c.writers[:0]
	if c.file != nil {
		c.writers = append(c.writers, c.file)
	}
	if c.config.Console {
		c.writers = append(c.writers, os.Stderr)
	}
	if c.config.Output != nil {
		c.writers = append(c.writers, c.config.Output)
	}
}

func (c *core) write(entry []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.needsRotation() {
		_ = c.rotate()
	}

	for _, w := range c.writers {
		_, _ = w.Write(entry)
	}
	c.size += int64(len(entry))
}

// needsRotation checks size and age against the limits. Callers hold c.mu or
// own c exclusively.
func (c *core) needsRotation() bool {
	if c.file == nil {
		return false
	}
	if c.config.MaxSize > 0 && c.size >= c.config.MaxSize {
		return true
	}
	maxAge := time.Duration(c.config.MaxAge) * 24 * time.Hour
	return c.config.MaxAge > 0 && c.size > 0 && time.Since(c.opened) > maxAge
}

// rotate shifts name.N to name.N+1, moves the live file to name.1 and reopens
// it. The oldest backup beyond MaxBackups is overwritten.
func (c *core) rotate() error {
	if c.file != nil {
		c.file.Close()
		c.file = nil
	}

	path := c.config.FilePath
	for i := c.config.MaxBackups - 1; i >= 1; i-- {
		_ = os.Rename(fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("%s.%d", path, i+1))
	}
	if c.config.MaxBackups > 0 {
		if err := os.Rename(path, path+".1"); err != nil && !os.IsNotExist(err) {
			return err
		}
	} else if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	if err := c.openFile(); err != nil {
		return err
	}
	c.resetWriters()
	return nil
}

func (c *core) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	c.resetWriters()
	return err
}
