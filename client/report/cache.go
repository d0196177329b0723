// Package report caches report data (tasks and datasets) fetched for the
// current user. The cache is purged when the session logs out.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/viant/caseflow/schema"
)

const DefaultSize = 128

// Source fetches report data
type Source interface {
	Tasks(ctx context.Context) ([]*schema.Task, error)
	Task(ctx context.Context, slug string) (*schema.Task, error)
	Dataset(ctx context.Context, name string) (json.RawMessage, error)
	Report(ctx context.Context, name string) (json.RawMessage, error)
}

// Cache is a read-through LRU cache over Source
type Cache struct {
	source Source
	tasks  *lru.Cache[string, []*schema.Task]
	task   *lru.Cache[string, *schema.Task]
	data   *lru.Cache[string, json.RawMessage]
	report *lru.Cache[string, json.RawMessage]
}

const tasksKey = "tasks"

func New(source Source, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	ret := &Cache{source: source}
	var err error
	if ret.tasks, err = lru.New[string, []*schema.Task](1); err != nil {
		return nil, fmt.Errorf("failed to create tasks cache: %w", err)
	}
	if ret.task, err = lru.New[string, *schema.Task](size); err != nil {
		return nil, fmt.Errorf("failed to create task cache: %w", err)
	}
	if ret.data, err = lru.New[string, json.RawMessage](size); err != nil {
		return nil, fmt.Errorf("failed to create dataset cache: %w", err)
	}
	if ret.report, err = lru.New[string, json.RawMessage](size); err != nil {
		return nil, fmt.Errorf("failed to create report cache: %w", err)
	}
	return ret, nil
}

// Tasks returns cached task list
func (c *Cache) Tasks(ctx context.Context) ([]*schema.Task, error) {
	if tasks, ok := c.tasks.Get(tasksKey); ok {
		return tasks, nil
	}
	tasks, err := c.source.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	c.tasks.Add(tasksKey, tasks)
	return tasks, nil
}

// Task returns cached task
func (c *Cache) Task(ctx context.Context, slug string) (*schema.Task, error) {
	if task, ok := c.task.Get(slug); ok {
		return task, nil
	}
	task, err := c.source.Task(ctx, slug)
	if err != nil {
		return nil, err
	}
	c.task.Add(slug, task)
	return task, nil
}

// Dataset returns cached dataset
func (c *Cache) Dataset(ctx context.Context, name string) (json.RawMessage, error) {
	if data, ok := c.data.Get(name); ok {
		return data, nil
	}
	data, err := c.source.Dataset(ctx, name)
	if err != nil {
		return nil, err
	}
	c.data.Add(name, data)
	return data, nil
}

// Report returns cached study report
func (c *Cache) Report(ctx context.Context, name string) (json.RawMessage, error) {
	if report, ok := c.report.Get(name); ok {
		return report, nil
	}
	report, err := c.source.Report(ctx, name)
	if err != nil {
		return nil, err
	}
	c.report.Add(name, report)
	return report, nil
}

// Len returns number of cached entries
func (c *Cache) Len() int {
	return c.tasks.Len() + c.task.Len() + c.data.Len() + c.report.Len()
}

// Invalidate purges every cached entry
func (c *Cache) Invalidate() {
	c.tasks.Purge()
	c.task.Purge()
	c.data.Purge()
	c.report.Purge()
}
