package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName 管件库文件名
const FileName = "fittings.json"

// File JSON 文件管件库, 每次修改后整体写回
type File struct {
	Memory
	path string
}

// OpenFile 打开 dir 下的管件库文件.
// 文件不存在或内容损坏时以内置数据重建.
func OpenFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建管件库目录失败: %w", err)
	}
	f := &File{path: filepath.Join(dir, FileName)}
	data, err := os.ReadFile(f.path)
	if err == nil {
		var items []Item
		if json.Unmarshal(data, &items) == nil {
			f.items = items
			return f, nil
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("读取管件库失败: %w", err)
	}
	f.items = Defaults()
	if err := f.save(); err != nil {
		return nil, err
	}
	return f, nil
}

// Path 文件路径
func (f *File) Path() string { return f.path }

func (f *File) save() error {
	data, err := json.MarshalIndent(f.items, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化管件库失败: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("写入管件库失败: %w", err)
	}
	return nil
}

func (f *File) Upsert(ctx context.Context, item *Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsert(item)
	return f.save()
}

func (f *File) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remove(id)
	return f.save()
}
