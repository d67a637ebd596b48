// Package paths переводит пути относительно корня проекта в абсолютные.
package paths

import (
	"os"
	"path/filepath"
)

const RootEnv = "CLUBSTATS_ROOT"

type Resolver struct {
	Root string
}

// NewResolver: пустой root заменяется на CLUBSTATS_ROOT, затем на рабочий
// каталог.
func NewResolver(root string) (*Resolver, error) {
	if root == "" {
		root = os.Getenv(RootEnv)
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Resolver{Root: abs}, nil
}

// Resolve оставляет абсолютные пути как есть.
func (r *Resolver) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(r.Root, rel)
}

// Sibling возвращает путь к файлу name в каталоге файла path.
func Sibling(path, name string) string {
	return filepath.Join(filepath.Dir(path), name)
}
