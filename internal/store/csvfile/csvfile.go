// Package csvfile keeps each collection in a delimited text file with a header row.
// Every mutation reads the whole file and rewrites it through a temp file and a
// rename, so a reader never sees a half-written table. There is no cross-process
// locking: two processes writing the same directory race and the last rename wins.
package csvfile

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/diewo77/go-revenue/internal/models"
)

const (
	ProductsFile = "products.csv"
	SalesFile    = "sales.csv"
	ExpensesFile = "expenses.csv"
)

type Files struct {
	root string
}

func New(root string) *Files { return &Files{root: root} }

func (f *Files) Root() string { return f.root }

func (f *Files) path(name string) string { return filepath.Join(f.root, name) }

// Bootstrap creates the root directory and a header-only file for each missing
// collection. Existing files are left untouched.
func (f *Files) Bootstrap(ctx context.Context) error {
	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return errors.Wrapf(err, "create data dir %s", f.root)
	}
	tables := []struct {
		name  string
		empty func(path string) error
	}{
		{ProductsFile, func(p string) error { return save(p, []models.Product{}) }},
		{SalesFile, func(p string) error { return save(p, []models.Sale{}) }},
		{ExpensesFile, func(p string) error { return save(p, []models.Expense{}) }},
	}
	for _, t := range tables {
		p := f.path(t.name)
		_, err := os.Stat(p)
		if err == nil {
			continue
		}
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, "stat %s", p)
		}
		if err := t.empty(p); err != nil {
			return err
		}
	}
	return nil
}

func (f *Files) Products(ctx context.Context) ([]models.Product, error) {
	return load[models.Product](f.path(ProductsFile))
}

func (f *Files) Sales(ctx context.Context) ([]models.Sale, error) {
	return load[models.Sale](f.path(SalesFile))
}

func (f *Files) Expenses(ctx context.Context) ([]models.Expense, error) {
	return load[models.Expense](f.path(ExpensesFile))
}

func (f *Files) InsertProduct(ctx context.Context, p models.Product) error {
	return appendRow(f.path(ProductsFile), p)
}

func (f *Files) InsertSale(ctx context.Context, s models.Sale) error {
	return appendRow(f.path(SalesFile), s)
}

func (f *Files) InsertExpense(ctx context.Context, e models.Expense) error {
	return appendRow(f.path(ExpensesFile), e)
}

func (f *Files) DeleteProduct(ctx context.Context, id int64) error {
	return deleteRows(f.path(ProductsFile), func(p models.Product) bool { return p.ID == id })
}

func (f *Files) DeleteSale(ctx context.Context, id int64) error {
	return deleteRows(f.path(SalesFile), func(s models.Sale) bool { return s.ID == id })
}

func (f *Files) Close() error { return nil }

func load[T any](path string) ([]T, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer fh.Close()

	rows := []T{}
	if err := gocsv.Unmarshal(fh, &rows); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return rows, nil
}

func appendRow[T any](path string, row T) error {
	rows, err := load[T](path)
	if err != nil {
		return err
	}
	return save(path, append(rows, row))
}

func deleteRows[T any](path string, match func(T) bool) error {
	rows, err := load[T](path)
	if err != nil {
		return err
	}
	kept := rows[:0]
	for _, r := range rows {
		if !match(r) {
			kept = append(kept, r)
		}
	}
	return save(path, kept)
}

// save writes the header and rows of T, then renames the result over path. An
// empty slice still gets its header row.
func save[T any](path string, rows []T) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", path)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := tmp.Chmod(0o644); err != nil {
		return errors.Wrapf(err, "chmod temp file for %s", path)
	}

	if err := gocsv.Marshal(rows, tmp); err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrapf(err, "sync %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "replace %s", path)
	}
	return nil
}
