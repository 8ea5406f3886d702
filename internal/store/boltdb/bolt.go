// Package boltdb stores each collection in its own bbolt bucket. Keys are the
// big-endian record id so cursor order is id order; values are JSON.
package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/diewo77/go-revenue/internal/models"
)

var (
	productsBucket = []byte("products")
	salesBucket    = []byte("sales")
	expensesBucket = []byte("expenses")
)

type DB struct {
	db *bolt.DB
}

// Open opens or creates the database file. bbolt holds an exclusive file lock,
// so a second process blocks until timeout.
func Open(path string) (*DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt database %s", path)
	}
	return &DB{db: db}, nil
}

func (d *DB) Bootstrap(ctx context.Context) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{productsBucket, salesBucket, expensesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return errors.Wrapf(err, "create bucket %s", name)
			}
		}
		return nil
	})
}

func (d *DB) Products(ctx context.Context) ([]models.Product, error) {
	return list[models.Product](d.db, productsBucket)
}

func (d *DB) Sales(ctx context.Context) ([]models.Sale, error) {
	return list[models.Sale](d.db, salesBucket)
}

func (d *DB) Expenses(ctx context.Context) ([]models.Expense, error) {
	return list[models.Expense](d.db, expensesBucket)
}

func (d *DB) InsertProduct(ctx context.Context, p models.Product) error {
	return put(d.db, productsBucket, p.ID, p)
}

func (d *DB) InsertSale(ctx context.Context, s models.Sale) error {
	return put(d.db, salesBucket, s.ID, s)
}

func (d *DB) InsertExpense(ctx context.Context, e models.Expense) error {
	return put(d.db, expensesBucket, e.ID, e)
}

func (d *DB) DeleteProduct(ctx context.Context, id int64) error {
	return remove(d.db, productsBucket, id)
}

func (d *DB) DeleteSale(ctx context.Context, id int64) error {
	return remove(d.db, salesBucket, id)
}

func (d *DB) Close() error { return d.db.Close() }

func key(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func bucket(tx *bolt.Tx, name []byte) (*bolt.Bucket, error) {
	b := tx.Bucket(name)
	if b == nil {
		return nil, errors.Errorf("bucket %s does not exist", name)
	}
	return b, nil
}

func list[T any](db *bolt.DB, name []byte) ([]T, error) {
	rows := []T{}
	err := db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, name)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			var row T
			if err := json.Unmarshal(v, &row); err != nil {
				return errors.Wrapf(err, "decode %s/%d", name, binary.BigEndian.Uint64(k))
			}
			rows = append(rows, row)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func put(db *bolt.DB, name []byte, id int64, row any) error {
	v, err := json.Marshal(row)
	if err != nil {
		return errors.Wrapf(err, "encode %s/%d", name, id)
	}
	return db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, name)
		if err != nil {
			return err
		}
		return b.Put(key(id), v)
	})
}

func remove(db *bolt.DB, name []byte, id int64) error {
	return db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, name)
		if err != nil {
			return err
		}
		return b.Delete(key(id))
	})
}
