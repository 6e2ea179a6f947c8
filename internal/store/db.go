package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/ibct-dev/project-getbit-contract/internal/models"
)

// DB is the durable Store, backed by sqlite through gorm. Atomic maps
// directly onto a database transaction.
type DB struct {
	db *gorm.DB
}

// Open connects to the database at dsn and migrates the schema.
func Open(dsn string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Stat{}, &models.Balance{}, &models.Auction{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Atomic(fn func(Tx) error) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return fn(&dbTx{db: tx})
	})
}

// View serves reads from a plain transaction: sqlite serializes writers,
// so the transaction doubles as a consistent snapshot. mattn/go-sqlite3
// ignores sql.TxOptions, so requesting a read-only transaction would be
// silently inert rather than enforced.
func (d *DB) View(fn func(Tx) error) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return fn(&dbTx{db: tx})
	})
}

type dbTx struct {
	db *gorm.DB
}

func (t *dbTx) Stats() StatTable       { return &dbStats{db: t.db} }
func (t *dbTx) Balances() BalanceTable { return &dbBalances{db: t.db} }
func (t *dbTx) Auctions() AuctionTable { return &dbAuctions{db: t.db} }

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type dbStats struct {
	db *gorm.DB
}

func (t *dbStats) Get(symbolCode string) (*models.Stat, error) {
	var s models.Stat
	if err := t.db.First(&s, "symbol_code = ?", symbolCode).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// Put is an explicit upsert. gorm's Save treats a zero-valued primary key
// as "create", which breaks updates of records legitimately keyed at the
// zero value, so the conflict target is spelled out instead.
func (t *dbStats) Put(s *models.Stat) error {
	return t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol_code"}},
		UpdateAll: true,
	}).Create(s).Error
}

func (t *dbStats) ByIssuer(issuer string) ([]models.Stat, error) {
	var out []models.Stat
	err := t.db.Where("issuer = ?", issuer).Order("symbol_code").Find(&out).Error
	return out, err
}

type dbBalances struct {
	db *gorm.DB
}

func (t *dbBalances) Get(owner, symbolCode string) (*models.Balance, error) {
	var b models.Balance
	if err := t.db.First(&b, "owner = ? AND symbol_code = ?", owner, symbolCode).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (t *dbBalances) Put(b *models.Balance) error {
	return t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "symbol_code"}},
		UpdateAll: true,
	}).Create(b).Error
}

func (t *dbBalances) ByOwner(owner string) ([]models.Balance, error) {
	var out []models.Balance
	err := t.db.Where("owner = ?", owner).Order("symbol_code").Find(&out).Error
	return out, err
}

func (t *dbBalances) Sum(symbolCode string) (int64, error) {
	var total int64
	err := t.db.Model(&models.Balance{}).
		Where("symbol_code = ?", symbolCode).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

type dbAuctions struct {
	db *gorm.DB
}

func (t *dbAuctions) Get(id uint64) (*models.Auction, error) {
	var a models.Auction
	if err := t.db.First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (t *dbAuctions) Put(a *models.Auction) error {
	return t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(a).Error
}

func (t *dbAuctions) ByStatus(status models.AuctionStatus) ([]models.Auction, error) {
	var out []models.Auction
	err := t.db.Where("status = ?", status).Order("id").Find(&out).Error
	return out, err
}

func (t *dbAuctions) DeleteAll() error {
	return t.db.Where("1 = 1").Delete(&models.Auction{}).Error
}
