package waitlist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/luminfeed/waitlist-service/internal/log"
	"github.com/luminfeed/waitlist-service/internal/models"
	apperrors "github.com/luminfeed/waitlist-service/pkg/errors"
	"gorm.io/gorm"
)

// PostgresStoreBackend inserts into the waitlist table over a direct database connection.
type PostgresStoreBackend struct {
	db         *gorm.DB
	table      string
	constraint string
	logger     *log.Logger
}

func NewPostgresStoreBackend(db *gorm.DB, table, constraint string, logger *log.Logger) *PostgresStoreBackend {
	return &PostgresStoreBackend{db: db, table: table, constraint: constraint, logger: logger}
}

func (b *PostgresStoreBackend) Kind() string {
	return BackendKindStore
}

func (b *PostgresStoreBackend) Insert(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, b.logger)

	tx := b.db.WithContext(ctx)
	if b.table != "" {
		tx = tx.Table(b.table)
	}

	if err := tx.Create(entry).Error; err != nil {
		if b.isDuplicateEmail(err) {
			logger.Info("Duplicate waitlist email rejected by store")
			return nil, apperrors.NewConflictError(msgDuplicateEmail, err)
		}

		logger.Error("Store insert failed", "error", err)

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, apperrors.NewUpstreamError(pgErr.Message, err)
		}
		return nil, apperrors.NewUpstreamError(msgTransportFailure, err)
	}

	if entry.ID == "" {
		return nil, apperrors.NewUpstreamError(msgEmptyInsert, nil)
	}

	return entry, nil
}

func (b *PostgresStoreBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// isDuplicateEmail only trusts the constraint name when the driver reports one.
func (b *PostgresStoreBackend) isDuplicateEmail(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return apperrors.IsUniqueViolationOn(err, b.constraint)
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}
