package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentora/rentora/internal/domain"
)

//go:embed schema.sql
var schema string

type Store struct {
	pool          *pgxpool.Pool
	users         *UserRepo
	properties    *PropertyRepo
	applications  *ApplicationRepo
	contracts     *ContractRepo
	payments      *PaymentRepo
	notifications *NotificationRepo
	analytics     *AnalyticsRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:          pool,
		users:         NewUserRepo(pool),
		properties:    NewPropertyRepo(pool),
		applications:  NewApplicationRepo(pool),
		contracts:     NewContractRepo(pool),
		payments:      NewPaymentRepo(pool),
		notifications: NewNotificationRepo(pool),
		analytics:     NewAnalyticsRepo(pool),
	}, nil
}

// Migrate applies the embedded schema. Every statement is idempotent so it is
// safe to run on every startup.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres.Migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Users() domain.UserRepository                 { return s.users }
func (s *Store) Properties() domain.PropertyRepository        { return s.properties }
func (s *Store) Applications() domain.ApplicationRepository   { return s.applications }
func (s *Store) Contracts() domain.ContractRepository         { return s.contracts }
func (s *Store) Payments() domain.PaymentRepository           { return s.payments }
func (s *Store) Notifications() domain.NotificationRepository { return s.notifications }
func (s *Store) Analytics() domain.AnalyticsRepository        { return s.analytics }

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
