package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/platform/logger"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// PostgresQuizResultStore implements the store.QuizResultStore interface
// using a PostgreSQL database as the storage backend. Per-question results
// and topic aggregates are stored as JSONB.
type PostgresQuizResultStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuizResultStore creates a new PostgreSQL implementation of the
// QuizResultStore interface. If logger is nil, a default logger will be used.
func NewPostgresQuizResultStore(db store.DBTX, logger *slog.Logger) *PostgresQuizResultStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuizResultStore{
		db:     db,
		logger: logger.With(slog.String("component", "quiz_result_store")),
	}
}

// Ensure PostgresQuizResultStore implements store.QuizResultStore interface
var _ store.QuizResultStore = (*PostgresQuizResultStore)(nil)

// Create implements store.QuizResultStore.Create.
func (s *PostgresQuizResultStore) Create(ctx context.Context, result *domain.QuizResult) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := result.Validate(); err != nil {
		log.Warn("quiz result validation failed during create",
			slog.String("error", err.Error()),
			slog.String("quiz_result_id", result.ID.String()))
		return err
	}

	questionsJSON, err := json.Marshal(result.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal question results: %w", err)
	}

	topicsJSON, err := json.Marshal(result.TopicPerformance)
	if err != nil {
		return fmt.Errorf("failed to marshal topic performance: %w", err)
	}

	query := `
		INSERT INTO quiz_results (id, user_id, score, duration_seconds,
			questions, topic_performance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		result.ID,
		result.UserID,
		result.Score,
		result.DurationSeconds,
		questionsJSON,
		topicsJSON,
		result.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create quiz result",
			slog.String("error", err.Error()),
			slog.String("quiz_result_id", result.ID.String()),
			slog.String("user_id", result.UserID.String()))
		return mapWriteError(err, "quiz result")
	}

	log.Debug("quiz result created",
		slog.String("quiz_result_id", result.ID.String()),
		slog.String("user_id", result.UserID.String()),
		slog.Float64("score", result.Score))
	return nil
}

// ListByUser implements store.QuizResultStore.ListByUser.
func (s *PostgresQuizResultStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.QuizResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, score, duration_seconds, questions, topic_performance, created_at
		FROM quiz_results
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to list quiz results",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var results []*domain.QuizResult
	for rows.Next() {
		result, err := scanQuizResult(rows)
		if err != nil {
			log.Error("failed to scan quiz result row", slog.String("error", err.Error()))
			return nil, err
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if results == nil {
		results = []*domain.QuizResult{}
	}

	return results, nil
}

// WithTx implements store.QuizResultStore.WithTx.
func (s *PostgresQuizResultStore) WithTx(tx *sql.Tx) store.QuizResultStore {
	return &PostgresQuizResultStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanQuizResult(row rowScanner) (*domain.QuizResult, error) {
	var result domain.QuizResult
	var questionsJSON, topicsJSON []byte

	err := row.Scan(
		&result.ID,
		&result.UserID,
		&result.Score,
		&result.DurationSeconds,
		&questionsJSON,
		&topicsJSON,
		&result.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(questionsJSON, &result.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question results: %w", err)
	}

	if err := json.Unmarshal(topicsJSON, &result.TopicPerformance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal topic performance: %w", err)
	}

	return &result, nil
}
