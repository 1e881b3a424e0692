package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/domain/repository"
	pkgch "RiskLens/pkg/clickhouse"
	applogger "RiskLens/pkg/logger"
)

// CHSnapshotArchive appends every built snapshot to ClickHouse: one summary
// row plus one row per entity with its latest two scores.
type CHSnapshotArchive struct {
	ch       *pkgch.Client
	db       *sql.DB
	database string
	l        *applogger.Logger
}

var _ repository.SnapshotArchive = (*CHSnapshotArchive)(nil)

func NewCHSnapshotArchive(ch *pkgch.Client, database string, l *applogger.Logger) *CHSnapshotArchive {
	if database == "" {
		database = "risklens"
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &CHSnapshotArchive{ch: ch, db: ch.DB(), database: database, l: l}
}

// Schema returns the idempotent DDL for the archive tables.
func (s *CHSnapshotArchive) Schema() []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", s.database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.risk_snapshots (
            generated_at DateTime64(3),
            risk_index Int32,
            risk_score_change Int32,
            risk_level LowCardinality(String),
            entity_count UInt16,
            alert_count UInt16,
            drivers String,
            payload String
        ) ENGINE = MergeTree ORDER BY generated_at`, s.database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.entity_scores (
            generated_at DateTime64(3),
            entity_id String,
            symbol String,
            sector LowCardinality(String),
            source LowCardinality(String),
            previous_score UInt8,
            latest_score UInt8
        ) ENGINE = MergeTree ORDER BY (entity_id, generated_at)`, s.database),
	}
}

func (s *CHSnapshotArchive) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, s.Schema())
}

func (s *CHSnapshotArchive) Store(ctx context.Context, snap *models.AggregateSnapshot) error {
	start := time.Now()
	drivers, err := json.Marshal(snap.Drivers)
	if err != nil {
		return fmt.Errorf("marshal drivers: %w", err)
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	q := fmt.Sprintf("INSERT INTO %s.risk_snapshots (generated_at, risk_index, risk_score_change, risk_level, entity_count, alert_count, drivers, payload) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", s.database)
	if _, err := s.db.ExecContext(ctx, q,
		snap.GeneratedAt,
		snap.RiskIndex,
		snap.RiskScoreChange,
		string(snap.RiskLevel),
		len(snap.Entities),
		len(snap.Alerts),
		string(drivers),
		string(payload),
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	values := make([]string, 0, len(snap.Entities))
	args := make([]interface{}, 0, len(snap.Entities)*7)
	for _, e := range snap.Entities {
		prev, latest, ok := e.LastTwo()
		if !ok {
			if len(e.Observations) == 0 {
				continue
			}
			latest = e.Observations[0].Score
			prev = latest
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, snap.GeneratedAt, e.ID, e.Symbol, e.Sector, string(e.Source), uint8(prev), uint8(latest))
	}
	if len(values) > 0 {
		q = fmt.Sprintf("INSERT INTO %s.entity_scores (generated_at, entity_id, symbol, sector, source, previous_score, latest_score) VALUES %s", s.database, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert entity scores: %w", err)
		}
	}

	s.l.Debug("clickhouse snapshot archived",
		applogger.Int("entities", len(values)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

func (s *CHSnapshotArchive) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

func (s *CHSnapshotArchive) Close() error {
	return s.ch.Close()
}
